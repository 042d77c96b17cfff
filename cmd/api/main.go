package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/httpserver"
	"github.com/Deadra-code/Kitchen-POS/internal/metrics"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/store"
	catalogsvc "github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
	ledgersvc "github.com/Deadra-code/Kitchen-POS/internal/service/ledger"
	"github.com/Deadra-code/Kitchen-POS/internal/service/register"
	"github.com/Deadra-code/Kitchen-POS/internal/settings"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.Close()

	settingsStore := settings.NewFileStore(cfg.SettingsFile)
	current, err := settingsStore.Load()
	if err != nil {
		logger.Fatalf("load settings from %s: %v", settingsStore.Path(), err)
	}
	logger.Printf("store %q, tax rate %s%%", current.StoreName, current.TaxRate)

	m := metrics.New()
	catalogService := catalogsvc.New(st.Products, st.Categories, st.Owners, logger)
	ledgerService := ledgersvc.New(st.Orders, m, logger)
	reg := register.New(register.Deps{
		Ledger:   ledgerService,
		Catalog:  catalogService,
		Settings: settingsStore,
		Store:    st,
	}, current, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Store:       st,
		Catalog:     catalogService,
		Register:    reg,
		Ledger:      ledgerService,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
