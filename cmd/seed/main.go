package main

import (
	"context"
	"log"
	"os"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/store"
	"github.com/Deadra-code/Kitchen-POS/internal/seed"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	n, err := seed.Apply(ctx, catalog.New(st.Products, st.Categories, st.Owners, logger))
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied: %d products", n)
}
