// Package store bundles the four collections of one backend and owns the
// connection they share.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/db"
	"github.com/Deadra-code/Kitchen-POS/internal/migrate"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/category"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/order"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/owner"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/product"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// resetTables lists every table ResetAll empties, children first.
var resetTables = []string{"orders", "products", "categories", "owners"}

// Store is the local store: orders, products, categories and owners kept in
// one database.
type Store struct {
	Orders     order.Repository
	Products   product.Repository
	Categories category.Repository
	Owners     owner.Repository

	logger *log.Logger
	reset  func(ctx context.Context) error
	ping   func(ctx context.Context) error
	close  func() error
}

// Open connects to the backend named by cfg.StoreDriver, brings its schema
// up to migrate.LatestVersion and returns the bundled store.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgres(pool, logger), nil
	case config.DriverSQLite, "":
		if err := migrate.ApplySQLite(ctx, cfg.SQLitePath); err != nil {
			return nil, err
		}
		gdb, err := db.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLite(gdb, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewPostgres wraps an already migrated pool.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Store {
	logger = orDiscard(logger)
	return &Store{
		Orders:     order.NewPostgres(pool, logger),
		Products:   product.NewPostgres(pool, logger),
		Categories: category.NewPostgres(pool),
		Owners:     owner.NewPostgres(pool),
		logger:     logger,
		reset: func(ctx context.Context) error {
			tx, err := pool.Begin(ctx)
			if err != nil {
				return err
			}
			defer tx.Rollback(ctx)
			for _, table := range resetTables {
				if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
			return tx.Commit(ctx)
		},
		ping: pool.Ping,
		close: func() error {
			pool.Close()
			return nil
		},
	}
}

// NewSQLite wraps an already migrated gorm handle.
func NewSQLite(gdb *gorm.DB, logger *log.Logger) *Store {
	logger = orDiscard(logger)
	return &Store{
		Orders:     order.NewSQLite(gdb, logger),
		Products:   product.NewSQLite(gdb, logger),
		Categories: category.NewSQLite(gdb),
		Owners:     owner.NewSQLite(gdb),
		logger:     logger,
		reset: func(ctx context.Context) error {
			return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				for _, table := range resetTables {
					if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
						return fmt.Errorf("clear %s: %w", table, err)
					}
				}
				return nil
			})
		},
		ping: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// ResetAll empties every collection in one transaction: either all four are
// cleared or none is.
func (s *Store) ResetAll(ctx context.Context) error {
	if err := s.reset(ctx); err != nil {
		s.logger.Printf("store: reset error=%v", err)
		return err
	}
	s.logger.Printf("store: reset all collections")
	return nil
}

// Ping reports whether the backing database answers.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return errors.New("store not opened")
	}
	return s.ping(ctx)
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return logger
}
