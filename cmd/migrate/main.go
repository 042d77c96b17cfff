package main

import (
	"context"
	"log"
	"os"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/db"
	"github.com/Deadra-code/Kitchen-POS/internal/migrate"
	"github.com/spf13/pflag"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	driver := flags.String("driver", cfg.StoreDriver, "store driver: sqlite or postgres")
	sqlitePath := flags.String("sqlite-path", cfg.SQLitePath, "SQLite database file")
	target := flags.Uint("to", 0, "migrate to this schema version instead of the latest (down migrations included)")
	showVersion := flags.Bool("version", false, "print the current schema version and exit")
	_ = flags.Parse(os.Args[1:])

	ctx := context.Background()
	var m *migrate.Migrator
	switch *driver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect db: %v", err)
		}
		defer pool.Close()
		if m, err = migrate.NewPostgres(ctx, pool); err != nil {
			logger.Fatalf("init migrator: %v", err)
		}
	case config.DriverSQLite:
		var err error
		if m, err = migrate.NewSQLite(ctx, *sqlitePath); err != nil {
			logger.Fatalf("init migrator: %v", err)
		}
	default:
		logger.Fatalf("unknown driver %q", *driver)
	}
	defer m.Close()

	if *showVersion {
		v, err := m.Version()
		if err != nil {
			logger.Fatalf("read version: %v", err)
		}
		logger.Printf("schema version %d (latest %d)", v, migrate.LatestVersion)
		return
	}

	if *target > 0 {
		if err := m.To(*target); err != nil {
			logger.Fatalf("migrate to %d: %v", *target, err)
		}
		logger.Printf("schema at version %d", *target)
		return
	}

	if err := m.Up(); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")
}
