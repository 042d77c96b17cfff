package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/config"
	"github.com/Deadra-code/Kitchen-POS/internal/importer"
	"github.com/Deadra-code/Kitchen-POS/internal/repository/store"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	filePath := flags.StringP("file", "f", "", "path to a menu CSV ("+strings.Join(importer.Header, ",")+")")
	_ = flags.Parse(os.Args[1:])

	if *filePath == "" {
		flags.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalog.New(st.Products, st.Categories, st.Owners, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d products: %v", count, err)
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
