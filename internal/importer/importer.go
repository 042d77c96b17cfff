package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
)

// Header is the column layout the importer reads. Only name and price are
// required; the other columns may be left out or blank.
var Header = []string{"id", "name", "price", "category", "owner", "image", "description"}

type CatalogWriter interface {
	AddCategory(ctx context.Context, name string) (*domain.CategoryItem, error)
	AddOwner(ctx context.Context, name string) (*domain.OwnerItem, error)
	SaveProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
}

// CSVImporter reads a menu CSV and saves every row through the catalog, so
// imported products get the same validation and defaults as typed ones.
type CSVImporter struct {
	reader  *csv.Reader
	catalog CatalogWriter

	seenCategories map[string]bool
	seenOwners     map[string]bool
}

func NewCSVImporter(r io.Reader, c CatalogWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:         csvr,
		catalog:        c,
		seenCategories: map[string]bool{},
		seenOwners:     map[string]bool{},
	}
}

// Run imports rows until EOF and returns how many products were saved. It
// stops at the first row the catalog rejects; rows before it stay saved.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing %q column", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}

		line, _ := i.reader.FieldPos(0)
		in := parseRow(record, index)
		if err := i.save(ctx, in); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, in catalog.ProductInput) error {
	if in.Category != "" && !i.seenCategories[in.Category] {
		if _, err := i.catalog.AddCategory(ctx, in.Category); err != nil {
			return fmt.Errorf("add category %q: %w", in.Category, err)
		}
		i.seenCategories[in.Category] = true
	}
	if in.Owner != "" && !i.seenOwners[in.Owner] {
		if _, err := i.catalog.AddOwner(ctx, in.Owner); err != nil {
			return fmt.Errorf("add owner %q: %w", in.Owner, err)
		}
		i.seenOwners[in.Owner] = true
	}
	if _, err := i.catalog.SaveProduct(ctx, in); err != nil {
		return fmt.Errorf("save product %q: %w", in.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) catalog.ProductInput {
	return catalog.ProductInput{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Price:       pick(record, index, "price"),
		Category:    pick(record, index, "category"),
		Owner:       pick(record, index, "owner"),
		Image:       pick(record, index, "image"),
		Description: pick(record, index, "description"),
	}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
