package domain

import (
	"regexp"
	"strings"
)

// CategoryItem groups products on the menu.
type CategoryItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OwnerItem names who supplies a product (consignment partner, kitchen, ...).
type OwnerItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// Slugify derives the id of a category or owner from its name: lowercased,
// every whitespace run replaced by a single hyphen. Names that slugify to the
// same id address the same record.
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}
