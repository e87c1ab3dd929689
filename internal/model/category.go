package model

import "strings"

// Category is a named bucket transactions and budgets are classified under.
// Categories are flat (no hierarchy) and effectively immutable once created.
type Category struct {
	Name string
	ID   int
}

// DefaultCategories is the fixed set restored after any initialization or
// reset of the store.
var DefaultCategories = []string{
	"alimentation",
	"logement",
	"loisirs",
	"transports",
	"santé",
	"autres",
}

// NewCategory validates and constructs a category.
func NewCategory(name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newValidationError("category", "name cannot be empty")
	}
	return &Category{Name: name}, nil
}
