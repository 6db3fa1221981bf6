package domain

import "context"

// DefaultCategories are seeded into an empty store, in id order.
var DefaultCategories = []string{
	"Science",
	"Art",
	"Geography",
	"History",
	"Entertainment",
	"Sports",
}

// CategoryRepository defines the interface for category lookups
type CategoryRepository interface {
	// List retrieves every category ordered by id
	List(ctx context.Context) ([]*Category, error)

	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id int) (*Category, error)
}

// Category groups questions under a display name such as "Science"
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}
