package domain

import (
	"context"
)

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// List retrieves every question ordered by id
	List(ctx context.Context) ([]*Question, error)

	// ListByCategory retrieves the questions filed under a category, ordered by id
	ListByCategory(ctx context.Context, categoryID int) ([]*Question, error)

	// Search retrieves the questions whose text contains term, ignoring case
	Search(ctx context.Context, term string) ([]*Question, error)

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id int) (*Question, error)

	// GetRandomQuestion retrieves a random question from a category, skipping
	// the excluded ids. A categoryID of 0 draws from every category.
	GetRandomQuestion(ctx context.Context, categoryID int, exclude []int) (*Question, error)

	// CreateQuestion creates a new question and assigns its ID
	CreateQuestion(ctx context.Context, question *Question) error

	// DeleteQuestion deletes a question
	DeleteQuestion(ctx context.Context, id int) error
}

// Question represents a trivia question
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}
