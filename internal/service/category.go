package service

import (
	"context"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
)

// CategoryService serves category listings and per-category question pages
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	questionRepo domain.QuestionRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo domain.CategoryRepository, questionRepo domain.QuestionRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
	}
}

// CategoryQuestions is one page of a category's questions
type CategoryQuestions struct {
	Category  *domain.Category
	Questions []*domain.Question
	Total     int
}

// List returns one page of categories ordered by id
func (s *CategoryService) List(ctx context.Context, page int) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}

	current := pagination.Paginate(categories, page, pagination.PerPage)
	if len(current) == 0 {
		return nil, ErrPageNotFound
	}
	return current, nil
}

// Questions returns one page of the questions filed under categoryID.
// Total counts every question of the category.
func (s *CategoryService) Questions(ctx context.Context, categoryID, page int) (*CategoryQuestions, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, storeError("get category", err)
	}

	selection, err := s.questionRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, storeError("list category questions", err)
	}

	current := pagination.Paginate(selection, page, pagination.PerPage)
	if len(current) == 0 {
		return nil, ErrPageNotFound
	}

	return &CategoryQuestions{
		Category:  category,
		Questions: current,
		Total:     len(selection),
	}, nil
}
