// Package memory keeps categories and questions in process memory. It backs
// the memory store driver and the service and handler tests.
package memory

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Store holds the rows shared by the memory repositories
type Store struct {
	mu             sync.RWMutex
	categories     map[int]domain.Category
	questions      map[int]domain.Question
	nextCategoryID int
	nextQuestionID int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		categories:     make(map[int]domain.Category),
		questions:      make(map[int]domain.Question),
		nextCategoryID: 1,
		nextQuestionID: 1,
	}
}

// AddCategory inserts a category and returns it with its assigned id
func (s *Store) AddCategory(name string) *domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addCategory(name)
}

// addCategory inserts a category. Callers hold the write lock.
func (s *Store) addCategory(name string) *domain.Category {
	category := domain.Category{ID: s.nextCategoryID, Type: name}
	s.categories[category.ID] = category
	s.nextCategoryID++
	return &category
}

// SeedCategories adds names when the store holds no categories yet
func (s *Store) SeedCategories(names []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.categories) > 0 {
		return 0
	}
	for _, name := range names {
		s.addCategory(name)
	}
	return len(names)
}

// sortedQuestions returns copies of the questions accepted by keep, ordered by id.
// Callers hold at least a read lock.
func (s *Store) sortedQuestions(keep func(domain.Question) bool) []*domain.Question {
	questions := make([]*domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			questions = append(questions, &q)
		}
	}
	slices.SortFunc(questions, func(a, b *domain.Question) int { return a.ID - b.ID })
	return questions
}

// QuestionRepository implements domain.QuestionRepository over a Store
type QuestionRepository struct {
	store *Store
}

// NewQuestionRepository creates a question repository backed by store
func NewQuestionRepository(store *Store) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) List(ctx context.Context) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedQuestions(func(domain.Question) bool { return true }), nil
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedQuestions(func(q domain.Question) bool { return q.Category == categoryID }), nil
}

func (r *QuestionRepository) Search(ctx context.Context, term string) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	term = strings.ToLower(term)
	return r.store.sortedQuestions(func(q domain.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	}), nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q, ok := r.store.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *QuestionRepository) GetRandomQuestion(ctx context.Context, categoryID int, exclude []int) (*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	candidates := r.store.sortedQuestions(func(q domain.Question) bool {
		if categoryID != 0 && q.Category != categoryID {
			return false
		}
		return !slices.Contains(exclude, q.ID)
	})
	if len(candidates) == 0 {
		return nil, domain.ErrQuestionNotFound
	}
	return candidates[rand.IntN(len(candidates))], nil
}

func (r *QuestionRepository) CreateQuestion(ctx context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.categories[question.Category]; !ok {
		return domain.ErrCategoryNotFound
	}

	question.ID = r.store.nextQuestionID
	r.store.nextQuestionID++
	r.store.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.store.questions, id)
	return nil
}

// CategoryRepository implements domain.CategoryRepository over a Store
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates a category repository backed by store
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, &c)
	}
	slices.SortFunc(categories, func(a, b *domain.Category) int { return a.ID - b.ID })
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}
