package service

import (
	"context"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"go.uber.org/zap"
)

// QuestionService handles question listing, search, creation and deletion
type QuestionService struct {
	questionRepo domain.QuestionRepository
	categoryRepo domain.CategoryRepository
	publisher    domain.EventPublisher
	logger       *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo domain.QuestionRepository, categoryRepo domain.CategoryRepository, publisher domain.EventPublisher, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// QuestionPage is one page of questions. Total counts the whole selection the
// page was cut from.
type QuestionPage struct {
	Questions  []*domain.Question
	Total      int
	Categories []*domain.Category
}

// List returns one page of all questions along with the first page of categories
func (s *QuestionService) List(ctx context.Context, page int) (*QuestionPage, error) {
	selection, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, storeError("list questions", err)
	}

	current := pagination.Paginate(selection, page, pagination.PerPage)
	if len(current) == 0 {
		return nil, ErrPageNotFound
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}

	return &QuestionPage{
		Questions:  current,
		Total:      len(selection),
		Categories: pagination.Paginate(categories, 1, pagination.PerPage),
	}, nil
}

// Search returns one page of the questions whose text contains term
func (s *QuestionService) Search(ctx context.Context, term string, page int) (*QuestionPage, error) {
	selection, err := s.questionRepo.Search(ctx, term)
	if err != nil {
		return nil, storeError("search questions", err)
	}

	current := pagination.Paginate(selection, page, pagination.PerPage)
	if len(current) == 0 {
		return nil, ErrPageNotFound
	}

	return &QuestionPage{
		Questions: current,
		Total:     len(selection),
	}, nil
}

// Create inserts question and returns the requested page of all questions
func (s *QuestionService) Create(ctx context.Context, question *domain.Question, page int) (*QuestionPage, error) {
	if err := s.questionRepo.CreateQuestion(ctx, question); err != nil {
		return nil, storeError("create question", err)
	}

	s.publish(ctx, domain.EventQuestionCreated, question)

	selection, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, storeError("list questions", err)
	}

	return &QuestionPage{
		Questions: pagination.Paginate(selection, page, pagination.PerPage),
		Total:     len(selection),
	}, nil
}

// Delete removes the question with id and returns the requested page of the
// remaining questions
func (s *QuestionService) Delete(ctx context.Context, id, page int) ([]*domain.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get question", err)
	}

	if err := s.questionRepo.DeleteQuestion(ctx, id); err != nil {
		return nil, storeError("delete question", err)
	}

	s.publish(ctx, domain.EventQuestionDeleted, question)

	selection, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, storeError("list questions", err)
	}

	return pagination.Paginate(selection, page, pagination.PerPage), nil
}

// publish notifies subscribers. A failed notification does not fail the
// mutation that caused it.
func (s *QuestionService) publish(ctx context.Context, eventType domain.EventType, question *domain.Question) {
	event, err := domain.NewEvent(eventType, question)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", string(eventType)),
			zap.Int("question_id", question.ID),
			zap.Error(err),
		)
	}
}
