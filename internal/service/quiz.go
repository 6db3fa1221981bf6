package service

import (
	"context"
	"errors"

	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/validation"
)

// AllCategories selects questions from every category in a quiz
const AllCategories = 0

// QuizService serves quiz play: drawing questions and checking answers
type QuizService struct {
	questionRepo domain.QuestionRepository
	categoryRepo domain.CategoryRepository
}

// NewQuizService creates a new quiz service
func NewQuizService(questionRepo domain.QuestionRepository, categoryRepo domain.CategoryRepository) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
	}
}

// AnswerResult is the verdict on a submitted answer
type AnswerResult struct {
	Correct bool
	Answer  string
}

// NextQuestion draws a random question from categoryID that is not among
// previous. It returns nil without error once every question was played.
func (s *QuizService) NextQuestion(ctx context.Context, categoryID int, previous []int) (*domain.Question, error) {
	if categoryID != AllCategories {
		if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
			return nil, storeError("get category", err)
		}
	}

	question, err := s.questionRepo.GetRandomQuestion(ctx, categoryID, previous)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, nil
		}
		return nil, storeError("get random question", err)
	}
	return question, nil
}

// CheckAnswer compares answer with the stored answer of questionID
func (s *QuizService) CheckAnswer(ctx context.Context, questionID int, answer string) (*AnswerResult, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, storeError("get question", err)
	}

	return &AnswerResult{
		Correct: validation.IsCorrectAnswer(question.Answer, answer),
		Answer:  question.Answer,
	}, nil
}
