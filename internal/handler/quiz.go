package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// QuizHandler handles quiz play requests
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Register registers the quiz routes
func (h *QuizHandler) Register(g *echo.Group) {
	g.POST("/quizzes", h.NextQuestion)
	g.POST("/quizzes/answers", h.CheckAnswer)
}

// QuizCategory identifies the category a quiz is played in. ID 0 stands
// for all categories.
type QuizCategory struct {
	ID   FlexInt `json:"id" validate:"min=0"`
	Type string  `json:"type"`
}

// NextQuestionRequest represents the request for the next quiz question
type NextQuestionRequest struct {
	PreviousQuestions []int         `json:"previous_questions"`
	QuizCategory      *QuizCategory `json:"quiz_category"`
}

// CheckAnswerRequest represents an answer submitted for a quiz question
type CheckAnswerRequest struct {
	QuestionID FlexInt `json:"question_id" validate:"required,min=1"`
	Answer     string  `json:"answer" validate:"required"`
}

// NextQuestion draws a question that was not played yet
func (h *QuizHandler) NextQuestion(c echo.Context) error {
	var req NextQuestionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	categoryID := service.AllCategories
	if req.QuizCategory != nil {
		categoryID = int(req.QuizCategory.ID)
	}

	question, err := h.quizService.NextQuestion(c.Request().Context(), categoryID, req.PreviousQuestions)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return unprocessable(err)
		}
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"question": question,
	})
}

// CheckAnswer tells the player whether their answer was correct
func (h *QuizHandler) CheckAnswer(c echo.Context) error {
	var req CheckAnswerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	result, err := h.quizService.CheckAnswer(c.Request().Context(), int(req.QuestionID), req.Answer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return notFound(err)
		}
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"correct": result.Correct,
		"answer":  result.Answer,
	})
}
