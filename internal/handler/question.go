package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// QuestionHandler handles question-related HTTP requests
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Register registers the question routes. The write middlewares only wrap
// the routes that change data.
func (h *QuestionHandler) Register(g *echo.Group, write ...echo.MiddlewareFunc) {
	g.GET("/questions", h.GetQuestions)
	g.POST("/questions", h.CreateQuestion, write...)
	g.DELETE("/questions/:id", h.DeleteQuestion, write...)
	g.POST("/searchQuestions", h.SearchQuestions)
}

// CreateQuestionRequest represents the request to create a new question
type CreateQuestionRequest struct {
	Question   string  `json:"question" validate:"required"`
	Answer     string  `json:"answer" validate:"required"`
	Difficulty FlexInt `json:"difficulty" validate:"required,min=1,max=5"`
	Category   FlexInt `json:"category" validate:"required,min=1"`
}

// SearchQuestionsRequest represents a question search. An empty term
// matches every question.
type SearchQuestionsRequest struct {
	SearchTerm *string `json:"searchTerm" validate:"required"`
}

// GetQuestions returns a page of questions along with the categories
func (h *QuestionHandler) GetQuestions(c echo.Context) error {
	page := pagination.PageFromQuery(c.QueryParam("page"))

	result, err := h.questionService.List(c.Request().Context(), page)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return notFound(err)
		}
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
		"categories":      result.Categories,
	})
}

// CreateQuestion handles the creation of a new question
func (h *QuestionHandler) CreateQuestion(c echo.Context) error {
	var req CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}

	question := &domain.Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   int(req.Category),
		Difficulty: int(req.Difficulty),
	}
	page := pagination.PageFromQuery(c.QueryParam("page"))

	result, err := h.questionService.Create(c.Request().Context(), question, page)
	if err != nil {
		return unprocessable(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"created":         question.ID,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// DeleteQuestion removes a question by id
func (h *QuestionHandler) DeleteQuestion(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	page := pagination.PageFromQuery(c.QueryParam("page"))

	questions, err := h.questionService.Delete(c.Request().Context(), id, page)
	if err != nil {
		return unprocessable(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"deleted":   id,
		"questions": questions,
	})
}

// SearchQuestions returns a page of questions whose text contains the term
func (h *QuestionHandler) SearchQuestions(c echo.Context) error {
	var req SearchQuestionsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err)
	}
	page := pagination.PageFromQuery(c.QueryParam("page"))

	result, err := h.questionService.Search(c.Request().Context(), *req.SearchTerm, page)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return notFound(err)
		}
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}
