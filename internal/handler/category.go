package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Register registers the category routes
func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("/categories", h.GetCategories)
	g.GET("/categories/:id/questions", h.GetCategoryQuestions)
}

// GetCategories returns a page of categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	page := pagination.PageFromQuery(c.QueryParam("page"))

	categories, err := h.categoryService.List(c.Request().Context(), page)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			return notFound(err)
		}
		return internalError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}

// GetCategoryQuestions returns a page of the questions in one category
func (h *CategoryHandler) GetCategoryQuestions(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return notFound(err)
	}
	page := pagination.PageFromQuery(c.QueryParam("page"))

	// Unknown categories, empty pages and store failures all answer 422.
	result, err := h.categoryService.Questions(c.Request().Context(), id, page)
	if err != nil {
		return unprocessable(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": result.Category.Type,
	})
}
