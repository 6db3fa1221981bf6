package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIPrefix is the path the API routes are mounted under besides the root
const APIPrefix = "/api"

// NewEcho creates an echo instance with the request validator and the JSON
// error handler installed
func NewEcho(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)
	return e
}

// Handlers bundles the route handlers of the API
type Handlers struct {
	Categories *CategoryHandler
	Questions  *QuestionHandler
	Quizzes    *QuizHandler
	WebSocket  *WebSocketHandler
}

// Mount registers every API route at the root and under APIPrefix. The
// write middlewares wrap the routes that change data.
func Mount(e *echo.Echo, h Handlers, write ...echo.MiddlewareFunc) {
	for _, g := range []*echo.Group{e.Group(""), e.Group(APIPrefix)} {
		h.Categories.Register(g)
		h.Questions.Register(g, write...)
		h.Quizzes.Register(g)
		if h.WebSocket != nil {
			g.GET("/ws", h.WebSocket.HandleWebSocket)
		}
	}

	e.GET("/health", Health)
}

// Health reports that the process is serving requests
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
