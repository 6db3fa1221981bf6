package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/service"
	ws "github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
)

// Category ids follow domain.DefaultCategories.
const (
	science = iota + 1
	art
	geography
	history
	entertainment
	sports
)

var sampleQuestions = []domain.Question{
	{Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: science, Difficulty: 4},
	{Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: science, Difficulty: 3},
	{Question: "Hematology is a branch of medicine involving the study of what?", Answer: "Blood", Category: science, Difficulty: 4},
	{Question: "Which Dutch graphic artist, initials M C, was a creator of optical illusions?", Answer: "Escher", Category: art, Difficulty: 1},
	{Question: "La Giaconda is better known as what?", Answer: "Mona Lisa", Category: art, Difficulty: 3},
	{Question: "How many paintings did Van Gogh sell in his lifetime?", Answer: "One", Category: art, Difficulty: 4},
	{Question: "Which American artist was a pioneer of Abstract Expressionism?", Answer: "Jackson Pollock", Category: art, Difficulty: 2},
	{Question: "What is the largest lake in Africa?", Answer: "Lake Victoria", Category: geography, Difficulty: 2},
	{Question: "In which royal palace would you find the Hall of Mirrors?", Answer: "The Palace of Versailles", Category: geography, Difficulty: 3},
	{Question: "The Taj Mahal is located in which Indian city?", Answer: "Agra", Category: geography, Difficulty: 2},
	{Question: "Whose autobiography is entitled 'I Know Why the Caged Bird Sings'?", Answer: "Maya Angelou", Category: history, Difficulty: 2},
	{Question: "What boxer's original name is Cassius Clay?", Answer: "Muhammad Ali", Category: history, Difficulty: 1},
	{Question: "Which dung beetle was worshipped by the ancient Egyptians?", Answer: "Scarab", Category: history, Difficulty: 4},
	{Question: "What movie earned Tom Hanks his third straight Oscar nomination, in 1996?", Answer: "Apollo 13", Category: entertainment, Difficulty: 4},
	{Question: "What actor did author Anne Rice first denounce, then praise in the role of Lestat?", Answer: "Tom Cruise", Category: entertainment, Difficulty: 4},
	{Question: "What was the title of the 1990 fantasy directed by Tim Burton about a young man with scissors for hands?", Answer: "Edward Scissorhands", Category: entertainment, Difficulty: 3},
	{Question: "Which is the only team to play in every soccer World Cup tournament?", Answer: "Brazil", Category: sports, Difficulty: 3},
	{Question: "Which country won the first ever soccer World Cup in 1930?", Answer: "Uruguay", Category: sports, Difficulty: 4},
	{Question: "Who invented Peanut Butter?", Answer: "George Washington Carver", Category: history, Difficulty: 2},
}

type apiResponse struct {
	Success         bool               `json:"success"`
	Error           int                `json:"error"`
	Message         string             `json:"message"`
	Questions       []domain.Question  `json:"questions"`
	TotalQuestions  int                `json:"total_questions"`
	Categories      []domain.Category  `json:"categories"`
	CurrentCategory string             `json:"current_category"`
	Deleted         int                `json:"deleted"`
	Created         int                `json:"created"`
	Question        *domain.Question   `json:"question"`
	Correct         bool               `json:"correct"`
	Answer          string             `json:"answer"`
}

type testServer struct {
	echo      *echo.Echo
	hub       *ws.Hub
	questions *memory.QuestionRepository
}

func newTestServer(t *testing.T, write ...echo.MiddlewareFunc) *testServer {
	t.Helper()

	store := memory.NewStore()
	store.SeedCategories(domain.DefaultCategories)
	questionRepo := memory.NewQuestionRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)

	for _, q := range sampleQuestions {
		require.NoError(t, questionRepo.CreateQuestion(context.Background(), &q))
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(zap.NewNop())
	go hub.Run(ctx)

	logger := zap.NewNop()
	e := NewEcho(logger)
	e.Use(CORS())
	Mount(e, Handlers{
		Categories: NewCategoryHandler(service.NewCategoryService(categoryRepo, questionRepo)),
		Questions:  NewQuestionHandler(service.NewQuestionService(questionRepo, categoryRepo, hub, logger)),
		Quizzes:    NewQuizHandler(service.NewQuizService(questionRepo, categoryRepo)),
		WebSocket:  NewWebSocketHandler(hub, logger),
	}, write...)

	return &testServer{echo: e, hub: hub, questions: questionRepo}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func questionIDs(questions []domain.Question) []int {
	ids := make([]int, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}

func TestGetQuestions(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, questionIDs(resp.Questions))
	assert.Equal(t, len(sampleQuestions), resp.TotalQuestions)
	require.Len(t, resp.Categories, len(domain.DefaultCategories))
	assert.Equal(t, domain.Category{ID: 1, Type: "Science"}, resp.Categories[0])

	rec, resp = s.do(t, http.MethodGet, "/questions?page=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Questions, 9)
	assert.Equal(t, len(sampleQuestions), resp.TotalQuestions)

	rec, resp = s.do(t, http.MethodGet, "/questions?page=not-a-number", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Questions[0].ID)
}

func TestGetQuestionsBeyondLastPage(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/questions?page=1000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":404,"message":"resource not found"}`, rec.Body.String())

	rec, _ = s.do(t, http.MethodGet, "/questions?page=0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHugePageNumbers(t *testing.T) {
	s := newTestServer(t)

	for _, page := range []string{"922337203685477582", "9223372036854775807"} {
		t.Run(page, func(t *testing.T) {
			rec, _ := s.do(t, http.MethodGet, "/questions?page="+page, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.do(t, http.MethodGet, "/categories?page="+page, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.do(t, http.MethodPost, "/searchQuestions?page="+page, `{"searchTerm":""}`)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			rec, _ = s.do(t, http.MethodGet, "/categories/1/questions?page="+page, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestGetCategories(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.Len(t, resp.Categories, len(domain.DefaultCategories))
	for i, name := range domain.DefaultCategories {
		assert.Equal(t, domain.Category{ID: i + 1, Type: name}, resp.Categories[i])
	}

	rec, resp = s.do(t, http.MethodGet, "/categories?page=2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
}

func TestDeleteQuestion(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodDelete, "/questions/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.Deleted)
	assert.Len(t, resp.Questions, 10)
	assert.NotContains(t, questionIDs(resp.Questions), 5)

	_, err := s.questions.GetByID(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	rec, resp = s.do(t, http.MethodDelete, "/questions/5", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unprocessable", resp.Message)
}

func TestDeleteMissingQuestion(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodDelete, "/questions/200", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":422,"message":"unprocessable"}`, rec.Body.String())

	rec, _ = s.do(t, http.MethodDelete, "/questions/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateQuestion(t *testing.T) {
	s := newTestServer(t)

	body := `{"question":"Who painted the ceiling of the Sistine Chapel?","answer":"Michelangelo","difficulty":"3","category":"2"}`
	rec, resp := s.do(t, http.MethodPost, "/questions", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, len(sampleQuestions)+1, resp.Created)
	assert.Equal(t, len(sampleQuestions)+1, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 10)

	created, err := s.questions.GetByID(context.Background(), resp.Created)
	require.NoError(t, err)
	assert.Equal(t, art, created.Category)
	assert.Equal(t, 3, created.Difficulty)
	assert.Equal(t, "Michelangelo", created.Answer)
}

func TestCreateQuestionRejectsInvalidBodies(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing answer", `{"question":"Q?","difficulty":1,"category":1}`},
		{"missing category", `{"question":"Q?","answer":"A","difficulty":1}`},
		{"empty question", `{"question":"","answer":"A","difficulty":1,"category":1}`},
		{"difficulty out of range", `{"question":"Q?","answer":"A","difficulty":9,"category":1}`},
		{"category not a number", `{"question":"Q?","answer":"A","difficulty":1,"category":"science"}`},
		{"malformed json", `{"question":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := s.do(t, http.MethodPost, "/questions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "bad request", resp.Message)
		})
	}

	_, resp := s.do(t, http.MethodGet, "/questions?page=2", "")
	assert.Equal(t, len(sampleQuestions), resp.TotalQuestions)
}

func TestCreateQuestionUnknownCategory(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/questions", `{"question":"Q?","answer":"A","difficulty":1,"category":99}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unprocessable", resp.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/questions/200", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":405,"message":"method not allowed"}`, rec.Body.String())
}

func TestSearchQuestions(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/searchQuestions", `{"searchTerm":"TITLE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, []int{11, 16}, questionIDs(resp.Questions))
	assert.Equal(t, 2, resp.TotalQuestions)
	assert.NotContains(t, rec.Body.String(), `"categories"`)

	rec, resp = s.do(t, http.MethodPost, "/searchQuestions", `{"searchTerm":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Questions, 10)
	assert.Equal(t, len(sampleQuestions), resp.TotalQuestions)
}

func TestSearchQuestionsFailures(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/searchQuestions", `{"searchTerm":"xyzzy"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/searchQuestions/200", `{"searchTerm":"title"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp := s.do(t, http.MethodPost, "/searchQuestions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad request", resp.Message)
}

func TestGetCategoryQuestions(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/categories/1/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, []int{1, 2, 3}, questionIDs(resp.Questions))
	assert.Equal(t, 3, resp.TotalQuestions)
	assert.Equal(t, "Science", resp.CurrentCategory)
	for _, q := range resp.Questions {
		assert.Equal(t, science, q.Category)
	}
}

func TestGetCategoryQuestionsFailures(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/categories/200/questions", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unprocessable", resp.Message)

	rec, _ = s.do(t, http.MethodGet, "/categories/1/questions?page=2", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/categories/science/questions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuizzes(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[17],"quiz_category":{"id":6,"type":"Sports"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Question)
	assert.Equal(t, 18, resp.Question.ID)

	rec, resp = s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[17,18],"quiz_category":{"id":"6","type":"Sports"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Question)
	assert.Contains(t, rec.Body.String(), `"question":null`)

	rec, resp = s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, resp.Question)

	rec, resp = s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[1,2],"quiz_category":{"id":0,"type":"click"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Question)
	assert.NotContains(t, []int{1, 2}, resp.Question.ID)
}

func TestQuizzesFailures(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"id":200,"type":"Nope"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "unprocessable", resp.Message)

	rec, _ = s.do(t, http.MethodPost, "/quizzes", `{"previous_questions":"all"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/quizzes", `{"quiz_category":{"id":"sports"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAnswer(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/quizzes/answers", `{"question_id":12,"answer":"muhammad ali!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.True(t, resp.Correct)
	assert.Equal(t, "Muhammad Ali", resp.Answer)

	rec, resp = s.do(t, http.MethodPost, "/quizzes/answers", `{"question_id":"12","answer":"Joe Frazier"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Correct)
	assert.Equal(t, "Muhammad Ali", resp.Answer)

	rec, _ = s.do(t, http.MethodPost, "/quizzes/answers", `{"question_id":999,"answer":"Brazil"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/quizzes/answers", `{"question_id":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIPrefix(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, APIPrefix+"/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Questions, 10)

	rec, resp = s.do(t, http.MethodGet, APIPrefix+"/categories/2/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Art", resp.CurrentCategory)

	rec, _ = s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/categories", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "Content-Type,Authorization,true", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Equal(t, "GET,PATCH,POST,DELETE,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))

	rec, _ = s.do(t, http.MethodGet, "/questions?page=99", "")
	assert.Equal(t, "GET,PATCH,POST,DELETE,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

func TestRateLimit(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	s := newTestServer(t, RateLimit(limiter, zap.NewNop()))

	body := `{"question":"Q?","answer":"A","difficulty":1,"category":1}`
	rec, resp := s.do(t, http.MethodPost, "/questions", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests", resp.Message)

	rec, _ = s.do(t, http.MethodDelete, APIPrefix+"/questions/1", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Reads are not limited
	rec, _ = s.do(t, http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, limiter.keys, 2)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis: connection refused")}
	s := newTestServer(t, RateLimit(limiter, zap.NewNop()))

	rec, resp := s.do(t, http.MethodPost, "/questions", `{"question":"Q?","answer":"A","difficulty":1,"category":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input   string
		want    FlexInt
		wantErr bool
	}{
		{`3`, 3, false},
		{`"4"`, 4, false},
		{`null`, 0, false},
		{`"four"`, 0, true},
		{`2.5`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var n FlexInt
			err := json.Unmarshal([]byte(tt.input), &n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}
