package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/api"
	"github.com/pageza/healthbite/backend/internal/middleware"
	"github.com/pageza/healthbite/backend/internal/service"
	"github.com/pageza/healthbite/backend/internal/testdb"
	"github.com/pageza/healthbite/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	parseResponse     = `{"title": "Lemon Rice", "ingredients": [{"name": "Rice", "quantity": "2", "unit": "cups"}, {"name": "Lemon"}], "instructions": ["Cook rice", "Add lemon"], "servings": 2, "cuisine_type": "Indian", "dietary_tags": ["vegan"]}`
	nutritionResponse = `{"total": {"calories": 700}, "per_serving": {"calories": 350, "protein": 7}, "servings": 2}`
	healthResponse    = `{"score": 7, "summary": "Light and simple.", "improvement_tips": ["Add peas for protein"]}`
)

// pipelineClient answers parse, nutrition and health prompts in turn.
func pipelineClient() ai.CompletionClient {
	var (
		mu    sync.Mutex
		calls int
	)
	responses := []string{parseResponse, nutritionResponse, healthResponse}
	return ai.ClientFunc(func(_ context.Context, _ ai.CompletionRequest) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		resp := responses[calls%len(responses)]
		calls++
		return resp, nil
	})
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupEnv(t *testing.T, cfg ai.Config, client ai.CompletionClient) *testEnv {
	t.Helper()
	db := testdb.NewSQLite(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	recipes := service.NewRecipeService(db, ai.NewAnalyzer(cfg, client), nil, nil)

	router := gin.New()
	api.RegisterRoutes(router, api.Dependencies{
		DB:      db,
		Auth:    auth,
		Recipes: recipes,
		Limiter: middleware.NewSubmissionRateLimiter(nil, 10, time.Minute),
	})
	return &testEnv{router: router, db: db, auth: auth}
}

func newEnv(t *testing.T) *testEnv {
	return setupEnv(t, ai.Config{APIKey: "test-key"}, pipelineClient())
}

// register creates a user and returns its bearer token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	_, token, err := e.auth.Register(context.Background(), types.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newEnv(t)
	w := env.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy","database":"ok"}`, w.Body.String())
}
