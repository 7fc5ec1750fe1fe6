package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/api"
	"github.com/pageza/healthbite/backend/internal/middleware"
	"github.com/pageza/healthbite/backend/internal/models"
	"github.com/pageza/healthbite/backend/internal/types"
)

func createRecipe(t *testing.T, env *testEnv, token string) models.Recipe {
	t.Helper()
	w := env.do(http.MethodPost, "/api/recipes", map[string]string{
		"raw_text": "2 cups rice, juice of one lemon. Cook the rice and stir in lemon.",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Recipe](t, w)
}

func TestCreateRecipe(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")

	recipe := createRecipe(t, env, token)
	assert.Equal(t, "Lemon Rice", recipe.Title)
	require.NotNil(t, recipe.HealthRating)
	assert.Equal(t, 7.0, *recipe.HealthRating)
	require.NotNil(t, recipe.Calories)
	assert.Equal(t, 350.0, *recipe.Calories)
	assert.Equal(t, 2, *recipe.Servings)
	assert.Equal(t, models.StringList{"Vegan"}, recipe.DietaryTags)
	assert.Contains(t, recipe.HealthBreakdown, "**Health Score: 7/10**")
	assert.Len(t, recipe.Ingredients.Data(), 2)
}

func TestCreateRecipeValidation(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")

	w := env.do(http.MethodPost, "/api/recipes", map[string]string{"raw_text": "too short"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/recipes", map[string]string{"title": "No text"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecipePipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ai.Config
		client   ai.CompletionClient
		wantCode int
		wantTag  string
	}{
		{
			name:     "missing credential",
			cfg:      ai.Config{},
			client:   pipelineClient(),
			wantCode: http.StatusServiceUnavailable,
			wantTag:  "ai_not_configured",
		},
		{
			name: "unusable response",
			cfg:  ai.Config{APIKey: "k"},
			client: ai.ClientFunc(func(context.Context, ai.CompletionRequest) (string, error) {
				return `{"title": "No ingredients"}`, nil
			}),
			wantCode: http.StatusBadGateway,
			wantTag:  "ai_response_invalid",
		},
		{
			name: "upstream failure",
			cfg:  ai.Config{APIKey: "k"},
			client: ai.ClientFunc(func(context.Context, ai.CompletionRequest) (string, error) {
				return "", &ai.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}
			}),
			wantCode: http.StatusBadGateway,
			wantTag:  "ai_upstream_error",
		},
		{
			name: "transport failure",
			cfg:  ai.Config{APIKey: "k"},
			client: ai.ClientFunc(func(context.Context, ai.CompletionRequest) (string, error) {
				return "", &ai.TransportError{Err: errors.New("connection reset")}
			}),
			wantCode: http.StatusBadGateway,
			wantTag:  "ai_transport_error",
		},
		{
			name: "transport timeout",
			cfg:  ai.Config{APIKey: "k"},
			client: ai.ClientFunc(func(context.Context, ai.CompletionRequest) (string, error) {
				return "", &ai.TransportError{Err: context.DeadlineExceeded}
			}),
			wantCode: http.StatusGatewayTimeout,
			wantTag:  "ai_transport_error",
		},
		{
			name: "unclassified failure",
			cfg:  ai.Config{APIKey: "k"},
			client: ai.ClientFunc(func(context.Context, ai.CompletionRequest) (string, error) {
				return "", errors.New("something else")
			}),
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupEnv(t, tt.cfg, tt.client)
			token := env.register(t, "cook")

			w := env.do(http.MethodPost, "/api/recipes", map[string]string{
				"raw_text": "1 cup oats, 2 cups milk. Simmer.",
			}, token)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Equal(t, tt.wantTag, decode[api.ErrorResponse](t, w).Code)

			var count int64
			require.NoError(t, env.db.Model(&models.Recipe{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestRecipeCRUD(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")
	other := env.register(t, "other")

	first := createRecipe(t, env, token)
	createRecipe(t, env, token)

	w := env.do(http.MethodGet, "/api/recipes?limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Recipe](t, w), 1)

	w = env.do(http.MethodGet, "/api/recipes", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Recipe](t, w), 2)

	w = env.do(http.MethodGet, "/api/recipes?skip=abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := "/api/recipes/" + first.ID.String()
	w = env.do(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[models.Recipe](t, w).ID)

	w = env.do(http.MethodGet, path, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/recipes/not-a-uuid", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPatch, path+"/rating", map[string]int{"taste_rating": 6}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPatch, path+"/rating", map[string]int{"taste_rating": 4}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, *decode[models.Recipe](t, w).TasteRating)

	w = env.do(http.MethodDelete, path, nil, other)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeStats(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")
	createRecipe(t, env, token)
	createRecipe(t, env, token)

	w := env.do(http.MethodGet, "/api/recipes/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[types.RecipeStats](t, w)
	assert.Equal(t, int64(2), stats.TotalRecipes)
	require.NotNil(t, stats.AverageHealth)
	assert.Equal(t, 7.0, *stats.AverageHealth)
	assert.Nil(t, stats.AverageTaste)
	assert.Equal(t, []types.CuisineCount{{Cuisine: "Indian", Count: 2}}, stats.Cuisines)
	assert.Equal(t, int64(2), stats.RecipesThisWeek)
}

func TestRateLimitStatusWithoutRedis(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")

	w := env.do(http.MethodGet, "/api/recipes/rate-limit", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[middleware.RateLimitStatus](t, w)
	assert.False(t, status.Enabled)
	assert.True(t, status.Allowed)
	assert.Equal(t, 10, status.Remaining)
}

func TestSearch(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")
	createRecipe(t, env, token)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"by ingredient", map[string]any{"ingredients": []string{"LEMON"}}, 1},
		{"by missing ingredient", map[string]any{"ingredients": []string{"beef"}}, 0},
		{"by tag and cuisine", map[string]any{"dietary_tags": []string{"vegan"}, "cuisine_type": "indian"}, 1},
		{"by calories", map[string]any{"max_calories": 300}, 0},
		{"by query", map[string]any{"query": "lemon"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/search", tt.body, token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Len(t, decode[[]models.Recipe](t, w), tt.want)
		})
	}

	w := env.do(http.MethodPost, "/api/search", map[string]any{"min_taste_rating": 9}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchByIngredients(t *testing.T) {
	env := newEnv(t)
	token := env.register(t, "cook")
	createRecipe(t, env, token)

	for query, want := range map[string]int{
		"?ingredients=beef,Rice":              1,
		"?ingredients=beef&ingredients=lemon": 1,
		"?ingredients=beef":                   0,
	} {
		w := env.do(http.MethodGet, "/api/search/ingredients"+query, nil, token)
		require.Equal(t, http.StatusOK, w.Code, query)
		assert.Len(t, decode[[]models.Recipe](t, w), want, fmt.Sprintf("query %s", query))
	}

	w := env.do(http.MethodGet, "/api/search/ingredients?ingredients=", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
