package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/models"
	"github.com/pageza/healthbite/backend/internal/types"
)

// Analyzer is the three-step AI pipeline. *ai.Analyzer satisfies it.
type Analyzer interface {
	Parse(ctx context.Context, text string) (*ai.ParsedRecipe, error)
	Calculate(ctx context.Context, ingredients []ai.Ingredient, servings int) (*ai.NutritionResult, error)
	Analyze(ctx context.Context, in ai.HealthInput) (*ai.HealthReport, error)
}

// Scraper fetches a recipe page and reduces it to text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*ScrapedPage, error)
}

// ImageStore copies a remote image into owned storage and returns its public URL.
type ImageStore interface {
	Store(ctx context.Context, sourceURL string, recipeID uuid.UUID) (string, error)
}

// RevocationStore remembers logged-out token ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req types.LoginRequest) (*models.User, string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Submit(ctx context.Context, userID uuid.UUID, req types.CreateRecipeRequest) (*models.Recipe, error)
	List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.Recipe, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error)
	UpdateRating(ctx context.Context, userID, id uuid.UUID, rating int) (*models.Recipe, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*types.RecipeStats, error)
	Search(ctx context.Context, userID uuid.UUID, req types.SearchRequest) ([]models.Recipe, error)
	SearchByIngredients(ctx context.Context, userID uuid.UUID, ingredients []string) ([]models.Recipe, error)
}
