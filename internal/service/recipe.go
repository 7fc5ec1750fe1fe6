package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/logger"
	"github.com/pageza/healthbite/backend/internal/models"
	"github.com/pageza/healthbite/backend/internal/types"
)

const (
	defaultServings = 4
	maxListLimit    = 100
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrInvalidRating  = errors.New("taste rating must be between 1 and 5")
)

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	analyzer Analyzer
	scraper  Scraper
	images   ImageStore
}

// NewRecipeService creates a new RecipeService instance. scraper and images are optional.
func NewRecipeService(db *gorm.DB, analyzer Analyzer, scraper Scraper, images ImageStore) *RecipeService {
	return &RecipeService{
		db:       db,
		analyzer: analyzer,
		scraper:  scraper,
		images:   images,
	}
}

// Submit runs parse, nutrition and health analysis on the submitted text and stores the result.
// Errors from the AI pipeline are returned unchanged.
func (s *RecipeService) Submit(ctx context.Context, userID uuid.UUID, req types.CreateRecipeRequest) (*models.Recipe, error) {
	input := strings.TrimSpace(req.RawText)

	var page *ScrapedPage
	if IsURL(input) && s.scraper != nil {
		var err error
		if page, err = s.scraper.Scrape(ctx, input); err != nil {
			return nil, err
		}
		input = page.Text
	}

	parsed, err := s.analyzer.Parse(ctx, input)
	if err != nil {
		return nil, err
	}

	servings := defaultServings
	if parsed.Servings != nil {
		servings = *parsed.Servings
	}
	nutrition, err := s.analyzer.Calculate(ctx, parsed.Ingredients, servings)
	if err != nil {
		return nil, err
	}

	report, err := s.analyzer.Analyze(ctx, ai.HealthInput{
		Ingredients:  parsed.Ingredients,
		Instructions: parsed.Instructions,
		PerServing:   nutrition.PerServing,
	})
	if err != nil {
		return nil, err
	}

	rating := math.Round(report.Score*10) / 10
	recipe := &models.Recipe{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           chooseTitle(page, req.Title, parsed.Title),
		RawText:         req.RawText,
		Instructions:    models.StringList(parsed.Instructions),
		Calories:        nutrition.PerServing.Calories,
		HealthRating:    &rating,
		HealthBreakdown: report.Breakdown,
		CuisineType:     parsed.CuisineType,
		DietaryTags:     models.StringList(parsed.DietaryTags),
		Servings:        &nutrition.Servings,
		NutritionData:   datatypes.NewJSONType(nutrition),
	}
	recipe.SetIngredients(parsed.Ingredients)

	embedding := GenerateEmbedding(recipe.Title + " " + strings.ReplaceAll(recipe.IngredientNames, "|", " "))
	recipe.Embedding = &embedding

	if page != nil {
		recipe.SourceURL = page.URL
		recipe.ImageURL = page.ImageURL
		if page.ImageURL != "" && s.images != nil {
			stored, err := s.images.Store(ctx, page.ImageURL, recipe.ID)
			if err != nil {
				logger.Get().Warn("failed to store recipe image",
					zap.String("recipe_id", recipe.ID.String()),
					zap.Error(err),
				)
			} else {
				recipe.ImageURL = stored
			}
		}
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	logger.Get().Info("recipe analyzed",
		zap.String("recipe_id", recipe.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("health_rating", rating),
	)
	return recipe, nil
}

func chooseTitle(page *ScrapedPage, userTitle, parsedTitle string) string {
	if page != nil && strings.TrimSpace(page.Title) != "" {
		return strings.TrimSpace(page.Title)
	}
	if t := strings.TrimSpace(userTitle); t != "" {
		return t
	}
	return parsedTitle
}

// List returns the user's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]models.Recipe, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns a recipe owned by userID.
func (s *RecipeService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) UpdateRating(ctx context.Context, userID, id uuid.UUID, rating int) (*models.Recipe, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(recipe).UpdateColumn("taste_rating", rating).Error; err != nil {
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}
	recipe.TasteRating = &rating
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Recipe{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// Stats summarises the user's recipes.
func (s *RecipeService) Stats(ctx context.Context, userID uuid.UUID) (*types.RecipeStats, error) {
	db := s.db.WithContext(ctx)
	stats := &types.RecipeStats{Cuisines: []types.CuisineCount{}}

	if err := db.Model(&models.Recipe{}).Where("user_id = ?", userID).Count(&stats.TotalRecipes).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	var averages struct {
		Health sql.NullFloat64
		Taste  sql.NullFloat64
	}
	if err := db.Model(&models.Recipe{}).
		Select("AVG(health_rating) AS health, AVG(taste_rating) AS taste").
		Where("user_id = ?", userID).
		Scan(&averages).Error; err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}
	stats.AverageHealth = roundedAverage(averages.Health)
	stats.AverageTaste = roundedAverage(averages.Taste)

	if err := db.Model(&models.Recipe{}).
		Select("cuisine_type AS cuisine, COUNT(*) AS count").
		Where("user_id = ? AND cuisine_type IS NOT NULL AND cuisine_type <> ''", userID).
		Group("cuisine_type").
		Order("count DESC, cuisine_type").
		Scan(&stats.Cuisines).Error; err != nil {
		return nil, fmt.Errorf("failed to group cuisines: %w", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := db.Model(&models.Recipe{}).
		Where("user_id = ? AND created_at >= ?", userID, weekAgo).
		Count(&stats.RecipesThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent recipes: %w", err)
	}
	return stats, nil
}

func roundedAverage(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	r := math.Round(v.Float64*10) / 10
	return &r
}

// Search combines the request's filters over the user's recipes. With a query, postgres
// orders by embedding distance and other dialects fall back to a LIKE match.
func (s *RecipeService) Search(ctx context.Context, userID uuid.UUID, req types.SearchRequest) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("user_id = ?", userID)

	if names := cleanTerms(req.Ingredients); len(names) > 0 {
		cond := s.db.Where("ingredient_names LIKE ?", "%"+names[0]+"%")
		for _, name := range names[1:] {
			cond = cond.Or("ingredient_names LIKE ?", "%"+name+"%")
		}
		q = q.Where(cond)
	}
	if cuisine := strings.TrimSpace(req.CuisineType); cuisine != "" {
		q = q.Where("LOWER(cuisine_type) = ?", strings.ToLower(cuisine))
	}
	for _, tag := range cleanTerms(req.DietaryTags) {
		q = q.Where("LOWER(dietary_tags) LIKE ?", `%"`+tag+`"%`)
	}
	if req.MinHealthRating != nil {
		q = q.Where("health_rating >= ?", *req.MinHealthRating)
	}
	if req.MinTasteRating != nil {
		q = q.Where("taste_rating >= ?", *req.MinTasteRating)
	}
	if req.MaxCalories != nil {
		q = q.Where("calories <= ?", *req.MaxCalories)
	}

	query := strings.TrimSpace(req.Query)
	switch {
	case query == "":
		q = q.Order("created_at DESC")
	case s.db.Dialector.Name() == "postgres":
		vec := GenerateEmbedding(query)
		q = q.Where("embedding IS NOT NULL").Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	default:
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(raw_text) LIKE ?", like, like).Order("created_at DESC")
	}

	limit := req.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var recipes []models.Recipe
	if err := q.Limit(limit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// SearchByIngredients matches recipes containing any of the given ingredients.
func (s *RecipeService) SearchByIngredients(ctx context.Context, userID uuid.UUID, ingredients []string) ([]models.Recipe, error) {
	return s.Search(ctx, userID, types.SearchRequest{Ingredients: ingredients})
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
