package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/healthbite/backend/internal/ai"
)

// EmbeddingDimensions is the width of the recipe embedding column.
const EmbeddingDimensions = 64

// Recipe is a user's analyzed recipe.
type Recipe struct {
	ID              uuid.UUID                               `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID          uuid.UUID                               `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title           string                                  `gorm:"size:255;not null" json:"title"`
	RawText         string                                  `gorm:"type:text;not null" json:"raw_text"`
	Ingredients     datatypes.JSONType[[]ai.Ingredient]     `json:"ingredients"`
	IngredientNames string                                  `gorm:"type:text" json:"-"`
	Instructions    StringList                              `gorm:"type:text" json:"instructions"`
	Calories        *float64                                `json:"calories"`
	HealthRating    *float64                                `json:"health_rating"`
	HealthBreakdown string                                  `gorm:"type:text" json:"health_breakdown"`
	TasteRating     *int                                    `json:"taste_rating"`
	CuisineType     *string                                 `gorm:"size:100" json:"cuisine_type"`
	DietaryTags     StringList                              `gorm:"type:text" json:"dietary_tags"`
	Servings        *int                                    `json:"servings"`
	NutritionData   datatypes.JSONType[*ai.NutritionResult] `json:"nutrition_data"`
	ImageURL        string                                  `gorm:"size:1024" json:"image_url,omitempty"`
	SourceURL       string                                  `gorm:"size:1024" json:"source_url,omitempty"`
	Embedding       *pgvector.Vector                        `gorm:"type:vector(64)" json:"-"`
	CreatedAt       time.Time                               `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time                               `json:"updated_at"`
}

// BeforeCreate assigns an id when the caller did not.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// SetIngredients stores ingredients and refreshes the searchable name column.
func (r *Recipe) SetIngredients(ingredients []ai.Ingredient) {
	r.Ingredients = datatypes.NewJSONType(ingredients)
	r.IngredientNames = IngredientIndex(ingredients)
}

// IngredientIndex renders lowercased ingredient names between pipes so that
// LIKE '%|name%' style matches work on every dialect.
func IngredientIndex(ingredients []ai.Ingredient) string {
	if len(ingredients) == 0 {
		return ""
	}
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, strings.ToLower(strings.TrimSpace(ing.Name)))
	}
	return "|" + strings.Join(names, "|") + "|"
}
