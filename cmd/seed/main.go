package main

import (
	"context"
	"errors"
	"log"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pageza/healthbite/backend/config"
	"github.com/pageza/healthbite/backend/internal/ai"
	"github.com/pageza/healthbite/backend/internal/database"
	"github.com/pageza/healthbite/backend/internal/logger"
	"github.com/pageza/healthbite/backend/internal/models"
	"github.com/pageza/healthbite/backend/internal/service"
	"github.com/pageza/healthbite/backend/internal/types"
)

const (
	demoEmail    = "demo@example.com"
	demoUsername = "demo"
	demoPassword = "demopassword123"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	db, err := database.Open(cfg.DB)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.TTL, nil)
	user, _, err := auth.Register(ctx, types.RegisterRequest{Email: demoEmail, Username: demoUsername, Password: demoPassword})
	if errors.Is(err, service.ErrUserExists) {
		zlog.Info("demo user already exists, skipping seed")
		return
	}
	if err != nil {
		zlog.Fatal("failed to create demo user", zap.Error(err))
	}

	recipe := demoRecipe()
	recipe.UserID = user.ID
	embedding := service.GenerateEmbedding(recipe.Title + " " + strings.ReplaceAll(recipe.IngredientNames, "|", " "))
	recipe.Embedding = &embedding
	if err := db.WithContext(ctx).Create(recipe).Error; err != nil {
		zlog.Fatal("failed to create demo recipe", zap.Error(err))
	}

	zlog.Info("seeded demo data",
		zap.String("email", demoEmail),
		zap.String("password", demoPassword),
		zap.String("recipe_id", recipe.ID.String()),
	)
}

// demoRecipe is a fully analyzed recipe written by hand so seeding never calls the LLM.
func demoRecipe() *models.Recipe {
	calories, protein, carbs, fat, fiber := 310.0, 17.5, 42.0, 8.0, 15.2
	health, servings := 8.5, 4
	cuisine := "Indian"

	nutrition := &ai.NutritionResult{
		Total:      ai.Nutrients{Calories: ptr(calories * 4), Protein: ptr(protein * 4), Carbs: ptr(carbs * 4), Fat: ptr(fat * 4), Fiber: ptr(fiber * 4)},
		PerServing: ai.Nutrients{Calories: &calories, Protein: &protein, Carbs: &carbs, Fat: &fat, Fiber: &fiber},
		Servings:   servings,
	}
	report := &ai.HealthReport{
		Score:   health,
		Summary: "A fibre-rich legume stew with moderate fat and plenty of plant protein.",
		HealthyAspects: []ai.Point{
			{Label: "High fibre", Detail: "Chickpeas and tomatoes supply most of the day's fibre target."},
		},
		Tips: []string{"Serve with brown rice instead of naan", "Cut the oil to one tablespoon"},
	}

	recipe := &models.Recipe{
		Title: "Chana Masala",
		RawText: "Chana Masala\n2 cans chickpeas, 1 onion, 2 tomatoes, 1 tbsp garam masala, 2 tbsp oil.\n" +
			"Fry the onion in oil, add spices and tomatoes, simmer with chickpeas for 20 minutes.",
		Instructions:    models.StringList{"Fry the onion in oil", "Add spices and tomatoes", "Simmer with chickpeas for 20 minutes"},
		Calories:        &calories,
		HealthRating:    &health,
		HealthBreakdown: ai.FormatBreakdown(report),
		CuisineType:     &cuisine,
		DietaryTags:     models.StringList{"Vegan", "Gluten Free"},
		Servings:        &servings,
		NutritionData:   datatypes.NewJSONType(nutrition),
	}
	recipe.SetIngredients([]ai.Ingredient{
		{Name: "Chickpeas", Quantity: ptrStr("2"), Unit: ptrStr("cans")},
		{Name: "Onion", Quantity: ptrStr("1")},
		{Name: "Tomatoes", Quantity: ptrStr("2")},
		{Name: "Garam masala", Quantity: ptrStr("1"), Unit: ptrStr("tbsp")},
		{Name: "Oil", Quantity: ptrStr("2"), Unit: ptrStr("tbsp")},
	})
	return recipe
}

func ptr(v float64) *float64   { return &v }
func ptrStr(s string) *string { return &s }
