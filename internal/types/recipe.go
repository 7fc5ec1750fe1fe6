package types

// CuisineCount is one row of the cuisine breakdown.
type CuisineCount struct {
	Cuisine string `json:"cuisine"`
	Count   int64  `json:"count"`
}

// RecipeStats summarises a user's recipes.
type RecipeStats struct {
	TotalRecipes    int64          `json:"total_recipes"`
	AverageHealth   *float64       `json:"average_health_rating"`
	AverageTaste    *float64       `json:"average_taste_rating"`
	Cuisines        []CuisineCount `json:"cuisines"`
	RecipesThisWeek int64          `json:"recipes_this_week"`
}
