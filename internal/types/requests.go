package types

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for submitting a recipe.
// RawText may also be an http(s) URL to scrape.
type CreateRecipeRequest struct {
	Title   string `json:"title"`
	RawText string `json:"raw_text" binding:"required,min=10"`
}

// UpdateRatingRequest represents the request body for rating a recipe
type UpdateRatingRequest struct {
	TasteRating int `json:"taste_rating" binding:"required,min=1,max=5"`
}

// SearchRequest combines optional recipe filters. Zero values are ignored.
type SearchRequest struct {
	Query           string   `json:"query"`
	Ingredients     []string `json:"ingredients"`
	CuisineType     string   `json:"cuisine_type"`
	DietaryTags     []string `json:"dietary_tags"`
	MinHealthRating *float64 `json:"min_health_rating" binding:"omitempty,min=0,max=10"`
	MinTasteRating  *int     `json:"min_taste_rating" binding:"omitempty,min=1,max=5"`
	MaxCalories     *float64 `json:"max_calories" binding:"omitempty,min=0"`
	Limit           int      `json:"limit" binding:"omitempty,min=1,max=100"`
}
