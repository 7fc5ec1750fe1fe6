package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/healthbite/backend/internal/service"
	"github.com/pageza/healthbite/backend/internal/types"
)

type SearchHandler struct {
	recipes service.IRecipeService
}

func NewSearchHandler(recipes service.IRecipeService) *SearchHandler {
	return &SearchHandler{recipes: recipes}
}

// RegisterRoutes mounts the search routes. The group must already require auth.
func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	search := router.Group("/search")
	{
		search.POST("", h.Search)
		search.GET("/ingredients", h.ByIngredients)
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	recipes, err := h.recipes.Search(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// ByIngredients handles ?ingredients=a,b and repeated ?ingredients= parameters.
func (h *SearchHandler) ByIngredients(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var ingredients []string
	for _, v := range c.QueryArray("ingredients") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				ingredients = append(ingredients, name)
			}
		}
	}
	if len(ingredients) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "at least one ingredient is required"})
		return
	}

	recipes, err := h.recipes.SearchByIngredients(c.Request.Context(), userID, ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}
