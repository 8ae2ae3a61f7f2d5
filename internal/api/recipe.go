package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/types"
)

// RecipeService is the pipeline behind the recipe endpoints
type RecipeService interface {
	Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResponse, error)
	GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error)
	StorageEnabled() bool
}

// RecipeHandler handles recipe and image generation requests
type RecipeHandler struct {
	recipes RecipeService
	logger  *zap.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes RecipeService, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{recipes: recipes, logger: logger}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/generate-recipes", h.GenerateRecipes)
	router.POST("/generate-image", h.GenerateImage)
}

// GenerateRecipes handles POST /api/generate-recipes
func (h *RecipeHandler) GenerateRecipes(c *gin.Context) {
	var req types.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	resp, err := h.recipes.Generate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateImage handles POST /api/generate-image
func (h *RecipeHandler) GenerateImage(c *gin.Context) {
	var req types.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, bindError(err))
		return
	}

	resp, err := h.recipes.GenerateImage(c.Request.Context(), &req)
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
