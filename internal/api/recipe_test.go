package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/middleware"
	"github.com/pageza/nutriscan/backend/internal/mocks"
	"github.com/pageza/nutriscan/backend/internal/types"
)

func setupRecipeTestRouter(recipes RecipeService, limit int64) *gin.Engine {
	router := gin.New()
	router.Use(middleware.BodyLimit(limit))
	NewRecipeHandler(recipes, nil).RegisterRoutes(router.Group("/api"))
	return router
}

func TestGenerateRecipes(t *testing.T) {
	pipeline := new(mocks.MockRecipePipeline)
	pipeline.On("Generate", mock.Anything, mock.MatchedBy(func(req *types.GenerationRequest) bool {
		return req.Image == "data:image/png;base64,AAAA" && req.Regenerate && req.MealType() == "lunch"
	})).Return(&types.GenerationResponse{
		Recipe: types.FinalRecipe{
			Recipe:      types.Recipe{Title: "Salade niçoise", Calories: 500, Servings: 2},
			ID:          "recipe_1_abcdefghi",
			ImageURL:    "https://durable/x.png",
			ImageSource: types.ImageSourceStored,
		},
		IdentifiedIngredients:  []string{"thon"},
		ImageGenerationSuccess: true,
		GenerationTime:         4200,
	}, nil)

	w := performJSON(t, setupRecipeTestRouter(pipeline, 1<<20), http.MethodPost, "/api/generate-recipes", map[string]any{
		"image":       "data:image/png;base64,AAAA",
		"preferences": map[string]string{"mealType": "lunch"},
		"regenerate":  true,
	})

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	recipe := response["recipe"].(map[string]any)
	assert.Equal(t, "Salade niçoise", recipe["title"])
	assert.Equal(t, "recipe_1_abcdefghi", recipe["id"])
	assert.Equal(t, "stored", recipe["imageSource"])
	assert.Equal(t, "https://durable/x.png", recipe["imageUrl"])
	assert.Equal(t, true, response["imageGenerationSuccess"])
	assert.EqualValues(t, 4200, response["generationTime"])
	pipeline.AssertExpectations(t)
}

func TestGenerateRecipesErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "missing image", err: apperrors.NewBadRequestError("Image requise"), wantStatus: 400, wantError: "Image requise"},
		{name: "provider overloaded", err: apperrors.NewUpstreamError(429, "Service surchargé. Veuillez réessayer dans quelques minutes.", nil), wantStatus: 429, wantError: "Service surchargé. Veuillez réessayer dans quelques minutes."},
		{name: "network", err: apperrors.NewServiceUnavailableError("Impossible de se connecter au service.", nil), wantStatus: 503, wantError: "Impossible de se connecter au service."},
		{name: "processing", err: apperrors.NewProcessingError("Données de recette incomplètes. Veuillez réessayer.", nil), wantStatus: 500, wantError: "Données de recette incomplètes. Veuillez réessayer."},
		{name: "unclassified", err: errors.New("boom"), wantStatus: 500, wantError: "Erreur interne du serveur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := new(mocks.MockRecipePipeline)
			pipeline.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := performJSON(t, setupRecipeTestRouter(pipeline, 1<<20), http.MethodPost, "/api/generate-recipes", map[string]any{"image": "x"})

			assert.Equal(t, tt.wantStatus, w.Code)
			response := decodeBody(t, w)
			assert.Equal(t, tt.wantError, response["error"])
			assert.NotContains(t, response, "success")
		})
	}
}

func TestGenerateRecipesUnclassifiedErrorHasDetails(t *testing.T) {
	pipeline := new(mocks.MockRecipePipeline)
	pipeline.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := performJSON(t, setupRecipeTestRouter(pipeline, 1<<20), http.MethodPost, "/api/generate-recipes", map[string]any{"image": "x"})
	assert.Equal(t, "boom", decodeBody(t, w)["details"])
}

func TestGenerateRecipesBodyErrors(t *testing.T) {
	pipeline := new(mocks.MockRecipePipeline)
	router := setupRecipeTestRouter(pipeline, 64)

	w := performJSON(t, router, http.MethodPost, "/api/generate-recipes", `{"image":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(t, router, http.MethodPost, "/api/generate-recipes", map[string]string{"image": strings.Repeat("A", 256)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	pipeline.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestGenerateImageHandler(t *testing.T) {
	stored := false
	pipeline := new(mocks.MockRecipePipeline)
	pipeline.On("GenerateImage", mock.Anything, &types.ImageRequest{
		RecipeTitle: "Tarte",
		Ingredients: []string{"pommes"},
		RecipeID:    "recipe_1_abc",
	}).Return(&types.ImageResponse{Success: true, ImageURL: "https://transient/x.png", StoredInSupabase: &stored}, nil)

	w := performJSON(t, setupRecipeTestRouter(pipeline, 1<<20), http.MethodPost, "/api/generate-image", map[string]any{
		"recipeTitle": "Tarte",
		"ingredients": []string{"pommes"},
		"recipeId":    "recipe_1_abc",
	})

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "https://transient/x.png", response["imageUrl"])
	assert.Equal(t, false, response["storedInSupabase"])
}

func TestGenerateImageHandlerFailure(t *testing.T) {
	pipeline := new(mocks.MockRecipePipeline)
	pipeline.On("GenerateImage", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewBadRequestError("Titre de recette et ID requis"))

	w := performJSON(t, setupRecipeTestRouter(pipeline, 1<<20), http.MethodPost, "/api/generate-image", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "Titre de recette et ID requis", response["error"])
}
