package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/metrics"
	"github.com/pageza/nutriscan/backend/internal/types"
)

var recipeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// RecipePipeline turns a food photo into a recipe with an illustration
type RecipePipeline struct {
	extractor RecipeExtractor
	images    ImageGenerator
	store     ImageStorer
	metrics   *metrics.Collector
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecipePipeline wires the pipeline stages. store may be nil when durable
// image storage is not configured; generated images then keep their
// transient provider URL.
func NewRecipePipeline(extractor RecipeExtractor, images ImageGenerator, store ImageStorer, collector *metrics.Collector, logger *zap.Logger) *RecipePipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipePipeline{
		extractor: extractor,
		images:    images,
		store:     store,
		metrics:   collector,
		logger:    logger.Named("pipeline"),
		now:       time.Now,
	}
}

// StorageEnabled reports whether generated images are copied to durable storage
func (p *RecipePipeline) StorageEnabled() bool {
	return p.store != nil
}

// NewRecipeID returns an identifier of the form recipe_<unix-ms>_<9 chars>
func NewRecipeID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("recipe_%d_%s", at.UnixMilli(), suffix)
}

// Generate runs extraction, parsing, image generation and storage for one
// photo. Image failures degrade the response instead of failing it.
func (p *RecipePipeline) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResponse, error) {
	if req == nil || strings.TrimSpace(req.Image) == "" {
		return nil, apperrors.NewBadRequestError(msgImageRequired)
	}

	start := p.now()
	log := p.logger.With(zap.Bool("regenerate", req.Regenerate), zap.String("meal_type", req.MealType()))

	content, err := p.extractor.ExtractRecipe(ctx, req)
	p.metrics.ObserveStage(metrics.StageExtract, err == nil)
	if err != nil {
		log.Error("recipe extraction failed", zap.Error(err))
		return nil, err
	}

	parsed, err := ParseRecipeResponse(content, req.MealType())
	p.metrics.ObserveStage(metrics.StageParse, err == nil)
	if err != nil {
		log.Error("recipe response rejected", zap.Error(err))
		return nil, err
	}

	recipeID := NewRecipeID(start)
	log = log.With(zap.String("recipe_id", recipeID))
	log.Info("recipe parsed",
		zap.String("title", parsed.Recipe.Title),
		zap.Int("calories", parsed.Recipe.Calories),
		zap.Strings("identified_ingredients", parsed.IdentifiedIngredients),
	)

	imageURL, source := p.illustrate(ctx, log, recipeID, types.ImagePrompt{
		Title:       parsed.Recipe.Title,
		Description: parsed.Recipe.Description,
		Ingredients: parsed.IdentifiedIngredients,
	})
	p.metrics.ObserveImageSource(string(source))

	elapsed := p.now().Sub(start)
	p.metrics.ObserveGeneration(elapsed)
	log.Info("recipe generated", zap.Duration("elapsed", elapsed), zap.String("image_source", string(source)))

	return &types.GenerationResponse{
		Recipe: types.FinalRecipe{
			Recipe:      parsed.Recipe,
			ID:          recipeID,
			ImageURL:    imageURL,
			ImageSource: source,
		},
		IdentifiedIngredients:  parsed.IdentifiedIngredients,
		ImageGenerationSuccess: source != types.ImageSourceFailed,
		GenerationTime:         elapsed.Milliseconds(),
	}, nil
}

// illustrate generates the recipe image and, when possible, stores it
func (p *RecipePipeline) illustrate(ctx context.Context, log *zap.Logger, recipeID string, prompt types.ImagePrompt) (string, types.ImageSource) {
	if p.images == nil || !p.images.Available() {
		p.metrics.ObserveStage(metrics.StageImage, false)
		log.Warn("image generation unavailable")
		return "", types.ImageSourceFailed
	}

	generated := p.images.GenerateImage(ctx, prompt)
	p.metrics.ObserveStage(metrics.StageImage, generated.Success)
	if !generated.Success {
		log.Warn("image generation failed", zap.String("error", generated.Error))
		return "", types.ImageSourceFailed
	}

	if p.store == nil {
		return generated.ImageURL, types.ImageSourceGenerated
	}

	stored := p.store.StoreImage(ctx, recipeID, generated.ImageURL)
	p.metrics.ObserveStage(metrics.StageStorage, stored.Success)
	if !stored.Success {
		return generated.ImageURL, types.ImageSourceGenerated
	}
	return stored.URL, types.ImageSourceStored
}

// GenerateImage illustrates an existing recipe and stores the image under
// its id
func (p *RecipePipeline) GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error) {
	if req == nil || strings.TrimSpace(req.RecipeTitle) == "" || req.RecipeID == "" {
		return nil, apperrors.NewBadRequestError(msgImageFieldsRequired)
	}
	if !recipeIDPattern.MatchString(req.RecipeID) {
		return nil, apperrors.NewBadRequestError(msgInvalidRecipeID)
	}
	if p.images == nil || !p.images.Available() {
		return nil, apperrors.NewServiceUnavailableError(msgImageUnavailable, nil)
	}

	log := p.logger.With(zap.String("recipe_id", req.RecipeID))

	generated := p.images.GenerateImage(ctx, types.ImagePrompt{
		Title:       strings.TrimSpace(req.RecipeTitle),
		Description: req.Description,
		Ingredients: req.Ingredients,
	})
	p.metrics.ObserveStage(metrics.StageImage, generated.Success)
	if !generated.Success {
		log.Warn("image generation failed", zap.String("error", generated.Error))
		message := generated.Error
		if message == "" {
			message = msgImageFailed
		}
		return nil, apperrors.NewInternalError(message, nil)
	}

	stored := false
	imageURL := generated.ImageURL
	if p.store != nil {
		result := p.store.StoreImage(ctx, req.RecipeID, generated.ImageURL)
		p.metrics.ObserveStage(metrics.StageStorage, result.Success)
		stored = result.Success
		imageURL = result.URL
	}

	return &types.ImageResponse{
		Success:          true,
		ImageURL:         imageURL,
		StoredInSupabase: &stored,
	}, nil
}
