package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/types"
)

const (
	defaultImageTimeout = 90 * time.Second
	maxImagePromptRunes = 900
	imagePromptSuffix   = ", beautifully plated on a clean white plate, natural lighting, appetizing presentation, high resolution, professional kitchen setting"
)

// ImageConfig configures the DALL-E client
type ImageConfig struct {
	APIKey  string
	OrgID   string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ImageService generates recipe illustrations with the OpenAI images API
type ImageService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(cfg ImageConfig, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = openai.CreateImageModelDallE3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultImageTimeout
	}

	s := &ImageService{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("image"),
	}
	if cfg.APIKey != "" {
		s.client = openai.NewClientWithConfig(newOpenAIConfig(cfg.APIKey, cfg.OrgID, cfg.BaseURL, cfg.Timeout))
	}
	return s
}

// Available reports whether an API key is configured
func (s *ImageService) Available() bool {
	return s != nil && s.client != nil
}

// GenerateImage requests one 1024x1024 image for the recipe. The returned URL
// is the provider's transient one.
func (s *ImageService) GenerateImage(ctx context.Context, prompt types.ImagePrompt) types.GenerationResult {
	if !s.Available() {
		return types.GenerationResult{Error: msgImageUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text := BuildImagePrompt(prompt)
	s.logger.Info("generating recipe image", zap.String("title", prompt.Title), zap.Int("prompt_runes", utf8.RuneCountInString(text)))

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          s.model,
		Prompt:         text,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		Quality:        openai.CreateImageQualityStandard,
		Style:          openai.CreateImageStyleVivid,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		s.logger.Warn("image generation failed", zap.Error(err))
		return types.GenerationResult{Error: fmt.Sprintf("image generation failed: %v", err)}
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		s.logger.Warn("image generation returned no URL")
		return types.GenerationResult{Error: "no image returned by the provider"}
	}

	return types.GenerationResult{ImageURL: resp.Data[0].URL, Success: true}
}

// BuildImagePrompt describes the dish for a food photography shot
func BuildImagePrompt(p types.ImagePrompt) string {
	var b strings.Builder
	b.WriteString("Professional food photography of ")
	b.WriteString(strings.TrimSpace(p.Title))

	if desc := strings.TrimSpace(p.Description); desc != "" {
		b.WriteString(", ")
		b.WriteString(desc)
	}

	var main []string
	for _, ing := range p.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			main = append(main, ing)
		}
		if len(main) == 3 {
			break
		}
	}
	if len(main) > 0 {
		b.WriteString(", featuring ")
		b.WriteString(strings.Join(main, ", "))
	}
	b.WriteString(imagePromptSuffix)

	return truncateRunes(b.String(), maxImagePromptRunes)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
