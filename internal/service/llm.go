package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/types"
)

const (
	defaultChatModel         = openai.GPT4oMini
	defaultMaxTokens         = 1000
	defaultCompletionTimeout = 60 * time.Second

	temperatureDefault    float32 = 0.7
	temperatureRegenerate float32 = 0.9
)

// LLMConfig configures the vision completion client
type LLMConfig struct {
	APIKey    string
	OrgID     string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// LLMService sends food photos to the OpenAI chat completion API
type LLMService struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// NewLLMService creates a new LLMService. Without an API key the service is
// still usable but every extraction answers ServiceUnavailable.
func NewLLMService(cfg LLMConfig, logger *zap.Logger) *LLMService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = defaultChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCompletionTimeout
	}

	s := &LLMService{
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    logger.Named("llm"),
	}
	if cfg.APIKey != "" {
		s.client = openai.NewClientWithConfig(newOpenAIConfig(cfg.APIKey, cfg.OrgID, cfg.BaseURL, cfg.Timeout))
	}
	return s
}

func newOpenAIConfig(apiKey, orgID, baseURL string, timeout time.Duration) openai.ClientConfig {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.OrgID = orgID
	if baseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return clientCfg
}

// Available reports whether an API key is configured
func (s *LLMService) Available() bool {
	return s != nil && s.client != nil
}

// Temperature returns the sampling temperature for a request
func Temperature(regenerate bool) float32 {
	if regenerate {
		return temperatureRegenerate
	}
	return temperatureDefault
}

// ExtractRecipe asks the model to identify the ingredients in the photo and
// write one recipe with them. It returns the raw text of the answer.
func (s *LLMService) ExtractRecipe(ctx context.Context, req *types.GenerationRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.Image) == "" {
		return "", apperrors.NewBadRequestError(msgImageRequired)
	}
	if !s.Available() {
		return "", apperrors.NewServiceUnavailableError(msgMissingAPIKey, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("requesting recipe completion",
		zap.String("model", s.model),
		zap.Bool("regenerate", req.Regenerate),
		zap.String("meal_type", req.MealType()),
	)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: Temperature(req.Regenerate),
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: BuildRecipePrompt(req)},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: req.Image}},
				},
			},
		},
	})
	if err != nil {
		mapped := mapCompletionError(err)
		s.logger.Error("recipe completion failed", zap.Error(err), zap.Int("status", apperrors.StatusCode(mapped)))
		return "", mapped
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", apperrors.NewProcessingError(msgEmptyCompletion, errors.New("completion has no content"))
	}

	s.logger.Debug("recipe completion received",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// BuildRecipePrompt builds the instruction sent alongside the photo
func BuildRecipePrompt(req *types.GenerationRequest) string {
	var b strings.Builder

	quality, goal, approach := "parfaite", "exceptionnelle", "Optimisez pour la saveur et la simplicité"
	if req.Regenerate {
		quality, goal, approach = "DIFFÉRENTE et CRÉATIVE", "NOUVELLE et ORIGINALE", "VARIEZ l'approche culinaire et les techniques de cuisson"
	}

	fmt.Fprintf(&b, "Analysez cette image et créez UNE recette %s en utilisant UNIQUEMENT les ingrédients visibles.\n\n", quality)
	b.WriteString("EXIGENCES STRICTES:\n")
	b.WriteString("- Identifiez UNIQUEMENT les ingrédients clairement visibles\n")
	fmt.Fprintf(&b, "- Créez UNE recette %s utilisant ces ingrédients\n", goal)
	fmt.Fprintf(&b, "- %s\n", approach)
	b.WriteString("- Ajoutez seulement des ingrédients de base (sel, poivre, huile) si nécessaire\n")
	b.WriteString("- RÉPONDEZ ENTIÈREMENT EN FRANÇAIS\n")
	b.WriteString("- Soyez CONCIS et DIRECT")

	mealType := req.MealType()
	if mealType != "" {
		fmt.Fprintf(&b, "\n- Adaptez pour %s", mealType)
	}
	if dietary := req.DietaryPreferences(); dietary != "" {
		fmt.Fprintf(&b, "\n- RESPECTEZ STRICTEMENT: %s", dietary)
	}
	if req.Regenerate {
		b.WriteString("\n- IMPORTANT: Créez une recette COMPLÈTEMENT DIFFÉRENTE")
		b.WriteString("\n- Explorez des techniques alternatives (grillé vs sauté vs cuit au four)")
		b.WriteString("\n- Variez les styles culinaires (méditerranéen, asiatique, français, etc.)")
	}

	tags := `"cuisine", "méthode"`
	if mealType != "" {
		tags += fmt.Sprintf(", %q", mealType)
	}

	b.WriteString("\n\nRÉPONDEZ AVEC SEULEMENT CE JSON EN FRANÇAIS (gardez la difficulté en anglais):\n\n")
	fmt.Fprintf(&b, `{
  "identifiedIngredients": ["ingrédient1", "ingrédient2"],
  "recipe": {
    "title": "Nom spécifique et appétissant de la recette",
    "description": "Description courte et engageante (2-3 phrases)",
    "prepTime": "X min",
    "cookTime": "X min",
    "difficulty": "Easy|Medium|Hard",
    "servings": nombre,
    "calories": nombre,
    "ingredients": ["quantités précises avec ingrédients identifiés"],
    "instructions": ["étape détaillée 1", "étape détaillée 2", "étape détaillée 3"],
    "tags": [%s]
  }
}`, tags)

	b.WriteString("\n\nOBJECTIFS CALORIQUES:\n")
	b.WriteString("- Petit-déjeuner: 300-400\n")
	b.WriteString("- Déjeuner: 450-550\n")
	b.WriteString("- Dîner: 550-700\n")
	b.WriteString("- Collation: 200-300\n\n")

	if req.Regenerate {
		b.WriteString("Créez une recette innovante et surprenante !")
	} else {
		b.WriteString("Créez une recette unique, délicieuse et réalisable !")
	}
	return b.String()
}

// mapCompletionError classifies a go-openai error into an AppError
func mapCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return providerStatusError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		message := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			message = reqErr.Err.Error()
		}
		return providerStatusError(reqErr.HTTPStatusCode, message, err)
	}

	if isNetworkError(err) {
		return apperrors.NewServiceUnavailableError(msgNetworkError, err)
	}

	// Non-JSON error bodies surface as plain errors carrying the status
	var status int
	if _, scanErr := fmt.Sscanf(err.Error(), "error, status code: %d", &status); scanErr == nil && status >= 400 {
		return providerStatusError(status, err.Error(), err)
	}

	return apperrors.NewProcessingError(msgUndecodableResponse, err)
}

func providerStatusError(status int, message string, cause error) error {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.NewServiceUnavailableError(msgProviderAuth, cause)
	case http.StatusTooManyRequests:
		return apperrors.NewUpstreamError(status, msgProviderOverloaded, cause)
	case http.StatusBadRequest:
		return apperrors.NewUpstreamError(status, fmt.Sprintf(msgProviderBadRequest, message), cause)
	default:
		return apperrors.NewUpstreamError(status, fmt.Sprintf(msgProviderOther, status, message), cause)
	}
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
