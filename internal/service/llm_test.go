package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/types"
)

const testImage = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

type capturedChat struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, status int, body string, capture *capturedChat, org *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if org != nil {
			*org = r.Header.Get("OpenAI-Organization")
		}
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func newTestLLM(baseURL string) *LLMService {
	return NewLLMService(LLMConfig{APIKey: "sk-test", OrgID: "org-1", BaseURL: baseURL, Timeout: 5 * time.Second}, zap.NewNop())
}

func TestExtractRecipe(t *testing.T) {
	var captured capturedChat
	var org string
	srv := newChatServer(t, http.StatusOK, chatBody(`{"identifiedIngredients":[],"recipe":{"title":"Soupe"}}`), &captured, &org)

	req := &types.GenerationRequest{
		Image:       testImage,
		Preferences: &types.Preferences{MealType: "dîner", DietaryPreferences: "végétarien"},
	}
	content, err := newTestLLM(srv.URL).ExtractRecipe(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, content, "Soupe")

	assert.Equal(t, "org-1", org)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 1000, captured.MaxTokens)
	assert.InDelta(t, 0.7, captured.Temperature, 0.001)
	require.Len(t, captured.Messages, 1)
	parts := captured.Messages[0].Content
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Contains(t, parts[0].Text, "RESPECTEZ STRICTEMENT: végétarien")
	assert.Contains(t, parts[0].Text, "Adaptez pour dîner")
	assert.Equal(t, "image_url", parts[1].Type)
	assert.Equal(t, testImage, parts[1].ImageURL.URL)
}

func TestExtractRecipeRegenerateTemperature(t *testing.T) {
	var captured capturedChat
	srv := newChatServer(t, http.StatusOK, chatBody("{}"), &captured, nil)

	_, err := newTestLLM(srv.URL).ExtractRecipe(context.Background(), &types.GenerationRequest{Image: testImage, Regenerate: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, captured.Temperature, 0.001)
	assert.Contains(t, captured.Messages[0].Content[0].Text, "COMPLÈTEMENT DIFFÉRENTE")
}

func TestExtractRecipeValidation(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		svc := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"}, nil)
		_, err := svc.ExtractRecipe(context.Background(), &types.GenerationRequest{Image: "  "})
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
		assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	})

	t.Run("missing api key", func(t *testing.T) {
		svc := NewLLMService(LLMConfig{}, nil)
		assert.False(t, svc.Available())
		_, err := svc.ExtractRecipe(context.Background(), &types.GenerationRequest{Image: testImage})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode())
		assert.Equal(t, msgMissingAPIKey, appErr.Message)
	})
}

func TestExtractRecipeProviderErrors(t *testing.T) {
	errorBody := `{"error":{"message":"bad image","type":"invalid_request_error"}}`

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "unauthorized", status: 401, body: errorBody, wantStatus: 503, wantMsg: msgProviderAuth},
		{name: "rate limited", status: 429, body: errorBody, wantStatus: 429, wantMsg: msgProviderOverloaded},
		{name: "bad request", status: 400, body: errorBody, wantStatus: 400, wantMsg: "Erreur de traitement: bad image"},
		{name: "server error", status: 500, body: errorBody, wantStatus: 500, wantMsg: "Erreur service (500): bad image"},
		{name: "empty choices", status: 200, body: `{"choices":[]}`, wantStatus: 500, wantMsg: msgEmptyCompletion},
		{name: "undecodable body", status: 200, body: `not json`, wantStatus: 500, wantMsg: msgUndecodableResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatServer(t, tt.status, tt.body, nil, nil)
			_, err := newTestLLM(srv.URL).ExtractRecipe(context.Background(), &types.GenerationRequest{Image: testImage})
			require.Error(t, err)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestExtractRecipeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestLLM(url).ExtractRecipe(context.Background(), &types.GenerationRequest{Image: testImage})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode())
	assert.Equal(t, msgNetworkError, appErr.Message)
}

func TestExtractRecipeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	svc := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := svc.ExtractRecipe(context.Background(), &types.GenerationRequest{Image: testImage})
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusCode(err))
}

func TestBuildRecipePrompt(t *testing.T) {
	prompt := BuildRecipePrompt(&types.GenerationRequest{Image: testImage})
	assert.Contains(t, prompt, "UNIQUEMENT les ingrédients visibles")
	assert.Contains(t, prompt, `"difficulty": "Easy|Medium|Hard"`)
	assert.Contains(t, prompt, "Petit-déjeuner: 300-400")
	assert.NotContains(t, prompt, "RESPECTEZ STRICTEMENT")
	assert.False(t, strings.Contains(prompt, "COMPLÈTEMENT DIFFÉRENTE"))

	withMeal := BuildRecipePrompt(&types.GenerationRequest{Preferences: &types.Preferences{MealType: "lunch"}})
	assert.Contains(t, withMeal, `"tags": ["cuisine", "méthode", "lunch"]`)
}
