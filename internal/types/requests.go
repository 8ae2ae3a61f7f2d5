package types

import "strings"

// Preferences are the optional user choices sent with a photo
type Preferences struct {
	MealType           string `json:"mealType"`
	DietaryPreferences string `json:"dietaryPreferences"`
}

// GenerationRequest represents the request body for recipe generation
type GenerationRequest struct {
	Image       string       `json:"image"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Regenerate  bool         `json:"regenerate"`
}

// MealType returns the trimmed meal type, or "" when no preferences were sent
func (r *GenerationRequest) MealType() string {
	if r == nil || r.Preferences == nil {
		return ""
	}
	return strings.TrimSpace(r.Preferences.MealType)
}

// DietaryPreferences returns the trimmed dietary constraints, or ""
func (r *GenerationRequest) DietaryPreferences() string {
	if r == nil || r.Preferences == nil {
		return ""
	}
	return strings.TrimSpace(r.Preferences.DietaryPreferences)
}

// GenerationResponse is returned by POST /api/generate-recipes
type GenerationResponse struct {
	Recipe                 FinalRecipe `json:"recipe"`
	IdentifiedIngredients  []string    `json:"identifiedIngredients"`
	ImageGenerationSuccess bool        `json:"imageGenerationSuccess"`
	GenerationTime         int64       `json:"generationTime"`
}

// ImageRequest represents the request body for POST /api/generate-image
type ImageRequest struct {
	RecipeTitle string   `json:"recipeTitle"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	RecipeID    string   `json:"recipeId"`
}

// ImageResponse is returned by POST /api/generate-image
type ImageResponse struct {
	Success          bool   `json:"success"`
	ImageURL         string `json:"imageUrl"`
	StoredInSupabase *bool  `json:"storedInSupabase,omitempty"`
}

// VerificationSMSRequest represents the request body for POST /api/send-verification-sms
type VerificationSMSRequest struct {
	PhoneNumber      string `json:"phoneNumber"`
	VerificationCode string `json:"verificationCode"`
}

// VerificationSMSResponse is returned when the SMS was accepted by the provider
type VerificationSMSResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"messageSid"`
}

// ErrorResponse is the body of every failed recipe request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// FailureResponse is the body of failed image and SMS requests
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
