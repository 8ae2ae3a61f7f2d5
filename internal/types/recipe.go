package types

// Difficulty values accepted in a Recipe
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// ImageSource tells the client where the recipe image URL comes from
type ImageSource string

const (
	// ImageSourceStored means the image was copied to durable storage
	ImageSourceStored ImageSource = "stored"
	// ImageSourceGenerated means the URL is the provider's transient one
	ImageSourceGenerated ImageSource = "generated"
	// ImageSourceFailed means no image could be produced
	ImageSourceFailed ImageSource = "failed"
)

// Recipe represents a recipe as produced by the model after validation
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PrepTime     string   `json:"prepTime"`
	CookTime     string   `json:"cookTime"`
	Difficulty   string   `json:"difficulty"`
	Servings     int      `json:"servings"`
	Calories     int      `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`
}

// FinalRecipe is the recipe returned to the client with its image
type FinalRecipe struct {
	Recipe
	ID          string      `json:"id"`
	ImageURL    string      `json:"imageUrl"`
	ImageSource ImageSource `json:"imageSource"`
}

// ParsedRecipe is the validated content of a model response
type ParsedRecipe struct {
	IdentifiedIngredients []string
	Recipe                Recipe
}

// ImagePrompt holds the recipe metadata used to describe the illustration
type ImagePrompt struct {
	Title       string
	Description string
	Ingredients []string
}

// GenerationResult is the outcome of an image generation call
type GenerationResult struct {
	ImageURL string
	Success  bool
	Error    string
}

// StorageResult is the outcome of copying an image to durable storage.
// URL falls back to the source URL when Success is false.
type StorageResult struct {
	URL     string
	Success bool
	Error   string
}
