package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pageza/nutriscan/backend/internal/apperrors"
	"github.com/pageza/nutriscan/backend/internal/types"
)

// maxScanBytes bounds the model output accepted by ExtractJSONObject
const maxScanBytes = 1 << 20

// maxCandidates bounds the '{' positions tried by ExtractJSONObject
const maxCandidates = 64

const (
	defaultServings = 2
	maxCalories     = 10000
)

var (
	// ErrNoJSONObject is returned when the text contains no JSON object
	ErrNoJSONObject = errors.New("no JSON object found in model output")
	// ErrTruncatedJSON is returned when an object is opened but never closed
	ErrTruncatedJSON = errors.New("model output contains a truncated JSON object")
	// ErrOutputTooLarge is returned for model output above maxScanBytes
	ErrOutputTooLarge = errors.New("model output too large")
)

// ExtractJSONObject returns the first valid JSON object embedded in text.
// Braces inside string literals are ignored. Balanced candidates that are not
// valid JSON are skipped, and an unclosed '{' only fails the scan when no
// valid object follows it.
func ExtractJSONObject(text string) (string, error) {
	if len(text) > maxScanBytes {
		return "", ErrOutputTooLarge
	}

	truncated := false
	start := strings.IndexByte(text, '{')
	for attempts := 0; start >= 0 && attempts < maxCandidates; attempts++ {
		resume := start + 1
		end := matchBrace(text, start)
		if end < 0 {
			truncated = true
		} else {
			if candidate := text[start : end+1]; json.Valid([]byte(candidate)) {
				return candidate, nil
			}
			resume = end + 1
		}
		next := strings.IndexByte(text[resume:], '{')
		if next < 0 {
			break
		}
		start = resume + next
	}
	if truncated {
		return "", ErrTruncatedJSON
	}
	return "", ErrNoJSONObject
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ServingsType accepts servings as a number or as a string such as "4 personnes"
type ServingsType struct {
	Value int
}

func (s *ServingsType) UnmarshalJSON(data []byte) error {
	// Try to unmarshal as number first
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		s.Value = int(math.Round(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Value = leadingInt(str)
		return nil
	}

	// Anything else falls back to the default
	s.Value = 0
	return nil
}

// TimeText accepts a duration as text ("15 min") or as a number of minutes
type TimeText string

func (t *TimeText) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*t = TimeText(fmt.Sprintf("%d min", int(math.Round(num))))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*t = TimeText(strings.TrimSpace(str))
		return nil
	}

	*t = ""
	return nil
}

// StringList accepts an array of strings or numbers; blank entries are dropped
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var single string
		if json.Unmarshal(data, &single) == nil && strings.TrimSpace(single) != "" {
			*l = StringList{strings.TrimSpace(single)}
			return nil
		}
		*l = nil
		return nil
	}

	out := make(StringList, 0, len(items))
	for _, item := range items {
		var str string
		if err := json.Unmarshal(item, &str); err == nil {
			if str = strings.TrimSpace(str); str != "" {
				out = append(out, str)
			}
			continue
		}
		var num json.Number
		if err := json.Unmarshal(item, &num); err == nil {
			out = append(out, num.String())
		}
	}
	*l = out
	return nil
}

type rawRecipe struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	PrepTime     TimeText        `json:"prepTime"`
	CookTime     TimeText        `json:"cookTime"`
	Difficulty   string          `json:"difficulty"`
	Servings     ServingsType    `json:"servings"`
	Calories     json.RawMessage `json:"calories"`
	Ingredients  StringList      `json:"ingredients"`
	Instructions StringList      `json:"instructions"`
	Tags         StringList      `json:"tags"`
}

type rawResponse struct {
	IdentifiedIngredients json.RawMessage `json:"identifiedIngredients"`
	Recipe                *rawRecipe      `json:"recipe"`
}

// ParseRecipeResponse extracts and validates the recipe embedded in a model
// answer. mealType selects the calorie default when the model omitted it.
func ParseRecipeResponse(content, mealType string) (*types.ParsedRecipe, error) {
	object, err := ExtractJSONObject(content)
	if err != nil {
		return nil, apperrors.NewProcessingError(msgUnparsableRecipe, err)
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, apperrors.NewProcessingError(msgUnparsableRecipe, err)
	}

	if raw.Recipe == nil || !isJSONArray(raw.IdentifiedIngredients) {
		return nil, apperrors.NewProcessingError(msgIncompleteRecipe,
			errors.New("identifiedIngredients or recipe missing"))
	}

	var identified StringList
	_ = json.Unmarshal(raw.IdentifiedIngredients, &identified)

	r := raw.Recipe
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, apperrors.NewProcessingError(msgIncompleteRecipe, errors.New("recipe title is empty"))
	}

	servings := r.Servings.Value
	if servings <= 0 {
		servings = defaultServings
	}

	return &types.ParsedRecipe{
		IdentifiedIngredients: nonNil(identified),
		Recipe: types.Recipe{
			Title:        title,
			Description:  strings.TrimSpace(r.Description),
			PrepTime:     string(r.PrepTime),
			CookTime:     string(r.CookTime),
			Difficulty:   normalizeDifficulty(r.Difficulty),
			Servings:     servings,
			Calories:     parseCalories(r.Calories, mealType),
			Ingredients:  nonNil(r.Ingredients),
			Instructions: nonNil(r.Instructions),
			Tags:         nonNil(r.Tags),
		},
	}, nil
}

// DefaultCalories estimates the calories of a recipe from its meal type
func DefaultCalories(mealType string) int {
	switch strings.ToLower(strings.TrimSpace(mealType)) {
	case "breakfast", "petit-déjeuner", "petit-dejeuner", "petit déjeuner":
		return 350
	case "lunch", "déjeuner", "dejeuner":
		return 500
	case "dinner", "dîner", "diner":
		return 625
	case "snack", "collation":
		return 250
	default:
		return 400
	}
}

func parseCalories(raw json.RawMessage, mealType string) int {
	var calories float64
	if len(raw) == 0 || json.Unmarshal(raw, &calories) != nil {
		return DefaultCalories(mealType)
	}
	calories = math.Round(calories)
	if calories < 1 || calories > maxCalories {
		return DefaultCalories(mealType)
	}
	return int(calories)
}

func normalizeDifficulty(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "facile", "simple":
		return types.DifficultyEasy
	case "hard", "difficult", "difficile":
		return types.DifficultyHard
	default:
		return types.DifficultyMedium
	}
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

func nonNil(list StringList) []string {
	if list == nil {
		return []string{}
	}
	return list
}
