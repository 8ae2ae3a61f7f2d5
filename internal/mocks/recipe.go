package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutriscan/backend/internal/types"
)

// MockRecipeExtractor is a mock implementation of the recipe extractor
type MockRecipeExtractor struct {
	mock.Mock
}

// ExtractRecipe mocks the ExtractRecipe method
func (m *MockRecipeExtractor) ExtractRecipe(ctx context.Context, req *types.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockImageGenerator is a mock implementation of the image generator
type MockImageGenerator struct {
	mock.Mock
}

// GenerateImage mocks the GenerateImage method
func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt types.ImagePrompt) types.GenerationResult {
	args := m.Called(ctx, prompt)
	return args.Get(0).(types.GenerationResult)
}

// Available mocks the Available method
func (m *MockImageGenerator) Available() bool {
	return m.Called().Bool(0)
}

// MockImageStorer is a mock implementation of the durable image store
type MockImageStorer struct {
	mock.Mock
}

// StoreImage mocks the StoreImage method
func (m *MockImageStorer) StoreImage(ctx context.Context, recipeID, sourceURL string) types.StorageResult {
	args := m.Called(ctx, recipeID, sourceURL)
	return args.Get(0).(types.StorageResult)
}

// MockRecipePipeline is a mock implementation of the pipeline used by handlers
type MockRecipePipeline struct {
	mock.Mock
}

// Generate mocks the Generate method
func (m *MockRecipePipeline) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.GenerationResponse), args.Error(1)
}

// GenerateImage mocks the GenerateImage method
func (m *MockRecipePipeline) GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ImageResponse), args.Error(1)
}

// StorageEnabled mocks the StorageEnabled method
func (m *MockRecipePipeline) StorageEnabled() bool {
	return m.Called().Bool(0)
}
