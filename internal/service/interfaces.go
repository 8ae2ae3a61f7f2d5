package service

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/pageza/nutriscan/backend/internal/types"
)

// RecipeExtractor turns a food photo into the raw model answer
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, req *types.GenerationRequest) (string, error)
}

// ImageGenerator produces a recipe illustration. Failures are reported in the
// result rather than as an error.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt types.ImagePrompt) types.GenerationResult
	Available() bool
}

// ImageStorer copies a transient image URL to durable storage
type ImageStorer interface {
	StoreImage(ctx context.Context, recipeID, sourceURL string) types.StorageResult
}

// ObjectStorageAPI is the subset of the S3 client used by ImageStore
type ObjectStorageAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MessageCreator is the subset of the Twilio REST API used by SMSService
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}
