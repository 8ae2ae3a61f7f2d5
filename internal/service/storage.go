package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/types"
)

const (
	defaultStorageTimeout = 30 * time.Second
	maxImageDownloadBytes = 20 << 20
	defaultContentType    = "image/png"
	imageCacheControl     = "max-age=3600"
	downloadUserAgent     = "NutriScan-Backend/1.0 (Go)"
)

// ImageStoreConfig configures the durable image store
type ImageStoreConfig struct {
	Bucket        string
	PublicBaseURL string
	Timeout       time.Duration
	VerifyUploads bool
}

// ImageStore copies generated images into a public storage bucket
type ImageStore struct {
	objects    ObjectStorageAPI
	httpClient *http.Client
	bucket     string
	publicBase string
	timeout    time.Duration
	verify     bool
	logger     *zap.Logger
}

// NewImageStore creates an ImageStore writing through the given S3 API
func NewImageStore(objects ObjectStorageAPI, cfg ImageStoreConfig, logger *zap.Logger) *ImageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultStorageTimeout
	}
	return &ImageStore{
		objects:    objects,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		timeout:    cfg.Timeout,
		verify:     cfg.VerifyUploads,
		logger:     logger.Named("storage"),
	}
}

// ObjectKey returns the storage key of a recipe image
func ObjectKey(recipeID string) string {
	return "recipe-" + recipeID + ".png"
}

// PublicURL returns the public URL of an object in the bucket
func (s *ImageStore) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// StoreImage downloads sourceURL and uploads it under the recipe's key.
// On failure the result carries sourceURL so callers can still display it.
func (s *ImageStore) StoreImage(ctx context.Context, recipeID, sourceURL string) types.StorageResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := ObjectKey(recipeID)
	if err := s.copyToBucket(ctx, key, sourceURL); err != nil {
		s.logger.Warn("image storage failed, keeping transient URL",
			zap.String("recipe_id", recipeID), zap.Error(err))
		return types.StorageResult{URL: sourceURL, Error: err.Error()}
	}

	publicURL := s.PublicURL(key)
	s.logger.Info("image stored", zap.String("recipe_id", recipeID), zap.String("url", publicURL))
	return types.StorageResult{URL: publicURL, Success: true}
}

func (s *ImageStore) copyToBucket(ctx context.Context, key, sourceURL string) error {
	data, contentType, err := s.download(ctx, sourceURL)
	if err != nil {
		return err
	}

	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(imageCacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if s.verify {
		s.verifyUpload(ctx, key)
	}
	return nil
}

func (s *ImageStore) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownloadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) > maxImageDownloadBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageDownloadBytes)
	}
	if len(data) == 0 {
		return nil, "", errors.New("downloaded image is empty")
	}

	return data, imageContentType(resp.Header.Get("Content-Type")), nil
}

// verifyUpload only logs; a missing object does not fail the request
func (s *ImageStore) verifyUpload(ctx context.Context, key string) {
	head, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Warn("uploaded image not found", zap.String("key", key), zap.Error(err))
		return
	}
	if aws.ToInt64(head.ContentLength) == 0 {
		s.logger.Warn("uploaded image is empty", zap.String("key", key))
	}
}

func imageContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return defaultContentType
	}
	return mediaType
}
