package config

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client for the Supabase storage bucket
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	PublicBaseURL string
}

// NewS3Config builds an S3 client against the project's S3-compatible
// storage endpoint. Explicit S3 access keys take precedence; otherwise the
// project ref and anon key are used as session credentials.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if !cfg.StorageEnabled || cfg.SupabaseURL == "" {
		return nil, errors.New("image storage is not configured")
	}

	accessKey, secretKey, sessionToken := cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""
	if accessKey == "" || secretKey == "" {
		accessKey, secretKey, sessionToken = cfg.ProjectRef(), cfg.SupabaseAnonKey, cfg.SupabaseAnonKey
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, sessionToken),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.StorageEndpoint())
		o.UsePathStyle = true
	})

	return &S3Config{
		Client:        client,
		BucketName:    cfg.StorageBucket,
		PublicBaseURL: cfg.PublicObjectBaseURL(),
	}, nil
}
