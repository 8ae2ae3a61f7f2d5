// Package teststore starts a throwaway S3-compatible object store for
// integration tests.
package teststore

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	minioImage    = "minio/minio:RELEASE.2024-01-16T16-07-38Z"
	minioUser     = "nutriscan"
	minioPassword = "nutriscan-secret"
)

// TestStore wraps a MinIO container and a client for one bucket
type TestStore struct {
	Client    *s3.Client
	Bucket    string
	Endpoint  string
	Container testcontainers.Container
}

// Close terminates the container
func (ts *TestStore) Close() error {
	if ts.Container != nil {
		return ts.Container.Terminate(context.Background())
	}
	return nil
}

// PublicBaseURL returns the path-style URL prefix of objects in the bucket
func (ts *TestStore) PublicBaseURL() string {
	return fmt.Sprintf("%s/%s", ts.Endpoint, ts.Bucket)
}

// SetupTestStore starts MinIO and creates the bucket
func SetupTestStore(t *testing.T, bucket string) *TestStore {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        minioImage,
		ExposedPorts: []string{"9000/tcp"},
		Cmd:          []string{"server", "/data"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(minioUser, minioPassword, ""),
	})

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	require.NoError(t, err)

	return &TestStore{
		Client:    client,
		Bucket:    bucket,
		Endpoint:  endpoint,
		Container: container,
	}
}
