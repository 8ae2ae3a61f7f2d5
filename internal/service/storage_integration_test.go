//go:build integration

package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutriscan/backend/internal/teststore"
)

func TestStoreImageAgainstMinIO(t *testing.T) {
	ts := teststore.SetupTestStore(t, "recipe-images")
	t.Cleanup(func() { _ = ts.Close() })

	src := newImageSource(t, http.StatusOK, "image/png", []byte("\x89PNG fake image"))
	store := NewImageStore(ts.Client, ImageStoreConfig{
		Bucket:        ts.Bucket,
		PublicBaseURL: ts.PublicBaseURL(),
		VerifyUploads: true,
	}, zap.NewNop())

	result := store.StoreImage(context.Background(), "recipe_1700000000000_abcdefghi", src.URL)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, ts.PublicBaseURL()+"/recipe-recipe_1700000000000_abcdefghi.png", result.URL)

	obj, err := ts.Client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(ts.Bucket),
		Key:    aws.String(ObjectKey("recipe_1700000000000_abcdefghi")),
	})
	require.NoError(t, err)
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake image", string(body))
	assert.Equal(t, "image/png", aws.ToString(obj.ContentType))
	assert.Equal(t, imageCacheControl, aws.ToString(obj.CacheControl))
}
