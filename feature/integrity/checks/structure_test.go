package checks

import (
	"context"
	"errors"
	"testing"

	"media-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var folders = []string{"blog_publications", "displays", "portraits", "covers"}

func TestCheckStructure(t *testing.T) {
	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(false, nil)

		_, err := CheckStructure(context.Background(), mockClient, "assets", folders)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("All Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "assets", mock.Anything).Return(nil)

		missing, err := CheckStructure(context.Background(), mockClient, "assets", folders)
		assert.NoError(t, err)
		assert.Equal(t, folders, missing)
	})

	t.Run("Some Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "assets", mock.Anything).
			Return(func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
				ch := make(chan minio.ObjectInfo, 1)
				if opts.Prefix == "displays/" || opts.Prefix == "covers/" {
					ch <- minio.ObjectInfo{Key: opts.Prefix + "x.png"}
				}
				close(ch)
				return ch
			})

		missing, err := CheckStructure(context.Background(), mockClient, "assets", folders)
		assert.NoError(t, err)
		assert.Equal(t, []string{"blog_publications", "portraits"}, missing)
	})

	t.Run("List Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "assets", mock.Anything).
			Return(func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
				ch := make(chan minio.ObjectInfo, 1)
				ch <- minio.ObjectInfo{Err: errors.New("access denied")}
				close(ch)
				return ch
			})

		_, err := CheckStructure(context.Background(), mockClient, "assets", folders)
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestFixStructure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "assets", "displays/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, nil).Once()
	mockClient.On("PutObject", mock.Anything, "assets", "covers/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("read only")).Once()

	err := FixStructure(context.Background(), mockClient, "assets", zap.NewNop(), []string{"displays", "covers"})
	assert.ErrorContains(t, err, "covers")
	mockClient.AssertExpectations(t)
}
