package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// FileUploadService stores uploads in an S3-compatible bucket and hands
// back public URLs. Object names are uuid-based so user-supplied
// filenames never collide.
type FileUploadService struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewFileUploadService(client *minio.Client, bucket, publicBaseURL string) *FileUploadService {
	return &FileUploadService{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *FileUploadService) Upload(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (string, error) {
	objectName := uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object failed: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, objectName), nil
}
