package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"

	"github.com/google/uuid"
)

// ImageFile is an upload handed to an ImageStore.
type ImageFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore keeps the admin's uploaded images and returns their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, token string, file ImageFile) (string, error)
	List(ctx context.Context, token string, page, size int) ([]models.ImageInfo, error)
	Delete(ctx context.Context, token, filename string) error
}

type UploadBackend interface {
	UploadImage(ctx context.Context, token, filename, contentType string, r io.Reader) (string, error)
	ListImages(ctx context.Context, token string, page, size int) ([]models.ImageInfo, error)
	DeleteImage(ctx context.Context, token, filename string) error
}

// BackendImageStore delegates to the backend's upload API.
type BackendImageStore struct {
	backend UploadBackend
}

func NewBackendImageStore(backend UploadBackend) *BackendImageStore {
	return &BackendImageStore{backend: backend}
}

func (s *BackendImageStore) Upload(ctx context.Context, token string, file ImageFile) (string, error) {
	return s.backend.UploadImage(ctx, token, file.Filename, file.ContentType, file.Body)
}

func (s *BackendImageStore) List(ctx context.Context, token string, page, size int) ([]models.ImageInfo, error) {
	return s.backend.ListImages(ctx, token, page, size)
}

func (s *BackendImageStore) Delete(ctx context.Context, token, filename string) error {
	return s.backend.DeleteImage(ctx, token, filename)
}

// ObjectBucket is the part of aws_pkg.Bucket the S3 store needs.
type ObjectBucket interface {
	ObjectKey(name string) string
	Put(ctx context.Context, name, contentType string, size int64, body io.Reader) error
	List(ctx context.Context) ([]aws_pkg.ObjectInfo, error)
	Delete(ctx context.Context, name string) error
	GeneratePresignedGetURL(ctx context.Context, name string, expiry time.Duration) (string, error)
}

const presignedURLExpiry = 7 * 24 * time.Hour

// S3ImageStore writes images straight to an S3 bucket. Without a public
// base URL the returned links are presigned.
type S3ImageStore struct {
	bucket        ObjectBucket
	publicBaseURL string
}

func NewS3ImageStore(bucket ObjectBucket, publicBaseURL string) *S3ImageStore {
	return &S3ImageStore{bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *S3ImageStore) Upload(ctx context.Context, _ string, file ImageFile) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := s.bucket.Put(ctx, name, file.ContentType, file.Size, file.Body); err != nil {
		return "", err
	}
	return s.url(ctx, name)
}

// List pages over the bucket listing, newest first. page is 1-based.
func (s *S3ImageStore) List(ctx context.Context, _ string, page, size int) ([]models.ImageInfo, error) {
	objects, err := s.bucket.List(ctx)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if size <= 0 || start >= len(objects) {
		return []models.ImageInfo{}, nil
	}
	end := min(start+size, len(objects))

	images := make([]models.ImageInfo, 0, end-start)
	for _, obj := range objects[start:end] {
		u, err := s.url(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		images = append(images, models.ImageInfo{
			Filename:     obj.Key,
			URL:          u,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return images, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, _ string, filename string) error {
	if strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid image name %q", filename)
	}
	return s.bucket.Delete(ctx, filename)
}

func (s *S3ImageStore) url(ctx context.Context, name string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + s.bucket.ObjectKey(name), nil
	}
	return s.bucket.GeneratePresignedGetURL(ctx, name, presignedURLExpiry)
}
