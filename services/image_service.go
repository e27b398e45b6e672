package services

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"bookstore-web/models"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type ImageService interface {
	Validate(file *multipart.FileHeader) *ServiceError
	Upload(ctx context.Context, token string, file *multipart.FileHeader) (string, *ServiceError)
	List(ctx context.Context, token string, page, size int) ([]models.ImageInfo, *ServiceError)
	Delete(ctx context.Context, token, filename string) *ServiceError
	DeleteMany(ctx context.Context, token string, filenames []string) BulkResult[string]
}

type imageServiceImpl struct {
	store  ImageStore
	logger *zap.Logger
}

func NewImageService(store ImageStore, logger *zap.Logger) ImageService {
	return &imageServiceImpl{store: store, logger: logger}
}

// contentType returns the declared media type of an upload, falling back to
// its extension.
func contentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return ""
}

func (s *imageServiceImpl) Validate(file *multipart.FileHeader) *ServiceError {
	if file == nil {
		return badRequest("Choose an image to upload")
	}
	if !allowedImageTypes[contentType(file)] {
		return badRequest(fmt.Sprintf("%s is not a supported image (JPEG, PNG, GIF or WebP)", file.Filename))
	}
	if file.Size > MaxImageSize {
		return badRequest(fmt.Sprintf("%s is %s, the limit is %s",
			file.Filename, humanize.IBytes(uint64(file.Size)), humanize.IBytes(MaxImageSize)))
	}
	return nil
}

func (s *imageServiceImpl) Upload(ctx context.Context, token string, file *multipart.FileHeader) (string, *ServiceError) {
	if serr := s.Validate(file); serr != nil {
		return "", serr
	}

	f, err := file.Open()
	if err != nil {
		s.logger.Error("Failed to open upload", zap.String("filename", file.Filename), zap.Error(err))
		return "", &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to read the image"}
	}
	defer f.Close()

	url, err := s.store.Upload(ctx, token, ImageFile{
		Filename:    filepath.Base(file.Filename),
		ContentType: contentType(file),
		Size:        file.Size,
		Body:        f,
	})
	if err != nil {
		s.logger.Error("Image upload failed", zap.String("filename", file.Filename), zap.Error(err))
		return "", fromBackend(err, "Failed to upload the image")
	}

	s.logger.Info("Image uploaded", zap.String("filename", file.Filename), zap.Int64("size", file.Size))
	return url, nil
}

func (s *imageServiceImpl) List(ctx context.Context, token string, page, size int) ([]models.ImageInfo, *ServiceError) {
	images, err := s.store.List(ctx, token, page, size)
	if err != nil {
		return nil, fromBackend(err, "Failed to load images")
	}
	return images, nil
}

func (s *imageServiceImpl) Delete(ctx context.Context, token, filename string) *ServiceError {
	if filename == "" {
		return badRequest("No image selected")
	}
	if err := s.store.Delete(ctx, token, filename); err != nil {
		s.logger.Warn("Image delete failed", zap.String("filename", filename), zap.Error(err))
		return fromBackend(err, "Failed to delete the image")
	}
	return nil
}

// DeleteMany deletes each image in turn and reports the ones that failed.
func (s *imageServiceImpl) DeleteMany(ctx context.Context, token string, filenames []string) BulkResult[string] {
	var res BulkResult[string]
	for _, name := range filenames {
		if serr := s.Delete(ctx, token, name); serr != nil {
			res.Failed = append(res.Failed, name)
			continue
		}
		res.Succeeded++
	}
	return res
}
