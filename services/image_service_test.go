package services_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"
	"bookstore-web/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fileHeader builds a parsed multipart file the way gin hands it to a controller.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

type mockImageStore struct {
	uploaded []services.ImageFile
	bodies   []string
	deleteFn func(name string) error
}

func (m *mockImageStore) Upload(_ context.Context, _ string, file services.ImageFile) (string, error) {
	b, _ := io.ReadAll(file.Body)
	m.uploaded = append(m.uploaded, file)
	m.bodies = append(m.bodies, string(b))
	return "https://cdn/" + file.Filename, nil
}

func (m *mockImageStore) List(context.Context, string, int, int) ([]models.ImageInfo, error) {
	return []models.ImageInfo{{Filename: "a.png"}}, nil
}

func (m *mockImageStore) Delete(_ context.Context, _ string, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(name)
	}
	return nil
}

func TestImageValidate(t *testing.T) {
	svc := services.NewImageService(&mockImageStore{}, zap.NewNop())

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int
		wantErr     string
	}{
		{"png", "cover.png", "image/png", 10, ""},
		{"webp by extension", "cover.webp", "application/octet-stream", 10, ""},
		{"pdf", "book.pdf", "application/pdf", 10, "not a supported image"},
		{"too large", "big.jpg", "image/jpeg", services.MaxImageSize + 1, "the limit is 5.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serr := svc.Validate(fileHeader(t, tt.filename, tt.contentType, make([]byte, tt.size)))
			if tt.wantErr == "" {
				assert.Nil(t, serr)
				return
			}
			require.NotNil(t, serr)
			assert.Contains(t, serr.Message, tt.wantErr)
		})
	}

	assert.NotNil(t, svc.Validate(nil))
}

func TestImageUpload(t *testing.T) {
	store := &mockImageStore{}
	svc := services.NewImageService(store, zap.NewNop())

	url, serr := svc.Upload(context.Background(), "tok", fileHeader(t, "cover.jpg", "image/jpeg", []byte("jpeg-bytes")))
	require.Nil(t, serr)
	assert.Equal(t, "https://cdn/cover.jpg", url)
	require.Len(t, store.uploaded, 1)
	assert.Equal(t, "image/jpeg", store.uploaded[0].ContentType)
	assert.Equal(t, int64(10), store.uploaded[0].Size)
	assert.Equal(t, "jpeg-bytes", store.bodies[0])
}

func TestImageDeleteMany(t *testing.T) {
	store := &mockImageStore{deleteFn: func(name string) error {
		if name == "missing.png" {
			return notFound()
		}
		return nil
	}}
	svc := services.NewImageService(store, zap.NewNop())

	res := svc.DeleteMany(context.Background(), "tok", []string{"a.png", "missing.png", "", "b.png"})
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []string{"missing.png", ""}, res.Failed)
}

// --- S3 image store ---

type mockBucket struct {
	objects []aws_pkg.ObjectInfo
	puts    []string
	deleted []string
}

func (m *mockBucket) ObjectKey(name string) string { return "images/" + name }

func (m *mockBucket) Put(_ context.Context, name, _ string, _ int64, _ io.Reader) error {
	m.puts = append(m.puts, name)
	return nil
}

func (m *mockBucket) List(context.Context) ([]aws_pkg.ObjectInfo, error) {
	return m.objects, nil
}

func (m *mockBucket) Delete(_ context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *mockBucket) GeneratePresignedGetURL(_ context.Context, name string, _ time.Duration) (string, error) {
	return "https://signed/" + name + "?sig=1", nil
}

func TestS3ImageStore(t *testing.T) {
	now := time.Now()
	bucket := &mockBucket{objects: []aws_pkg.ObjectInfo{
		{Key: "c.png", Size: 3, LastModified: now},
		{Key: "b.png", Size: 2, LastModified: now.Add(-time.Hour)},
		{Key: "a.png", Size: 1, LastModified: now.Add(-2 * time.Hour)},
	}}
	ctx := context.Background()

	t.Run("public urls", func(t *testing.T) {
		store := services.NewS3ImageStore(bucket, "https://cdn.example.com/")

		url, err := store.Upload(ctx, "", services.ImageFile{Filename: "Cover.PNG", Body: strings.NewReader("x")})
		require.NoError(t, err)
		require.Len(t, bucket.puts, 1)
		assert.True(t, strings.HasSuffix(bucket.puts[0], ".png"))
		assert.Equal(t, "https://cdn.example.com/images/"+bucket.puts[0], url)

		page, err := store.List(ctx, "", 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "a.png", page[0].Filename)
		assert.Equal(t, "https://cdn.example.com/images/a.png", page[0].URL)

		empty, err := store.List(ctx, "", 5, 2)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("presigned urls", func(t *testing.T) {
		store := services.NewS3ImageStore(bucket, "")
		page, err := store.List(ctx, "", 1, 10)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, "https://signed/c.png?sig=1", page[0].URL)
	})

	t.Run("delete rejects paths", func(t *testing.T) {
		store := services.NewS3ImageStore(bucket, "")
		assert.Error(t, store.Delete(ctx, "", "../secrets.txt"))
		assert.NoError(t, store.Delete(ctx, "", "a.png"))
		assert.Equal(t, []string{"a.png"}, bucket.deleted)
	})
}
