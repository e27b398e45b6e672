package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"bookstore-web/models"
)

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// UploadImage sends the file as the multipart field "file" and returns its public URL.
func (b *BackendClient) UploadImage(ctx context.Context, token, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	headers := http.Header{}
	headers.Set("Content-Type", mw.FormDataContentType())
	headers.Set("Accept", "application/json")
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.Do(ctx, http.MethodPost, "/upload/image", nil, headers, &buf)
	if err != nil {
		return "", fmt.Errorf("POST /upload/image: %w", err)
	}

	var out uploadResponse
	if err := decodeJSON(resp, &out); err != nil {
		return "", err
	}
	if !out.Success || out.URL == "" {
		msg := out.Message
		if msg == "" {
			msg = "The image could not be uploaded"
		}
		return "", &APIError{Status: http.StatusBadRequest, Message: msg}
	}
	return out.URL, nil
}

func (b *BackendClient) ListImages(ctx context.Context, token string, page, size int) ([]models.ImageInfo, error) {
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/upload/images", token, pageQuery(page, size), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, imageDTO.toModel)
}

func (b *BackendClient) DeleteImage(ctx context.Context, token, filename string) error {
	return b.doJSON(ctx, http.MethodDelete, "/upload/images/"+url.PathEscape(filename), token, nil, nil, nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
