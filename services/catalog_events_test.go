package services_test

import (
	"context"
	"errors"
	"testing"

	"bookstore-web/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCatalogEventHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		invalidated int
	}{
		{"plain event", `{"type":"catalog.updated"}`, 1},
		{"event_type field", `{"event_type":"catalog.book_deleted","book_id":4}`, 1},
		{"sns envelope", `{"Type":"Notification","Message":"{\"type\":\"catalog.updated\"}"}`, 1},
		{"other event", `{"type":"order.placed"}`, 0},
		{"garbage", `not json`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &mockCatalogService{}
			handler := services.NewCatalogEventHandler(catalog, zap.NewNop())

			assert.NoError(t, handler(context.Background(), tt.body))
			assert.Equal(t, tt.invalidated, catalog.invalidated)
		})
	}
}

func TestCatalogEventHandler_RetriesFailedInvalidation(t *testing.T) {
	catalog := &mockCatalogService{invalidateFn: func(context.Context) error {
		return errors.New("redis down")
	}}
	handler := services.NewCatalogEventHandler(catalog, zap.NewNop())

	assert.Error(t, handler(context.Background(), `{"type":"catalog.updated"}`))
}
