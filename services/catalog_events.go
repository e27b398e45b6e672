package services

import (
	"context"
	"encoding/json"
	"strings"

	aws_pkg "bookstore-web/pkg/aws"

	"go.uber.org/zap"
)

// CatalogEvent is published by the backend whenever catalogue data changes.
type CatalogEvent struct {
	Type      string `json:"type"`
	EventType string `json:"event_type"`
	BookID    int64  `json:"book_id,omitempty"`
}

func (e CatalogEvent) name() string {
	if e.Type != "" {
		return e.Type
	}
	return e.EventType
}

// snsEnvelope unwraps the SNS → SQS message wrapper
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// NewCatalogEventHandler returns an SQS handler that drops the storefront
// cache for every catalog.* event. Unreadable messages are acknowledged so
// they do not loop; a failed invalidation is retried by SQS.
func NewCatalogEventHandler(catalog CatalogService, logger *zap.Logger) aws_pkg.MessageHandler {
	return func(ctx context.Context, body string) error {
		payload := body

		var envelope snsEnvelope
		if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Type == "Notification" {
			payload = envelope.Message
		}

		var event CatalogEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			logger.Error("failed to unmarshal catalog event", zap.Error(err))
			return nil
		}

		if !strings.HasPrefix(event.name(), "catalog.") {
			logger.Debug("ignoring event", zap.String("event_type", event.name()))
			return nil
		}

		if err := catalog.InvalidateCatalog(ctx); err != nil {
			return err
		}
		logger.Info("catalog cache invalidated by event",
			zap.String("event_type", event.name()),
			zap.Int64("book_id", event.BookID),
		)
		return nil
	}
}
