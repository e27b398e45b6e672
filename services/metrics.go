package services

import (
	"context"
	"time"
)

// Counter is the slice of the CloudWatch metrics client the services use.
type Counter interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// count records a business counter without blocking the request.
func count(c Counter, metricName string) {
	if c == nil || !c.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.RecordCount(ctx, metricName, map[string]string{"Service": "bookstore-web"})
	}()
}
