package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeWithWriter_TeesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter("production", &buf))
	defer func() { Log = zap.NewNop() }()

	Info(WithRequestID(context.Background(), "req-1"), "cart updated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "cart updated", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Equal(t, "unknown", RequestID(c))

	c.Set(RequestIDKey, "abc")
	assert.Equal(t, "abc", RequestID(c))
	assert.Equal(t, "unknown", RequestID(context.Background()))
}
