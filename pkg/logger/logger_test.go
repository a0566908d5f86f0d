package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-adp-admin/pkg/config"
	"github.com/noah-isme/sma-adp-admin/pkg/middleware/requestid"
)

func TestNewHonoursLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn", Format: "console"}}
	l, err := New(cfg)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(requestid.Middleware())
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/teacher", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http_request", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/teacher", fields["path"])
	assert.Equal(t, "/teacher", fields["route"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddlewareIncludesAddedFieldsAndLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(GinMiddleware(zap.New(core)))
	r.Use(func(c *gin.Context) {
		AddFields(c, zap.String("session", "abc"))
		AddFields(c, zap.String("view", "teacher"))
		c.Next()
	})
	r.GET("/teacher/rows/:id/edit", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teacher/rows/9/edit", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, 2, logs.Len())
	notFound := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, notFound.Level)
	fields := notFound.ContextMap()
	assert.Equal(t, "/teacher/rows/:id/edit", fields["route"])
	assert.Equal(t, "abc", fields["session"])
	assert.Equal(t, "teacher", fields["view"])

	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
