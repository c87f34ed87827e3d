package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foztr/removeer/internal/platform/config"
	"github.com/foztr/removeer/internal/utils"
)

func testLogger(t *testing.T) *utils.Logger {
	t.Helper()
	logger, err := utils.NewLogger(&utils.LogCfg{
		LogLevel: "error",
		LogDir:   t.TempDir(),
		LogFile:  "test.log",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

func TestNewServiceRequiresConfig(t *testing.T) {
	_, err := NewService(nil, testLogger(t))
	assert.Error(t, err)
}

func TestSystemStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Storage.Dir = t.TempDir()

	service, err := NewService(cfg, testLogger(t))
	require.NoError(t, err)

	engine := gin.New()
	api := engine.Group("/api")
	require.NoError(t, service.Register(context.Background(), api))

	req := httptest.NewRequest(http.MethodGet, "/api/system/status", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    SystemStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "removeer-backend", resp.Data.Service)
	assert.Equal(t, "development", resp.Data.Mode)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.Positive(t, resp.Data.NumGoroutine)
	assert.Equal(t, cfg.Storage.Dir, resp.Data.StorageDir)
}
