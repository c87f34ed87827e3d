package images

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foztr/removeer/internal/domain/artifact"
	domainimage "github.com/foztr/removeer/internal/domain/image"
	"github.com/foztr/removeer/internal/domain/inference"
	"github.com/foztr/removeer/internal/domain/upload"
	"github.com/foztr/removeer/internal/platform/config"
	httptransport "github.com/foztr/removeer/internal/transport/http"
	"github.com/foztr/removeer/internal/utils"
)

type fixture struct {
	engine     *gin.Engine
	storageDir string
	mlServer   *httptest.Server
	mlOutput   []byte
}

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

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

// newFixture stands up the full transport stack against a fake inference
// endpoint. mutate lets a test break the config before wiring.
func newFixture(t *testing.T, mutate func(cfg *config.Config)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger(t)

	f := &fixture{
		storageDir: t.TempDir(),
		mlOutput:   encodePNG(t),
	}
	f.mlServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(f.mlOutput)
	}))
	t.Cleanup(f.mlServer.Close)

	cfg := config.DefaultConfig()
	cfg.ML.BaseURL = f.mlServer.URL
	cfg.ML.Timeout = 2 * time.Second
	cfg.Storage.Dir = f.storageDir
	if mutate != nil {
		mutate(cfg)
	}

	pipeline, err := domainimage.NewPipeline(domainimage.Options{
		Limits: &cfg.Upload,
		Logger: logger,
	})
	require.NoError(t, err)

	store, err := artifact.NewLocalStore(cfg.Storage, logger)
	require.NoError(t, err)

	orch, err := upload.NewOrchestrator(upload.Options{
		Pipeline: pipeline,
		Infer:    inference.NewClient(cfg.ML, logger),
		Store:    store,
		Logger:   logger,
	})
	require.NoError(t, err)

	router, err := httptransport.Build(httptransport.Options{
		Config:      cfg,
		Logger:      logger,
		UploadsRoot: store.Root(),
		UploadsPath: cfg.Storage.PublicPath,
	})
	require.NoError(t, err)

	service, err := NewService(cfg, logger, orch)
	require.NoError(t, err)
	require.NoError(t, service.Register(context.Background(), router.API))

	f.engine = router.Engine
	return f
}

func multipartImage(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestUploadRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	body, contentType := multipartImage(t, "image", "photo.png", encodePNG(t))
	rec := f.upload(t, body, contentType)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result upload.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, upload.StatusCompleted, result.Status)
	require.NotEmpty(t, result.ProcessedURL)
	assert.Contains(t, result.ProcessedURL, "/uploads/processed-")
	assert.Contains(t, result.ProcessedURL, ".png")
}

func TestUploadArtifactServedByteForByte(t *testing.T) {
	f := newFixture(t, nil)

	body, contentType := multipartImage(t, "image", "photo.png", encodePNG(t))
	rec := f.upload(t, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code)

	var result upload.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	// No public base URL is configured in the fixture, so the locator is
	// a server-relative path we can fetch directly.
	req := httptest.NewRequest(http.MethodGet, result.ProcessedURL, nil)
	fetch := httptest.NewRecorder()
	f.engine.ServeHTTP(fetch, req)

	require.Equal(t, http.StatusOK, fetch.Code)
	assert.Equal(t, f.mlOutput, fetch.Body.Bytes())
}

func TestUploadMissingFileField(t *testing.T) {
	f := newFixture(t, nil)

	// Wrong field name: the handler must answer as if no file was sent.
	body, contentType := multipartImage(t, "photo", "photo.png", encodePNG(t))
	rec := f.upload(t, body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httptransport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No image file provided", resp.Error)
}

func TestUploadRejectsCorruptImage(t *testing.T) {
	f := newFixture(t, nil)

	body, contentType := multipartImage(t, "image", "photo.png", []byte("not an image"))
	rec := f.upload(t, body, contentType)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httptransport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid image upload", resp.Error)
}

func TestUploadInferenceUnreachable(t *testing.T) {
	f := newFixture(t, nil)
	f.mlServer.Close()

	body, contentType := multipartImage(t, "image", "photo.png", encodePNG(t))
	rec := f.upload(t, body, contentType)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp httptransport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Upload failed", resp.Error)
	assert.Contains(t, resp.Details, "ML Service error:")

	// No partial artifact may survive a failed run.
	entries, err := os.ReadDir(f.storageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadInferenceFailureHidesDetailsInProduction(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Server.Mode = "production"
	})
	f.mlServer.Close()

	body, contentType := multipartImage(t, "image", "photo.png", encodePNG(t))
	rec := f.upload(t, body, contentType)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp httptransport.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Upload failed", resp.Error)
	assert.Empty(t, resp.Details)
}

func TestStatusEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/images/status", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    StatusData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", resp.Data.Status)
	assert.Equal(t, f.mlServer.URL, resp.Data.InferenceURL)
}
