package inference

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	return NewClient(config.MLConfig{
		BaseURL:     baseURL,
		ProcessPath: "/process",
		Timeout:     timeout,
	}, testLogger(t))
}

func TestClient_Process(t *testing.T) {
	processed := []byte("processed png bytes")

	var gotFilename, gotPartType string
	var gotPayload []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/process", r.URL.Path)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename
		gotPartType = header.Header.Get("Content-Type")
		gotPayload, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Write(processed)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)

	result, err := client.Process(context.Background(), []byte("raw upload"))
	require.NoError(t, err)

	assert.Equal(t, processed, result)
	assert.Equal(t, "image.jpg", gotFilename)
	assert.Equal(t, "image/jpeg", gotPartType)
	assert.Equal(t, []byte("raw upload"), gotPayload)
}

func TestClient_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model failed"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)

	_, err := client.Process(context.Background(), []byte("raw"))
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.StatusCode)
	assert.Contains(t, string(svcErr.Body), "model failed")
}

func TestClient_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second)

	_, err := client.Process(context.Background(), []byte("raw"))
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_Unreachable(t *testing.T) {
	// Port reserved then released, nothing listening.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := newTestClient(t, addr, time.Second)

	_, err := client.Process(context.Background(), []byte("raw"))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client := newTestClient(t, server.URL, 50*time.Millisecond)

	_, err := client.Process(context.Background(), []byte("raw"))
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestClient_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client := newTestClient(t, server.URL, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Process(ctx, []byte("raw"))
	require.Error(t, err)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(unavailable.Cause, context.Canceled))
}
