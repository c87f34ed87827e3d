package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/foztr/removeer/internal/platform/config"
	"github.com/foztr/removeer/internal/utils"
)

const (
	// The outgoing part is always labeled as JPEG, matching the contract
	// the inference service was built against, regardless of the format
	// the client uploaded.
	formFieldName   = "image"
	formFileName    = "image.jpg"
	formContentType = "image/jpeg"
)

// ErrEmptyResponse reports a transport-level success with no usable payload.
var ErrEmptyResponse = errors.New("inference service returned an empty body")

// UnavailableError reports a failure to reach the inference service at all
// (connection refused, DNS failure, timeout).
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("inference service unreachable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// ServiceError reports a non-2xx response from the inference service.
type ServiceError struct {
	StatusCode int
	Body       []byte
}

func (e *ServiceError) Error() string {
	body := string(e.Body)
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("inference service returned status %d: %s", e.StatusCode, body)
}

// Processor performs one synchronous background-removal round trip.
type Processor interface {
	Process(ctx context.Context, imageBytes []byte) ([]byte, error)
}

// Client calls the external background-removal service over HTTP.
type Client struct {
	processURL string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewClient builds a client for the configured service endpoint.
func NewClient(cfg config.MLConfig, logger *utils.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	processPath := cfg.ProcessPath
	if processPath == "" {
		processPath = "/process"
	}

	return &Client{
		processURL: strings.TrimRight(cfg.BaseURL, "/") + processPath,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Process sends the raw image bytes as a multipart payload and returns the
// processed bytes. Exactly one attempt is made per invocation; retry policy
// belongs to the caller.
func (c *Client) Process(ctx context.Context, imageBytes []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, formFieldName, formFileName))
	header.Set("Content-Type", formContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalise multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.processURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.InfoTag("ML", "sending %d bytes to %s", len(imageBytes), c.processURL)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	// The service may return large processed images; no body size cap.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if len(respBody) == 0 {
		return nil, ErrEmptyResponse
	}

	c.logger.InfoTag("ML", "received %d processed bytes in %s", len(respBody), time.Since(start).Round(time.Millisecond))
	return respBody, nil
}
