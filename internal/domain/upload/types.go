package upload

import (
	"errors"
	"io"
)

// Status is the terminal outcome of one pipeline run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Pipeline stages, in order. Each request moves strictly forward; a failure
// at any stage is terminal.
type stage string

const (
	stageReceived  stage = "received"
	stageValidated stage = "validated"
	stageInferring stage = "inferring"
	stageStoring   stage = "storing"
	stageCompleted stage = "completed"
)

// ErrNoFileProvided reports a submission without a file field. The
// inference service is never contacted for such requests.
var ErrNoFileProvided = errors.New("no image file provided")

// Request is one in-memory upload scoped to a single HTTP request.
type Request struct {
	Reader         io.Reader
	Filename       string
	DeclaredFormat string
	Size           int64
}

// Result is the response payload assembled by the orchestrator.
type Result struct {
	Status       Status `json:"status"`
	ProcessedURL string `json:"processedUrl,omitempty"`
}
