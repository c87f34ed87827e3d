package image

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/foztr/removeer/internal/platform/config"
	"github.com/foztr/removeer/internal/utils"
)

// Pipeline buffers a streaming upload, enforces the size cap while reading
// and runs validation on the result.
type Pipeline struct {
	validator *Validator
	logger    *utils.Logger
	limits    *config.UploadConfig
}

// Options configures the pipeline behaviour.
type Options struct {
	Limits *config.UploadConfig
	Logger *utils.Logger
}

// Input describes a streaming image payload.
type Input struct {
	Reader         io.Reader
	DeclaredFormat string
	Source         string
}

// Output contains the validated payload produced by the pipeline.
type Output struct {
	Bytes      []byte
	Format     string
	Validation ValidationResult
}

// NewPipeline constructs an upload validation pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Limits == nil {
		return nil, fmt.Errorf("upload limits are required")
	}
	if opts.Logger == nil {
		opts.Logger = utils.DefaultLogger
	}

	return &Pipeline{
		validator: NewValidator(opts.Limits, opts.Logger),
		logger:    opts.Logger,
		limits:    opts.Limits,
	}, nil
}

// Process streams the input through the size cap and validation.
func (p *Pipeline) Process(ctx context.Context, input Input) (*Output, error) {
	if input.Reader == nil {
		return nil, fmt.Errorf("image reader is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	maxSize := p.limits.MaxFileSize
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}

	limited := &io.LimitedReader{
		R: input.Reader,
		N: maxSize + 1,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 32*1024))
	if _, err := io.Copy(buf, limited); err != nil {
		return nil, fmt.Errorf("stream image bytes: %w", err)
	}

	if limited.N <= 0 {
		return nil, fmt.Errorf("image exceeds maximum size of %d bytes", maxSize)
	}

	raw := buf.Bytes()
	validation := p.validator.ValidateBytes(raw, input.DeclaredFormat)
	if !validation.IsValid {
		if validation.Error != nil {
			return nil, validation.Error
		}
		return nil, fmt.Errorf("image validation failed")
	}

	return &Output{
		Bytes:      raw,
		Format:     validation.Format,
		Validation: validation,
	}, nil
}
