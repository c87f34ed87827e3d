package upload

import (
	"context"
	"time"

	"github.com/foztr/removeer/internal/domain/artifact"
	"github.com/foztr/removeer/internal/domain/eventbus"
	domainimage "github.com/foztr/removeer/internal/domain/image"
	"github.com/foztr/removeer/internal/domain/inference"
	"github.com/foztr/removeer/internal/platform/errors"
	"github.com/foztr/removeer/internal/utils"
)

// Orchestrator sequences validation, inference, storage and response
// assembly for one upload. No step is ever retried; a failure at any stage
// ends the request with a single failure outcome.
type Orchestrator struct {
	pipeline *domainimage.Pipeline
	infer    inference.Processor
	store    artifact.Store
	logger   *utils.Logger
}

// Options configures the orchestrator.
type Options struct {
	Pipeline *domainimage.Pipeline
	Infer    inference.Processor
	Store    artifact.Store
	Logger   *utils.Logger
}

// NewOrchestrator wires the pipeline dependencies.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Pipeline == nil {
		return nil, errors.New(errors.KindConfig, "upload.new", "image pipeline is required")
	}
	if opts.Infer == nil {
		return nil, errors.New(errors.KindConfig, "upload.new", "inference client is required")
	}
	if opts.Store == nil {
		return nil, errors.New(errors.KindConfig, "upload.new", "artifact store is required")
	}
	if opts.Logger == nil {
		opts.Logger = utils.DefaultLogger
	}

	return &Orchestrator{
		pipeline: opts.Pipeline,
		infer:    opts.Infer,
		store:    opts.Store,
		logger:   opts.Logger,
	}, nil
}

// Handle runs one upload through received -> validated -> inferring ->
// storing -> completed. The returned error carries the failure kind for
// the transport layer to map onto a status code.
func (o *Orchestrator) Handle(ctx context.Context, req *Request) (*Result, error) {
	current := stageReceived

	if req == nil || req.Reader == nil {
		return o.fail(current, ErrNoFileProvided)
	}

	eventbus.PublishAsync(eventbus.EventUploadReceived, eventbus.UploadEventData{
		Filename: req.Filename,
		Format:   req.DeclaredFormat,
		Size:     req.Size,
	})

	out, err := o.pipeline.Process(ctx, domainimage.Input{
		Reader:         req.Reader,
		DeclaredFormat: req.DeclaredFormat,
		Source:         "upload",
	})
	if err != nil {
		return o.fail(current, errors.Wrap(errors.KindValidation, "upload.validate", "image validation failed", err))
	}
	current = stageValidated

	o.logger.DebugTag("UPLOAD", "validated %s: format=%s size=%d", req.Filename, out.Format, len(out.Bytes))

	current = stageInferring
	inferStart := time.Now()
	processed, err := o.infer.Process(ctx, out.Bytes)
	if err != nil {
		return o.fail(current, errors.Wrap(errors.KindInference, "upload.infer", "background removal failed", err))
	}

	eventbus.PublishAsync(eventbus.EventInferenceCompleted, eventbus.InferenceEventData{
		InputBytes:  int64(len(out.Bytes)),
		OutputBytes: int64(len(processed)),
		DurationMS:  time.Since(inferStart).Milliseconds(),
	})

	current = stageStoring
	art, err := o.store.Store(ctx, processed)
	if err != nil {
		return o.fail(current, errors.Wrap(errors.KindStorage, "upload.store", "artifact write failed", err))
	}

	eventbus.PublishAsync(eventbus.EventStorageWritten, eventbus.StorageEventData{
		Name: art.Name,
		Size: art.Size,
		URL:  art.URL,
	})
	eventbus.Publish(eventbus.EventUploadCompleted, eventbus.UploadEventData{
		Filename: req.Filename,
		Format:   out.Format,
		Size:     art.Size,
		URL:      art.URL,
	})

	current = stageCompleted
	o.logger.InfoTag("UPLOAD", "completed: %s -> %s", req.Filename, art.URL)

	return &Result{
		Status:       StatusCompleted,
		ProcessedURL: art.URL,
	}, nil
}

func (o *Orchestrator) fail(at stage, err error) (*Result, error) {
	o.logger.WarnTag("UPLOAD", "failed at %s: %v", at, err)
	eventbus.Publish(eventbus.EventUploadFailed, eventbus.UploadEventData{
		Error: err.Error(),
	})
	return &Result{Status: StatusFailed}, err
}
