package eventbus

import (
	"github.com/foztr/removeer/internal/utils"
)

// LoggingHandler writes pipeline lifecycle events to the application log.
type LoggingHandler struct {
	logger *utils.Logger
}

// NewLoggingHandler creates a handler logging through the given logger.
func NewLoggingHandler(logger *utils.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) handleUploadCompleted(data UploadEventData) {
	h.logger.InfoTag("EVENT", "upload completed: url=%s size=%d", data.URL, data.Size)
}

func (h *LoggingHandler) handleUploadFailed(data UploadEventData) {
	h.logger.WarnTag("EVENT", "upload failed: %s", data.Error)
}

func (h *LoggingHandler) handleInferenceCompleted(data InferenceEventData) {
	h.logger.InfoTag("EVENT", "inference completed: in=%d out=%d duration=%dms",
		data.InputBytes, data.OutputBytes, data.DurationMS)
}

func (h *LoggingHandler) handleStorageWritten(data StorageEventData) {
	h.logger.InfoTag("EVENT", "artifact stored: %s (%d bytes)", data.Name, data.Size)
}

// SetupEventHandlers installs the default logging subscriber.
func SetupEventHandlers(logger *utils.Logger) {
	if logger == nil {
		logger = utils.DefaultLogger
	}
	handler := NewLoggingHandler(logger)

	_ = Subscribe(EventUploadCompleted, handler.handleUploadCompleted)
	_ = Subscribe(EventUploadFailed, handler.handleUploadFailed)
	_ = SubscribeAsync(EventInferenceCompleted, handler.handleInferenceCompleted)
	_ = SubscribeAsync(EventStorageWritten, handler.handleStorageWritten)
}
