package eventbus

// Upload pipeline lifecycle topics.
const (
	EventUploadReceived  = "upload:received"
	EventUploadCompleted = "upload:completed"
	EventUploadFailed    = "upload:failed"

	EventInferenceCompleted = "inference:completed"
	EventStorageWritten     = "storage:written"
)

// UploadEventData describes one upload moving through the pipeline.
type UploadEventData struct {
	Filename string `json:"filename,omitempty"`
	Format   string `json:"format,omitempty"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// InferenceEventData describes one inference round trip.
type InferenceEventData struct {
	InputBytes  int64 `json:"input_bytes"`
	OutputBytes int64 `json:"output_bytes"`
	DurationMS  int64 `json:"duration_ms"`
}

// StorageEventData describes one artifact write.
type StorageEventData struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}
