package images

// StatusData reports pipeline readiness in the status endpoint response.
type StatusData struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	InferenceURL string `json:"inferenceUrl"`
}
