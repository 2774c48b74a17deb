// Package inference round-trips captured frames through the remote
// classification endpoint.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"dashcam/internal/models"
)

const (
	analyzePath    = "/analyze"
	imageField     = "image"
	timestampField = "timestamp"

	// DefaultTimeout bounds one classification round trip. Exceeding it is a
	// transport failure, never a hang.
	DefaultTimeout = 30 * time.Second

	// HistoryLimit caps the retained inference results, FIFO eviction.
	HistoryLimit = 50
)

// ErrMalformedResponse indicates a 200 response whose body is missing the
// prediction or confidence fields.
var ErrMalformedResponse = errors.New("malformed classification response")

// ServerError is a non-200 response from the classification endpoint.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("classification server returned HTTP %d", e.StatusCode)
}

// TransportError covers DNS, connect and timeout failures uniformly.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("classification request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client posts frames to the remote classification service and parses the
// response. It holds no pipeline state; histories are owned by the caller.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type analyzeResponse struct {
	Prediction       *string            `json:"prediction"`
	Confidence       *float64           `json:"confidence"`
	AllProbabilities map[string]float64 `json:"all_probabilities"`
}

// Analyze sends one frame as a multipart form POST and parses the JSON
// response into an InferenceResult. Failures map onto the pipeline taxonomy:
// *TransportError for network/timeout, *ServerError for non-200 statuses and
// ErrMalformedResponse for unusable 200 bodies. No retry is attempted.
func (c *Client) Analyze(ctx context.Context, frame models.CapturedFrame) (models.InferenceResult, error) {
	var zero models.InferenceResult

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	filename := fmt.Sprintf("dashcam_%d.jpg", frame.CapturedAt.UnixMilli())
	part, err := mw.CreateFormFile(imageField, filename)
	if err != nil {
		return zero, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(frame.Image); err != nil {
		return zero, fmt.Errorf("failed to write image payload: %w", err)
	}
	if err := mw.WriteField(timestampField, frame.CapturedAt.Format(time.RFC3339)); err != nil {
		return zero, fmt.Errorf("failed to write timestamp field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return zero, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, body)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return zero, &ServerError{StatusCode: resp.StatusCode}
	}

	var payload analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.Prediction == nil || payload.Confidence == nil {
		return zero, ErrMalformedResponse
	}

	return models.InferenceResult{
		PredictedLabel: *payload.Prediction,
		Confidence:     *payload.Confidence,
		Probabilities:  payload.AllProbabilities,
		ObservedAt:     time.Now(),
	}, nil
}
