package enrich

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// TextExtractor pulls embedded text out of an image (OCR).
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Captioner produces a natural-language description of an image.
type Captioner interface {
	Caption(ctx context.Context, image []byte) (string, error)
}

// inferRequest is the JSON body sent to an inference endpoint. The
// image travels base64-encoded.
type inferRequest struct {
	Image string `json:"image"`
}

// inferResponse covers both endpoint shapes; each service fills the
// field it owns.
type inferResponse struct {
	Text    string `json:"text"`
	Caption string `json:"caption"`
}

// inferenceClient POSTs an image to a single inference endpoint and
// returns the decoded response. The endpoint is probed once, on first
// use; a connection is not opened just by constructing the client.
type inferenceClient struct {
	endpoint string
	client   *http.Client

	warmOnce sync.Once
	warmErr  error
}

func newInferenceClient(endpoint string, timeout time.Duration) *inferenceClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &inferenceClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// warm probes the endpoint the first time it is called and leaves the
// pooled connection open for the inference calls that follow. Any HTTP
// status counts as reachable; only a transport failure is an error,
// and that error sticks for the lifetime of the client.
func (c *inferenceClient) warm(ctx context.Context) error {
	c.warmOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.endpoint, nil)
		if err != nil {
			c.warmErr = err
			return
		}
		resp, err := c.client.Do(req)
		if err != nil {
			c.warmErr = fmt.Errorf("inference endpoint %s unreachable: %w", c.endpoint, err)
			return
		}
		resp.Body.Close()
	})
	return c.warmErr
}

// Close releases the client's pooled connections.
func (c *inferenceClient) Close() {
	c.client.CloseIdleConnections()
}

func (c *inferenceClient) infer(ctx context.Context, image []byte) (*inferResponse, error) {
	if err := c.warm(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(inferRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP POST %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, c.endpoint, string(respBody))
	}

	var result inferResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// HTTPExtractor is a TextExtractor backed by an OCR inference service.
type HTTPExtractor struct {
	client *inferenceClient
}

// NewHTTPExtractor returns an extractor that POSTs to endpoint.
func NewHTTPExtractor(endpoint string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{client: newInferenceClient(endpoint, timeout)}
}

// Close releases the extractor's pooled connections.
func (e *HTTPExtractor) Close() {
	e.client.Close()
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	resp, err := e.client.infer(ctx, image)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// HTTPCaptioner is a Captioner backed by a captioning inference service.
type HTTPCaptioner struct {
	client *inferenceClient
}

// NewHTTPCaptioner returns a captioner that POSTs to endpoint.
func NewHTTPCaptioner(endpoint string, timeout time.Duration) *HTTPCaptioner {
	return &HTTPCaptioner{client: newInferenceClient(endpoint, timeout)}
}

// Close releases the captioner's pooled connections.
func (c *HTTPCaptioner) Close() {
	c.client.Close()
}

func (c *HTTPCaptioner) Caption(ctx context.Context, image []byte) (string, error) {
	resp, err := c.client.infer(ctx, image)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Caption), nil
}
