package inference

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdfqa/internal/config"
)

const (
	taskSummarization     = "summarization"
	taskQuestionAnswering = "question_answering"
)

// Client is a shared HTTP client for the inference endpoint. It is safe for concurrent use.
type Client struct {
	baseURL      string
	token        string
	waitForModel bool
	httpClient   *http.Client
	metrics      *Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records per-call counters and latencies.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client from configuration. A zero TimeoutSec means calls never time out.
func NewClient(cfg config.InferenceConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.APIToken,
		waitForModel: cfg.WaitForModel,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
}

func (c *Client) options() *requestOptions {
	if !c.waitForModel {
		return nil
	}
	return &requestOptions{WaitForModel: true}
}

func (c *Client) modelURL(modelID string) string {
	return c.baseURL + "/models/" + modelID
}
