// Package api implements the Gemini model session client.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog/log"

	apierrors "github.com/diogo/healthchat/internal/errors"
	"github.com/diogo/healthchat/internal/models"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// GeminiClient talks to the Gemini API with a single API key
type GeminiClient struct {
	httpClient        tls_client.HttpClient
	apiKey            string
	baseURL           string
	model             models.Model
	systemInstruction string
	timeoutSeconds    int
	mu                sync.RWMutex
	initialized       bool
	closed            bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model used by new chat sessions
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithSystemInstruction sets the instruction sent with every turn
func WithSystemInstruction(instruction string) ClientOption {
	return func(c *GeminiClient) {
		c.systemInstruction = instruction
	}
}

// WithBaseURL overrides the API endpoint
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GeminiClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the whole-request timeout in seconds, stream included
func WithTimeout(seconds int) ClientOption {
	return func(c *GeminiClient) {
		if seconds > 0 {
			c.timeoutSeconds = seconds
		}
	}
}

// WithHTTPClient replaces the transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new GeminiClient. It fails with a ConnectionError when
// the API key is empty.
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.NewConnectionError("missing API key", apierrors.ErrNoAPIKey)
	}

	client := &GeminiClient{
		apiKey:            apiKey,
		baseURL:           models.EndpointBase,
		model:             models.DefaultModel,
		systemInstruction: models.SystemInstruction,
		timeoutSeconds:    300,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, apierrors.NewConnectionError("failed to create HTTP client", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Init verifies the credential and model by fetching the model resource.
// Any failure is reported as a ConnectionError.
func (c *GeminiClient) Init(ctx context.Context) error {
	if c.IsClosed() {
		return apierrors.NewConnectionError("client is closed", nil)
	}

	endpoint := c.modelURL("")
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apierrors.NewConnectionError("failed to create request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierrors.NewConnectionError("model lookup failed",
			apierrors.NewNetworkErrorWithEndpoint("init", endpoint, err))
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		body := readLimited(resp.Body, maxErrorBody)
		return apierrors.NewConnectionError("model lookup failed",
			apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, "unexpected status", body))
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()

	log.Info().Str("model", c.GetModel().Name).Msg("gemini session negotiated")
	return nil
}

// CreateSession negotiates with the backend and returns a fresh chat session.
func (c *GeminiClient) CreateSession(ctx context.Context) (*ChatSession, error) {
	if !c.IsInitialized() {
		if err := c.Init(ctx); err != nil {
			return nil, err
		}
	}
	return c.StartChat(), nil
}

// Close releases idle connections. Sessions created from a closed client fail.
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// IsInitialized returns whether Init succeeded
func (c *GeminiClient) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// GetModel returns the default model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// SystemInstruction returns the instruction sent with every turn
func (c *GeminiClient) SystemInstruction() string {
	return c.systemInstruction
}

// StartChat creates a new chat session with empty history
func (c *GeminiClient) StartChat(model ...models.Model) *ChatSession {
	m := c.GetModel()
	if len(model) > 0 {
		m = model[0]
	}

	return &ChatSession{
		client: c,
		model:  m,
	}
}

// modelURL builds {base}/v1beta/models/{model}{suffix}
func (c *GeminiClient) modelURL(suffix string) string {
	return c.modelURLFor(c.GetModel(), suffix)
}

func (c *GeminiClient) modelURLFor(model models.Model, suffix string) string {
	return fmt.Sprintf("%s/%s%s", c.baseURL, model.ModelPath(), suffix)
}

func (c *GeminiClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	return req, nil
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

// readLimited reads at most limit bytes of r for error reporting
func readLimited(r io.Reader, limit int64) string {
	if r == nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(r, limit))
	return string(data)
}
