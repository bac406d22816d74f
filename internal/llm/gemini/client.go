package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"clauselens-backend/internal/llm"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultTimeout = 120 * time.Second
	cloudScope     = "https://www.googleapis.com/auth/cloud-platform"
)

// Client implements llm.Completer against the generateContent endpoint.
// It authenticates with an API key (Gemini API) or an OAuth2 token source (Vertex AI).
type Client struct {
	provider    string
	apiKey      string
	model       string
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL replaces the models collection URL; the model name and ":generateContent" are appended.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource overrides Application Default Credentials for Vertex AI.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// NewClient constructs a Gemini API completer authenticated by apiKey.
func NewClient(apiKey, model string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	c := newClient("gemini", model, defaultBaseURL, timeout)
	c.apiKey = apiKey
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewVertexClient constructs a Vertex AI completer. Without WithTokenSource it
// resolves Application Default Credentials.
func NewVertexClient(ctx context.Context, project, location, model string, timeout time.Duration, opts ...Option) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Vertex AI")
	}
	if strings.TrimSpace(project) == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_LOCATION is required")
	}
	base := fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models",
		location, url.PathEscape(project), location)
	c := newClient("vertex", model, base, timeout)
	for _, opt := range opts {
		opt(c)
	}
	if c.tokenSource == nil {
		ts, err := google.DefaultTokenSource(ctx, cloudScope)
		if err != nil {
			return nil, fmt.Errorf("vertex credentials: %w", err)
		}
		c.tokenSource = ts
	}
	return c, nil
}

func newClient(provider, model, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		provider:   provider,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends prompt as a single user turn and returns the concatenated text parts unmodified.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "", llm.Fail(c.provider, err)
	}
	return text, nil
}

func (c *Client) endpoint() string {
	endpoint := fmt.Sprintf("%s/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	if c.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(c.apiKey)
	}
	return endpoint
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenSource != nil {
		tok, err := c.tokenSource.Token()
		if err != nil {
			return "", fmt.Errorf("fetching access token: %w", err)
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("%s request timeout: %w", c.provider, redact(err, c.apiKey))
		}
		return "", fmt.Errorf("sending request: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API request failed with status %d: %s (%s)", resp.StatusCode, parsed.Error.Message, parsed.Error.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var b strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := b.String()
	if text == "" {
		return "", fmt.Errorf("empty content in response (finishReason=%s)", parsed.Candidates[0].FinishReason)
	}
	return text, nil
}

// redact keeps the API key out of transport errors, which embed the request URL.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.NewReplacer(url.QueryEscape(key), "REDACTED", key, "REDACTED").Replace(err.Error())
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}

var _ llm.Completer = (*Client)(nil)
