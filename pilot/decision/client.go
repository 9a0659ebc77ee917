package decision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 60 * time.Second

	maxResponseTokens = 300
)

// Client calls an OpenAI-compatible chat-completions endpoint with a screen
// capture and returns the model's decision. One synchronous call per
// iteration; rate-limit and transient failures are retried in here so the
// loop above stays simple.
type Client struct {
	endpoint string
	apiKey   string
	model    string

	// MaxRetries bounds retry attempts for rate-limit and transient
	// failures. RetryDelay is the fixed delay after a rate limit and the
	// base for the doubling transient backoff.
	MaxRetries int
	RetryDelay time.Duration

	httpClient *http.Client
}

// NewClient builds a client for the given endpoint URL, bearer key and model
// name, with default retry policy and timeout.
func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Request/response shapes for the chat-completions schema. Only the fields
// we use.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Decide sends the PNG capture and textual context to the model and returns
// its decision. AuthError and MalformedError return immediately; rate-limit
// and transient failures are retried up to MaxRetries before surfacing.
func (c *Client) Decide(ctx context.Context, imagePNG []byte, historyContext string) (Decision, error) {
	prompt := BuildPrompt(historyContext)

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.RetryDelay
			if _, transient := lastErr.(*TransientError); transient {
				delay = c.RetryDelay << (attempt - 1)
			}
			slog.Warn("retrying remote decision", "attempt", attempt, "delay", delay, "cause", lastErr)
			if err := sleepCtx(ctx, delay); err != nil {
				return Decision{}, &TransientError{Err: err}
			}
		}

		content, err := c.doRequest(ctx, imagePNG, prompt)
		if err != nil {
			switch err.(type) {
			case *RateLimitError, *TransientError:
				lastErr = err
				continue
			default:
				return Decision{}, err
			}
		}
		return Parse(content)
	}
	return Decision{}, lastErr
}

func (c *Client) doRequest(ctx context.Context, imagePNG []byte, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG),
				}},
			},
		}},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.7,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return "", &RateLimitError{Status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return "", &TransientError{Err: fmt.Errorf("HTTP %d from endpoint", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &MalformedError{Reason: fmt.Sprintf("decode response body: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &MalformedError{Reason: "response has no choices"}
	}
	return parsed.Choices[0].Message.Content, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
