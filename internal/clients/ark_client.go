package clients

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

	"github.com/oplens/oplens/internal/utils"
)

type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []inputMessage `json:"input"`
}

type ArkOptions struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ArkClient talks to the Ark responses API. It holds nothing but the
// credential and an http.Client, so one instance is shared safely across
// concurrent requests.
type ArkClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewArkClient(opts ArkOptions) (*ArkClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("ark API key is not configured")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = ARK_API_URL
	}
	if opts.Model == "" {
		opts.Model = ARK_MODEL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}

	slog.Info("[ArkClient] Client initialized",
		slog.String("model", opts.Model),
		slog.Duration("timeout", opts.Timeout))

	return &ArkClient{
		apiKey:  opts.APIKey,
		baseURL: opts.BaseURL,
		model:   opts.Model,
		client:  &http.Client{Timeout: opts.Timeout},
	}, nil
}

// GenerateText sends a text-only prompt and returns the model's text.
func (c *ArkClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.createResponse(ctx, []contentPart{
		{Type: "input_text", Text: prompt},
	})
}

// GenerateVision sends an image as a base64 data URL together with a prompt
// and returns the model's text.
func (c *ArkClient) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	return c.createResponse(ctx, []contentPart{
		{Type: "input_image", ImageURL: dataURL},
		{Type: "input_text", Text: prompt},
	})
}

func (c *ArkClient) createResponse(ctx context.Context, parts []contentPart) (string, error) {
	payload := responsesRequest{
		Model: c.model,
		Input: []inputMessage{{Role: "user", Content: parts}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", USER_AGENT)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("ark API returned status %d: %s", resp.StatusCode, preview(respBody))
	}

	slog.Info("[ArkClient] Response received",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("body_bytes", len(respBody)))

	return ExtractResponseText(respBody), nil
}

func preview(body []byte) string {
	return utils.TruncateRunes(string(body), 200)
}
