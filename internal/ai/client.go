package ai

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Eric21111/expense-tracker-sub001/internal/config"
)

//go:embed prompt.txt
var promptText string

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg  *config.Config
	http *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg, http: &http.Client{}}
}

func (c *Client) Enabled() bool {
	return c.cfg.OpenAIKey != ""
}

// GenerateInsights sends the aggregate spending summary and returns the
// model's commentary.
func (c *Client) GenerateInsights(ctx context.Context, summary string) (string, error) {
	if c.cfg.OpenAIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": c.cfg.OpenAIModel,
		"messages": []map[string]string{
			{"role": "system", "content": promptText},
			{"role": "user", "content": summary},
		},
	}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, "POST", c.cfg.OpenAIBaseURL+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		bs, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm error: %s", string(bs))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
