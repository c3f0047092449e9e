package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	domai "github.com/tubeinsight/api/internal/domain/ai"
	"github.com/tubeinsight/api/internal/infra/ai/prompt"
)

const defaultModel = "gemini-1.5-pro"

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{client: client, model: model}, nil
}

// Summarize sends the combined instruction+transcript prompt to Gemini and
// returns the raw response text.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(prompt.Combined(transcript))},
			genai.RoleUser,
		),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	text := result.Text()
	if text == "" {
		return "", domai.ErrEmptyCompletion
	}
	return text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 || strings.Contains(apiErr.Status, "RESOURCE_EXHAUSTED"):
			return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", domai.ErrTransient, err)
		}
		return fmt.Errorf("gemini completion failed: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domai.ErrTransient, err)
	}
	return fmt.Errorf("gemini completion failed: %w", err)
}
