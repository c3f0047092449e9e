package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/tubeinsight/api/internal/domain/ai"
	"github.com/tubeinsight/api/internal/infra/ai/prompt"
)

const defaultModel = "gpt-4o"

type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
}

func NewClient(apiKey, model string, maxTokens int) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model, MaxTokens: maxTokens}
}

// Summarize runs one chat completion over the transcript and returns the raw
// model text. One billable call per invocation; no retry at this layer.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User(transcript)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domai.ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps provider errors onto the domain sentinels the pipeline
// understands: 429 is a quota error, 5xx and timeouts are transient.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		case apiErr.HTTPStatusCode >= 500:
			return fmt.Errorf("%w: %v", domai.ErrTransient, err)
		}
		return fmt.Errorf("failed to create chat completion: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domai.ErrTransient, err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}
