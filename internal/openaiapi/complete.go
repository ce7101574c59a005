package openaiapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
)

// CompletionRequest carries all per-call generation parameters explicitly;
// there are no shared mutable defaults to override.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	MaxAttempts int
	Timeout     time.Duration
}

// Complete sends one chat completion and returns the raw response text.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("openai client is not initialized")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}

	var content string
	callOpts := CallOptions{MaxAttempts: req.MaxAttempts, Timeout: req.Timeout}
	err := c.invoke(ctx, "chat_completion", callOpts, func(callCtx context.Context) error {
		resp, err := c.api.Chat.Completions.New(callCtx, params)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("completion response has no choices")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
