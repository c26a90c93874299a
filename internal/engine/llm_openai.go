package engine

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAICompleter implements Completer using the official openai-go SDK (chat completions).
type openAICompleter struct {
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

func newOpenAICompleter(c Config, baseURL, model string) *openAICompleter {
	opts := []option.RequestOption{option.WithAPIKey(c.LLMAPIKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if c.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(c.HTTPClient))
	}
	// Retries are owned by the caller, which never retries a stage.
	opts = append(opts, option.WithMaxRetries(0))
	return &openAICompleter{
		model:       model,
		temperature: c.LLMTemperature,
		maxTokens:   c.LLMMaxTokens,
		opts:        opts,
	}
}

func (o *openAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	msgs = append(msgs, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    msgs,
		Temperature: openai.Float(o.temperature),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
