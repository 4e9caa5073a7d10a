package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/voice-notes/logging"
)

// DefaultTemperature keeps the analysis close to deterministic.
const DefaultTemperature float32 = 0.1

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.New("openai returned no choices")

// Analyzer turns a transcript into raw model output.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (string, error)
}

type OpenAIClient struct {
	Client      *openai.Client
	Model       string // Model to use for OpenAI API
	Temperature float32
	logger      zerolog.Logger
}

// NewClient builds a go-openai client. An empty baseURL keeps the public API.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func NewOpenAIClient(client *openai.Client, model string, temperature float32) (*OpenAIClient, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		Client:      client,
		Model:       model,
		Temperature: temperature,
		logger:      logging.Component("llm"),
	}, nil
}

// Analyze sends the analysis prompt for transcript and returns the first
// choice's text untouched. Parsing is left to Normalize.
func (c *OpenAIClient) Analyze(ctx context.Context, transcript string) (string, error) {
	c.logger.Debug().Int("transcript_len", len(transcript)).Str("model", c.Model).Msg("requesting analysis")

	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(transcript)},
		},
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug().Int("response_len", len(content)).Msg("analysis received")
	return content, nil
}
