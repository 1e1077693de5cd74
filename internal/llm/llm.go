package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/priyanshu1677/agentic-ai/internal/config"
	"github.com/priyanshu1677/agentic-ai/internal/jobclient"
	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("chat completion returned no choices")

// NewClient creates a new OpenAI client
func NewClient(cfg config.LLMConfig) *openai.Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return openai.NewClientWithConfig(config)
}

// OpenAICompleter sends each prompt as a single user message.
type OpenAICompleter struct {
	client ChatClient
	model  string
}

func NewOpenAICompleter(client ChatClient, model string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// JobClientConfig converts the jobrunner section into a jobclient.Config.
func JobClientConfig(cfg config.JobRunnerConfig) jobclient.Config {
	return jobclient.Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       cfg.APIKey,
		UserID:       cfg.UserID,
		PipelineID:   cfg.PipelineID,
		InputName:    cfg.InputName,
		OutputName:   cfg.OutputName,
		PollInterval: cfg.PollInterval,
		PollBudget:   cfg.PollBudget,
		HTTPTimeout:  cfg.HTTPTimeout,
	}
}

// NewCompleter builds the backend selected by cfg.LLM.Provider.
func NewCompleter(cfg *config.Config) (Completer, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGumloop, "":
		return jobclient.New(JobClientConfig(cfg.JobRunner)), nil
	case config.ProviderOpenAI:
		return NewOpenAICompleter(NewClient(cfg.LLM), cfg.LLM.Model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}
