package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Completer turns a prompt into the model's text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatClient is minimal subset of openai.Client used here; it is easy to mock in tests.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}
