package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/docqa-labs/docqa-backend/internal/rag/domain"
)

const (
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
)

// OpenAIGenerator answers prompts via the chat completions API and reports
// the usage token counts.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}

	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (domain.Generation, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(defaultMaxTokens),
		Temperature: openai.Float(defaultTemperature),
	})
	if err != nil {
		return domain.Generation{}, fmt.Errorf("%w: %v", domain.ErrLLM, err)
	}

	if len(completion.Choices) == 0 {
		return domain.Generation{}, fmt.Errorf("%w: no completion choices returned", domain.ErrLLM)
	}

	return domain.Generation{
		Answer:          completion.Choices[0].Message.Content,
		TokensConsumed:  int(completion.Usage.PromptTokens),
		TokensGenerated: int(completion.Usage.CompletionTokens),
	}, nil
}

var _ domain.Generator = (*OpenAIGenerator)(nil)
