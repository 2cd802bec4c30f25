package llmjudge

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// OpenAIDefaultModel is used when OpenAIConfig.Model is empty.
const OpenAIDefaultModel = "gpt-4o-mini"

// OpenAIConfig configures an OpenAIJudge.
type OpenAIConfig struct {
	APIKey  string `validate:"required"`
	Model   string
	BaseURL string
}

// OpenAIJudge implements ports.Judge via OpenAI chat completions, using the
// same strict-JSON verdict contract as AnthropicJudge.
type OpenAIJudge struct {
	client *openai.Client
	model  string
}

// NewOpenAIJudge creates an OpenAIJudge from cfg.
func NewOpenAIJudge(cfg OpenAIConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llmjudge: openai API key cannot be empty")
	}

	model := cfg.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Compare implements ports.Judge.
func (j *OpenAIJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: comparisonPrompt(first, second, criteria)},
		},
	})
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: empty response from OpenAI API")
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}
