package llmjudge

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// GoogleDefaultModel is used when GoogleConfig.Model is empty.
const GoogleDefaultModel = "gemini-2.0-flash-exp"

// GoogleConfig configures a GoogleJudge.
type GoogleConfig struct {
	APIKey string `validate:"required"`
	Model  string
}

// GoogleJudge implements ports.Judge via the Gemini API, using the same
// strict-JSON verdict contract as AnthropicJudge and OpenAIJudge.
type GoogleJudge struct {
	client *genai.Client
	model  string
}

// NewGoogleJudge creates a GoogleJudge from cfg.
func NewGoogleJudge(ctx context.Context, cfg GoogleConfig) (*GoogleJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llmjudge: google API key cannot be empty")
	}

	model := cfg.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("llmjudge: failed to create google client: %w", err)
	}

	return &GoogleJudge{client: client, model: model}, nil
}

// Compare implements ports.Judge.
func (j *GoogleJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	content := []*genai.Content{
		genai.NewContentFromText(comparisonPrompt(first, second, criteria), genai.RoleUser),
	}

	resp, err := j.client.Models.GenerateContent(ctx, j.model, content, nil)
	if err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: google request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: empty response from Google API")
	}

	return parseVerdict(text)
}
