package llmjudge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/TomokiIshimine/llm-qualitative-sort/internal/domain"
)

// AnthropicDefaultModel is used when AnthropicConfig.Model is empty.
const AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

// AnthropicConfig configures an AnthropicJudge.
type AnthropicConfig struct {
	APIKey  string `validate:"required"`
	Model   string
	BaseURL string
}

// AnthropicJudge implements ports.Judge over a single-turn Claude message
// that asks the model to pick "A", "B", or neither and return its verdict as
// JSON.
type AnthropicJudge struct {
	client anthropic.Client
	model  string
}

// NewAnthropicJudge creates an AnthropicJudge from cfg.
func NewAnthropicJudge(cfg AnthropicConfig) (*AnthropicJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llmjudge: anthropic API key cannot be empty")
	}

	model := cfg.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicJudge{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// Compare implements ports.Judge.
func (j *AnthropicJudge) Compare(ctx context.Context, first, second, criteria string) (domain.ComparisonResult, error) {
	prompt := comparisonPrompt(first, second, criteria)

	message, err := j.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return domain.ComparisonResult{}, wrapAnthropicError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: empty response from Anthropic API")
	}

	return parseVerdict(text.String())
}

func wrapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llmjudge: anthropic API error (%d): %w", apiErr.StatusCode, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llmjudge: anthropic request timeout: %w", err)
	}
	return fmt.Errorf("llmjudge: anthropic request failed: %w", err)
}

// comparisonPrompt builds the single-turn prompt shared by every judge
// provider: present two texts in order and ask for a strict JSON verdict.
func comparisonPrompt(first, second, criteria string) string {
	return fmt.Sprintf(
		`Compare the following two items on this criterion: %s.

Item A:
%s

Item B:
%s

Respond with strict JSON only, no other text, in the form:
{"winner": "A" | "B" | "none", "reasoning": "one or two sentences"}`,
		criteria, first, second,
	)
}

type rawVerdict struct {
	Winner    string `json:"winner"`
	Reasoning string `json:"reasoning"`
}

// parseVerdict decodes a judge's strict-JSON verdict, tolerating a fenced
// code block around it, and rejects any winner token outside {"A","B","none"}.
func parseVerdict(text string) (domain.ComparisonResult, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var v rawVerdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: malformed verdict: %w", err)
	}

	var winner domain.RelativeWinner
	switch strings.ToUpper(strings.TrimSpace(v.Winner)) {
	case "A":
		winner = domain.RelativeA
	case "B":
		winner = domain.RelativeB
	case "NONE", "":
		winner = domain.RelativeNone
	default:
		return domain.ComparisonResult{}, fmt.Errorf("llmjudge: invalid winner token %q", v.Winner)
	}

	return domain.ComparisonResult{Winner: winner, Reasoning: v.Reasoning, Raw: text}, nil
}
