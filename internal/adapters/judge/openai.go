// Package judge provides the OpenAI-backed implementation of the
// flag-or-not verdict port.
package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/redflagduel/arena/internal/domain/verdict"
)

const systemPrompt = `Tu juges des comportements décrits par des utilisateurs. ` +
	`Réponds sur une seule ligne, en commençant par "RED:" si le comportement décrit est un red flag, ` +
	`ou "GREEN:" sinon, suivi d'une courte justification en français.`

// defaultModel is used when the config names none.
const defaultModel = openai.ChatModelGPT4oMini

// OpenAIJudge implements verdict.Judge against the OpenAI chat API.
type OpenAIJudge struct {
	client openai.Client
	model  openai.ChatModel
}

// OpenAIOption applies a configuration option to the OpenAIJudge.
type OpenAIOption func(*OpenAIJudge)

// WithModel overrides the chat model.
func WithModel(model string) OpenAIOption {
	return func(j *OpenAIJudge) {
		if model != "" {
			j.model = openai.ChatModel(model)
		}
	}
}

// NewOpenAIJudge creates a judge using the given API key.
func NewOpenAIJudge(apiKey string, opts ...OpenAIOption) *OpenAIJudge {
	j := &OpenAIJudge{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Judge asks the model for a red/green call on the submitted text.
func (j *OpenAIJudge) Judge(ctx context.Context, text string) (verdict.Color, string, error) {
	completion, err := j.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: j.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("openai judge: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", "", errors.New("openai judge: empty response")
	}
	return parseVerdict(completion.Choices[0].Message.Content)
}

// parseVerdict extracts the RED:/GREEN: prefix from the model's answer.
func parseVerdict(answer string) (verdict.Color, string, error) {
	trimmed := strings.TrimSpace(answer)
	upper := strings.ToUpper(trimmed)
	switch {
	case strings.HasPrefix(upper, "RED"):
		return verdict.ColorRed, reasonAfterPrefix(trimmed), nil
	case strings.HasPrefix(upper, "GREEN"):
		return verdict.ColorGreen, reasonAfterPrefix(trimmed), nil
	default:
		return "", "", fmt.Errorf("openai judge: unparseable answer %q", trimmed)
	}
}

func reasonAfterPrefix(answer string) string {
	if _, rest, ok := strings.Cut(answer, ":"); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}
