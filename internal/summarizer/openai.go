package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/xaenox/notedesk/internal/models"
	"go.uber.org/zap"
)

// promptPrefix matches the instruction the reference system sends ahead of
// the note content.
const promptPrefix = "Summarize this note:\n\n"

type OpenAISummarizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewOpenAISummarizer(apiKey string, model string, maxTokens int, temperature float64, logger *zap.Logger) *OpenAISummarizer {
	return &OpenAISummarizer{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: promptPrefix + text,
				},
			},
			MaxTokens:   s.maxTokens,
			Temperature: float32(s.temperature),
		},
	)
	if err != nil {
		s.logger.Error("Failed to get summary", zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrSummarizationUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", models.ErrSummarizationUnavailable)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
