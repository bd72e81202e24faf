package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/owdb/wrestlebot/internal/models"
)

const classifierSystemPrompt = `You classify Wikipedia articles about professional wrestling.
Answer with exactly one word from this list:
wrestler, promotion, event, title, venue, stable, videogame, book, documentary, other.`

// completionClient is the one OpenAI call the classifier makes, split
// out so tests can stub it.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// PageClassifier decides what kind of entity a wrestling page describes
// before the regex heuristics run. It is strictly optional: without an
// API key the orchestrator keeps its default page handling.
type PageClassifier struct {
	client completionClient
	model  string
	logger *slog.Logger
}

// NewPageClassifier returns nil when no API key is configured.
func NewPageClassifier(apiKey string, logger *slog.Logger) *PageClassifier {
	if apiKey == "" {
		return nil
	}
	return &PageClassifier{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		logger: logger,
	}
}

// Classify returns the entity type the page most likely describes, or
// "" when the model declines or answers outside the known set.
func (c *PageClassifier) Classify(ctx context.Context, title, extract string) (models.EntityType, error) {
	if len(extract) > 1500 {
		extract = extract[:1500]
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   5,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifierSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\n%s", title, extract)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("classification returned no choices")
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch answer {
	case "wrestler", "promotion", "event", "title", "venue", "stable",
		"videogame", "book", "documentary":
		return models.EntityType(answer), nil
	}
	c.logger.Debug("classifier answer outside known set", "title", title, "answer", answer)
	return "", nil
}
