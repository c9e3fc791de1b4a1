package genai

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/linkmagico/chatbot/pkg/openrouter"
)

// OpenRouterGenerator generates replies through the OpenRouter
// chat-completions API.
type OpenRouterGenerator struct {
	client openrouter.Client
}

// NewOpenRouter creates a generator over an OpenRouter client.
func NewOpenRouter(client openrouter.Client) *OpenRouterGenerator {
	return &OpenRouterGenerator{client: client}
}

func (g *OpenRouterGenerator) Name() string { return "openrouter" }

func (g *OpenRouterGenerator) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openrouter.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openrouter.Message{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openrouter.Message{Role: m.Role, Content: m.Content})
	}

	creq := openrouter.ChatCompletionRequest{Messages: messages}
	if req.MaxTokens > 0 {
		creq.MaxTokens = &req.MaxTokens
	}
	if req.Temperature > 0 {
		t := req.Temperature
		creq.Temperature = &t
	}

	resp, err := g.client.ChatCompletion(ctx, creq)
	if err != nil {
		return "", eris.Wrap(err, "genai: openrouter completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("genai: openrouter returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", eris.New("genai: openrouter returned empty content")
	}
	return text, nil
}
