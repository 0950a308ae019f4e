package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"reactodo/clients"
)

// titleGenerationTimeout bounds the LLM call. A slow generation degrades to
// the fallback title upstream, it never blocks the pipeline.
const titleGenerationTimeout = 10 * time.Second

const titlePrompt = "Summarize the following Slack message as a short to-do title " +
	"(at most 8 words, no quotes, no trailing punctuation):\n\n%s"

// AnthropicClient implements the clients.TitleGenerator interface using the
// Anthropic SDK
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates a new title generation client
func NewAnthropicClient(apiKey string) clients.TitleGenerator {
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// disabledTitleGenerator is used when no API key is configured. It produces
// no title, so every task gets the fallback title downstream.
type disabledTitleGenerator struct{}

// NewDisabledTitleGenerator creates a generator for deployments without an
// Anthropic API key
func NewDisabledTitleGenerator() clients.TitleGenerator {
	return &disabledTitleGenerator{}
}

func (g *disabledTitleGenerator) GenerateTitle(ctx context.Context, messageText string) (string, error) {
	return "", nil
}

// GenerateTitle asks the model for a short task title for the given message text
func (c *AnthropicClient) GenerateTitle(ctx context.Context, messageText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, titleGenerationTimeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_5HaikuLatest,
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(titlePrompt, messageText))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	var title strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			title.WriteString(block.Text)
		}
	}

	return strings.TrimSpace(title.String()), nil
}
