// Package summarizer turns email bodies into short natural-language
// summaries via the OpenAI chat-completion API.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jfields/gmail-summarizer/gmail"
)

const (
	// maxBodyChars bounds the outbound request size; longer bodies are
	// truncated before they go into the prompt.
	maxBodyChars = 4000

	maxResponseTokens = 300
	temperature       = 0.5

	systemPrompt = "You are a helpful assistant that summarizes emails concisely and accurately."

	// NoContent is returned verbatim for bodies that are empty after
	// trimming; no API call is made for those.
	NoContent = "No content to summarize"
)

// chatClient is the part of *openai.Client the summarizer uses; tests
// substitute a stub.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summary pairs one message with its generated summary text.
type Summary struct {
	MessageID string
	Subject   string
	Summary   string
}

// Summarizer generates email summaries with a fixed model.
type Summarizer struct {
	client chatClient
	model  string
}

// New creates a summarizer calling the OpenAI API with the given key.
func New(apiKey, model string) *Summarizer {
	return &Summarizer{client: openai.NewClient(apiKey), model: model}
}

// Summarize produces a summary of roughly maxWords words. It never returns
// an error: an empty body yields NoContent and any API failure yields an
// "Error generating summary: ..." placeholder, both still printable.
func (s *Summarizer) Summarize(ctx context.Context, body string, maxWords int) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return NoContent
	}
	if runes := []rune(body); len(runes) > maxBodyChars {
		body = string(runes[:maxBodyChars])
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(body, maxWords)},
		},
		MaxTokens:   maxResponseTokens,
		Temperature: temperature,
	})
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "Error generating summary: response contained no choices"
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// BatchSummarize summarizes each message in order, one Summary per input.
// Error placeholders count as summaries, so the output always lines up
// with the input.
func (s *Summarizer) BatchSummarize(ctx context.Context, messages []gmail.Message, maxWords int) []Summary {
	summaries := make([]Summary, 0, len(messages))
	for _, msg := range messages {
		summaries = append(summaries, Summary{
			MessageID: msg.ID,
			Subject:   msg.Subject,
			Summary:   s.Summarize(ctx, msg.Body, maxWords),
		})
	}
	return summaries
}

func buildPrompt(body string, maxWords int) string {
	return fmt.Sprintf(`Please summarize the following email in approximately %d words or less.
Focus on the key points, action items, and important information.

Email content:
%s

Summary:`, maxWords, body)
}
