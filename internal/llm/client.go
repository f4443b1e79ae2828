// Package llm wraps the Gemini API as the language-model collaborator
// behind the coaching and extraction engines.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resume-coach/internal/domain/resume"
)

const defaultModel = "gemini-2.0-flash"

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// NextTurn sends the dialogue as chat history under the given system
// instruction and returns the model's reply. The last turn must be the
// user's; it becomes the outgoing message.
func (c *Client) NextTurn(ctx context.Context, system string, conversation []resume.Turn) (string, error) {
	if len(conversation) == 0 {
		return "", fmt.Errorf("empty conversation")
	}
	last := conversation[len(conversation)-1]
	if last.Role != resume.RoleUser {
		return "", fmt.Errorf("conversation must end with a user turn")
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	cs := model.StartChat()
	for _, t := range conversation[:len(conversation)-1] {
		role := "user"
		if t.Role == resume.RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return textFromResponse(resp)
}

// Generate issues a single-shot completion.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	return textFromResponse(resp)
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp.UsageMetadata != nil {
		slog.Info("LLM API call",
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from LLM")
	}

	return string(text), nil
}
