package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/summarizer"
	openai "github.com/sashabaranov/go-openai"
)

const derivePrompt = `You are given the transcript of a spoken journaling session.
Return a JSON object with exactly these keys:
- "title": a short, specific title for the journal entry (max 8 words)
- "summary": 2-4 sentences summarizing what the user shared, in third person
- "cleaned_text": the user's side of the conversation rewritten as a flowing first-person journal entry, with filler words removed and nothing invented`

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(cfg OpenAIConfig) summarizer.Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (s *OpenAISummarizer) Derive(ctx context.Context, turns []conversation.Turn) (summarizer.Derivation, error) {
	transcript := buildTranscriptText(turns)
	if transcript == "" {
		return summarizer.Derivation{}, errors.New("empty transcript")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: derivePrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return summarizer.Derivation{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return summarizer.Derivation{}, errors.New("completion returned no choices")
	}

	var out struct {
		Title       string `json:"title"`
		Summary     string `json:"summary"`
		CleanedText string `json:"cleaned_text"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return summarizer.Derivation{}, fmt.Errorf("parse completion response: %w", err)
	}
	if out.Title == "" && out.Summary == "" {
		return summarizer.Derivation{}, errors.New("completion response missing title and summary")
	}

	return summarizer.Derivation{
		Summary:     out.Summary,
		Title:       out.Title,
		CleanedText: out.CleanedText,
	}, nil
}

func buildTranscriptText(turns []conversation.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", t.Speaker, t.Text))
	}
	return strings.Join(lines, "\n")
}
