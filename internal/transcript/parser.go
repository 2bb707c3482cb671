package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/mhansen003/scrum-of-scrums-dashboard/internal/model"
)

// systemPrompt instructs the model to emit the exact JSON shape the
// decoder expects. The "Respond ONLY with JSON" instruction reduces, but
// does not eliminate, markdown fences around the payload; the decoder
// strips them anyway.
const systemPrompt = `You are a scrum-of-scrums assistant. Extract a weekly status report from the meeting transcript.

Respond ONLY with JSON in exactly this shape:
{
  "reportDate": "YYYY-MM-DD",
  "teams": [
    {
      "teamName": "string",
      "teamLead": "string",
      "accomplishments": [{"description": "string", "ticketId": null}],
      "goals": [{"description": "string", "ticketId": null}],
      "blockers": [{"description": "string", "workaround": null}],
      "risks": [{"description": "string", "severity": "low|medium|high", "mitigation": null}]
    }
  ]
}

Rules:
- One entry per team discussed in the transcript.
- ticketId is the numeric ticket identifier when one is mentioned, otherwise null.
- Use empty arrays for categories the team did not mention.
- Do not invent teams, items, or dates that are not in the transcript.`

// Parser extracts a structured report from a free-form transcript.
type Parser interface {
	// Parse extracts one report from the transcript text.
	Parse(ctx context.Context, transcript string) (*model.ParsedReport, error)
}

// completer is the part of the OpenAI client the parser uses.
// Narrowing to one method lets tests substitute a canned responder.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIParser extracts reports via the OpenAI chat-completion API.
// Any provider speaking the same wire protocol (OpenRouter, local
// gateways) works through the base URL override.
type OpenAIParser struct {
	client  completer
	model   string
	baseURL string
	logger  *slog.Logger

	// now supplies the fallback report date when the model omits one.
	now func() time.Time
}

// OpenAIParserOption configures an OpenAIParser.
type OpenAIParserOption func(*OpenAIParser)

// WithModel sets the provider model used for extraction.
func WithModel(model string) OpenAIParserOption {
	return func(p *OpenAIParser) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL points the client at a different OpenAI-compatible
// endpoint. Empty means the provider default.
func WithBaseURL(baseURL string) OpenAIParserOption {
	return func(p *OpenAIParser) {
		p.baseURL = baseURL
	}
}

// WithTranscriptLogger sets a custom logger for the parser.
func WithTranscriptLogger(logger *slog.Logger) OpenAIParserOption {
	return func(p *OpenAIParser) {
		p.logger = logger
	}
}

// WithCompleter substitutes the completion backend. Used by tests.
func WithCompleter(c completer) OpenAIParserOption {
	return func(p *OpenAIParser) {
		p.client = c
	}
}

// NewOpenAIParser creates a parser authenticated with the given API key.
// The key is held only by the underlying client and never logged.
func NewOpenAIParser(apiKey string, opts ...OpenAIParserOption) *OpenAIParser {
	p := &OpenAIParser{
		model: openai.GPT4oMini,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	if p.client == nil {
		cfg := openai.DefaultConfig(apiKey)
		if p.baseURL != "" {
			cfg.BaseURL = p.baseURL
		}
		p.client = openai.NewClientWithConfig(cfg)
	}

	return p
}

// Parse sends the transcript to the provider and decodes the response.
func (p *OpenAIParser) Parse(ctx context.Context, transcript string) (*model.ParsedReport, error) {
	p.logger.Info("extracting report from transcript",
		"model", p.model,
		"transcriptBytes", len(transcript),
	)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("transcript extraction request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("transcript extraction returned no choices")
	}

	wire, err := decodeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	report := p.normalize(wire)
	p.logger.Info("transcript extracted",
		"teams", len(report.Teams),
		"periodEnd", report.PeriodEndDate.Format("2006-01-02"),
	)
	return report, nil
}
