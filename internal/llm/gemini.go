package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

const (
	DefaultTextModel   = "gemini-1.5-flash"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Algenib"
)

// GeminiConfig selects credentials and model identifiers.
type GeminiConfig struct {
	APIKey      string
	TextModel   string
	SpeechModel string
	Voice       string
}

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli         *genai.Client
	textModel   string
	speechModel string
	voice       string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm: gemini API key is empty")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &GeminiClient{
		cli:         cli,
		textModel:   firstNonEmpty(cfg.TextModel, DefaultTextModel),
		speechModel: firstNonEmpty(cfg.SpeechModel, DefaultSpeechModel),
		voice:       firstNonEmpty(cfg.Voice, DefaultVoice),
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.textModel }

// GenerateJSON sends the prompt plus any inline media and requests
// application/json constrained by call.Schema.
func (g *GeminiClient) GenerateJSON(ctx context.Context, call Call) (json.RawMessage, error) {
	parts := []*genai.Part{genai.NewPartFromText(call.Prompt)}
	for _, m := range call.Media {
		parts = append(parts, genai.NewPartFromBytes(m.Data, m.MIMEType))
	}
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if call.Schema != nil {
		cfg.ResponseSchema = call.Schema
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.textModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		cfg,
	)
	if err != nil {
		return nil, fmt.Errorf("llm: generate %s: %w", phaseOf(ctx, call), err)
	}
	txt := strings.TrimSpace(responseText(resp))
	if txt == "" {
		return nil, ErrEmptyResult
	}
	txt = stripFence(txt)
	if !json.Valid([]byte(txt)) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(txt), nil
}

// GenerateSpeech synthesises text with the prebuilt voice. The returned
// media is whatever the model emits, normally raw 24kHz 16-bit PCM.
func (g *GeminiClient) GenerateSpeech(ctx context.Context, text string) (Media, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.voice},
			},
		},
	}
	resp, err := g.cli.Models.GenerateContent(ctx, g.speechModel,
		[]*genai.Content{genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(text)}, genai.RoleUser)},
		cfg,
	)
	if err != nil {
		return Media{}, fmt.Errorf("llm: generate speech: %w", err)
	}
	for _, p := range firstParts(resp) {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return Media{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}, nil
		}
	}
	return Media{}, ErrEmptyResult
}

func firstParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return nil
	}
	return c.Content.Parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, p := range firstParts(resp) {
		if p != nil && p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// stripFence removes a ```json ... ``` wrapper some models add despite the
// MIME type.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
