package navigator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini generates lines with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini returns ErrNoGenerator when apiKey is empty so callers can
// run on fallback lines.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoGenerator
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", nil
}

func (g *Gemini) Close() error { return g.client.Close() }
