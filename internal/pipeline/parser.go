package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"google.golang.org/genai"

	"github.com/dvloznov/statement-parser/internal/config"
)

// GeminiParser extracts structured statement data with the Gemini API.
// The credential is passed in at construction; there is no ambient
// configuration.
type GeminiParser struct {
	client *genai.Client
	model  string
	repair bool
}

var _ StatementParser = (*GeminiParser)(nil)

// NewGeminiParser creates a parser from the given configuration.
// It fails up front when no API key is configured, so nothing ever
// attempts a model call without a credential.
func NewGeminiParser(ctx context.Context, cfg *config.Config) (*GeminiParser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiParser: create genai client: %w", err)
	}

	return &GeminiParser{
		client: client,
		model:  cfg.GeminiModel,
		repair: cfg.RepairJSON,
	}, nil
}

// ParseStatement sends the statement text to Gemini and parses the
// response as a JSON object. A single call, no retry, no timeout
// beyond whatever the caller's context carries.
func (p *GeminiParser) ParseStatement(ctx context.Context, text string) (map[string]interface{}, error) {
	prompt := buildStatementPrompt(text)

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		return nil, &ModelError{Err: err}
	}

	raw := resp.Text()
	if raw == "" {
		return nil, &ModelError{Err: fmt.Errorf("empty response from model")}
	}

	return decodeModelResponse(raw, p.repair)
}

// decodeModelResponse strips an optional code fence and parses the
// remaining text as a JSON object. With repair enabled, near-JSON
// (trailing commas, single quotes, unclosed brackets) gets one
// best-effort fix before giving up.
func decodeModelResponse(raw string, repair bool) (map[string]interface{}, error) {
	clean := cleanModelJSON(raw)

	var parsed map[string]interface{}
	err := json.Unmarshal([]byte(clean), &parsed)
	if err == nil {
		return parsed, nil
	}

	if repair {
		if fixed, rerr := jsonrepair.RepairJSON(clean); rerr == nil {
			if json.Unmarshal([]byte(fixed), &parsed) == nil {
				return parsed, nil
			}
		}
	}

	return nil, &ParseError{Err: err, Raw: raw}
}
