package pipeline

import "context"

// StatementParser sends statement text to an AI model and returns the
// parsed JSON object. The interface exists so tests can mock the
// remote model.
type StatementParser interface {
	// ParseStatement builds the extraction prompt from the statement
	// text, invokes the model once, and returns its response as a
	// generic JSON object.
	ParseStatement(ctx context.Context, text string) (map[string]interface{}, error)
}
