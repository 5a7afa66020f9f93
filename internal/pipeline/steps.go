package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-parser/internal/extractor"
)

// PipelineStep is a single stage of the statement parsing pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
// It is owned by one pipeline run and discarded afterwards.
type PipelineState struct {
	PDFBytes  []byte
	Document  *extractor.ExtractedDocument
	RawOutput map[string]interface{}
	Result    *ValidationResult
}

// ExtractStep pulls text and tables out of the uploaded PDF.
type ExtractStep struct{}

func (s *ExtractStep) Execute(ctx context.Context, state *PipelineState) error {
	doc, err := extractor.Extract(state.PDFBytes)
	if err != nil {
		return err
	}
	state.Document = doc
	return nil
}

// ParseStep sends the extracted text to the AI model.
type ParseStep struct {
	Parser StatementParser
}

func (s *ParseStep) Execute(ctx context.Context, state *PipelineState) error {
	rawOutput, err := s.Parser.ParseStatement(ctx, state.Document.FullText)
	if err != nil {
		return err
	}
	state.RawOutput = rawOutput
	return nil
}

// ValidateStep normalizes the raw model output. It cannot fail.
type ValidateStep struct{}

func (s *ValidateStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Result = Validate(state.RawOutput)
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for _, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// NewStatementPipeline creates the standard extract-parse-validate
// pipeline for credit-card statements.
func NewStatementPipeline(parser StatementParser) *Pipeline {
	return NewPipeline(
		&ExtractStep{},
		&ParseStep{Parser: parser},
		&ValidateStep{},
	)
}

// ParseStatementPDF runs one PDF through the full pipeline and returns
// the normalized result together with the extracted document. All
// three error kinds (extraction, model, parse) abort before
// normalization runs.
func ParseStatementPDF(ctx context.Context, parser StatementParser, pdfBytes []byte) (*ValidationResult, *extractor.ExtractedDocument, error) {
	if parser == nil {
		return nil, nil, fmt.Errorf("ParseStatementPDF: nil parser")
	}

	state := &PipelineState{PDFBytes: pdfBytes}
	if err := NewStatementPipeline(parser).Execute(ctx, state); err != nil {
		return nil, state.Document, err
	}
	return state.Result, state.Document, nil
}
