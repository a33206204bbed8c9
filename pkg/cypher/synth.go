package cypher

import (
	"context"
	"fmt"
	"strings"

	"github.com/jprivillaso/family-tree-agent/pkg/ai"
	"github.com/jprivillaso/family-tree-agent/pkg/logger"
)

// SynthesisError reports a failed query synthesis: the generation call
// failed or returned unusable text.
type SynthesisError struct {
	Reason string
	Err    error
}

func (e *SynthesisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query synthesis failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("query synthesis failed: %s", e.Reason)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Synthesizer turns a natural-language question into a Cypher query string,
// grounded by the schema catalog.
//
// A Synthesizer should be created using NewSynthesizer.
type Synthesizer struct {
	generator ai.TextGenerator
	catalog   string
}

// NewSynthesizerParams defines the configuration for creating a Synthesizer.
// MaxDepth bounds multi-hop traversal in the catalog templates.
type NewSynthesizerParams struct {
	Generator ai.TextGenerator
	MaxDepth  int
}

// NewSynthesizer creates a Synthesizer using the given text generator.
func NewSynthesizer(params NewSynthesizerParams) *Synthesizer {
	return &Synthesizer{
		generator: params.Generator,
		catalog:   Catalog(params.MaxDepth),
	}
}

// GenerateQuery produces a sanitized Cypher query for the question. The
// result is best effort, not guaranteed syntactically valid; validity is only
// established by the executor's own failure signal.
func (s *Synthesizer) GenerateQuery(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nQuestion: %s\nCypher:", s.catalog, question)

	raw, err := s.generator.GenerateCompletion(ctx, prompt,
		ai.WithTemperature(0.0),
	)
	if err != nil {
		return "", &SynthesisError{Reason: "generation call failed", Err: err}
	}

	query := Sanitize(raw)
	if strings.TrimSpace(query) == "" {
		return "", &SynthesisError{Reason: "model returned empty query"}
	}

	logger.Debug("synthesized query", "query", query)
	return query, nil
}
