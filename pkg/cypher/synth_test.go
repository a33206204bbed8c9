package cypher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jprivillaso/family-tree-agent/pkg/ai"
)

type fakeGenerator struct {
	output string
	err    error
	prompt string
}

func (f *fakeGenerator) GenerateCompletion(_ context.Context, prompt string, _ ...ai.GenerateOption) (string, error) {
	f.prompt = prompt
	return f.output, f.err
}

func TestGenerateQuery_SanitizesOutput(t *testing.T) {
	gen := &fakeGenerator{
		output: "```cypher\nMATCH path = shortest_path((a:Person {name: 'X'})-[*..10]-(b:Person {name: 'Y'})) RETURN path\n```",
	}
	s := NewSynthesizer(NewSynthesizerParams{Generator: gen, MaxDepth: 10})

	query, err := s.GenerateQuery(context.Background(), "How are X and Y related?")
	if err != nil {
		t.Fatalf("GenerateQuery() error = %v", err)
	}
	if strings.Contains(query, "```") {
		t.Fatalf("GenerateQuery() left fence markers: %q", query)
	}
	if !strings.Contains(query, "shortestPath") {
		t.Fatalf("GenerateQuery() left misspelling: %q", query)
	}
}

func TestGenerateQuery_PromptCarriesCatalogAndQuestion(t *testing.T) {
	gen := &fakeGenerator{output: "MATCH (p:Person) RETURN p"}
	s := NewSynthesizer(NewSynthesizerParams{Generator: gen, MaxDepth: 4})

	if _, err := s.GenerateQuery(context.Background(), "Who is Alice?"); err != nil {
		t.Fatalf("GenerateQuery() error = %v", err)
	}
	if !strings.Contains(gen.prompt, "PARENT_OF") || !strings.Contains(gen.prompt, "MARRIED_TO") {
		t.Fatalf("prompt missing schema catalog:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "*1..4") {
		t.Fatalf("prompt missing configured depth bound:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Who is Alice?") {
		t.Fatalf("prompt missing question:\n%s", gen.prompt)
	}
}

func TestGenerateQuery_Errors(t *testing.T) {
	t.Run("generation failure", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("provider down")}
		s := NewSynthesizer(NewSynthesizerParams{Generator: gen, MaxDepth: 10})

		_, err := s.GenerateQuery(context.Background(), "q")
		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) {
			t.Fatalf("GenerateQuery() error = %T, want *SynthesisError", err)
		}
		if synthErr.Unwrap() == nil {
			t.Fatalf("SynthesisError should wrap the provider error")
		}
	})

	t.Run("empty output", func(t *testing.T) {
		gen := &fakeGenerator{output: "```\n```"}
		s := NewSynthesizer(NewSynthesizerParams{Generator: gen, MaxDepth: 10})

		_, err := s.GenerateQuery(context.Background(), "q")
		var synthErr *SynthesisError
		if !errors.As(err, &synthErr) {
			t.Fatalf("GenerateQuery() error = %T, want *SynthesisError", err)
		}
	})
}
