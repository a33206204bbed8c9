package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/jprivillaso/family-tree-agent/internal/util"
	"github.com/jprivillaso/family-tree-agent/pkg/ai"
	"github.com/jprivillaso/family-tree-agent/pkg/cypher"
	"github.com/jprivillaso/family-tree-agent/pkg/graph"
	"github.com/jprivillaso/family-tree-agent/pkg/index"
	"github.com/jprivillaso/family-tree-agent/pkg/logger"
	"github.com/jprivillaso/family-tree-agent/pkg/narrate"
)

const searchK = 5

// Pipeline holds the retrieval resources for one configured mode. Exactly
// one of the two retrieval paths is populated: the vector path (embedder +
// index) or the graph path (synthesizer + executor).
type Pipeline struct {
	generator ai.TextGenerator

	// vector path
	embedder ai.Embedder
	index    *index.Index
	floor    float64

	// graph path
	synthesizer *cypher.Synthesizer
	executor    *graph.Executor

	tokenBudget int
}

// Answer routes the question through whichever retrieval path this pipeline
// carries, then composes the final answer.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, error) {
	if p.index != nil {
		return p.answerVector(ctx, question)
	}
	return p.answerGraph(ctx, question)
}

func (p *Pipeline) answerVector(ctx context.Context, question string) (string, error) {
	queryVec, err := p.embedder.GenerateEmbedding(ctx, []byte(question))
	if err != nil {
		return "", err
	}

	hits := p.index.Search(queryVec, searchK)
	kept := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < p.floor {
			continue
		}
		kept = append(kept, hit.Text)
	}
	logger.Debug("vector retrieval", "hits", len(hits), "kept", len(kept))

	contextText := util.TruncateTokens(strings.Join(kept, "\n"), p.tokenBudget)

	answer, err := Compose(ctx, p.generator, question, contextText)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) && contextText != "" {
			logger.Warn("answer generation failed, returning retrieved context", "error", err)
			return contextText, nil
		}
		return "", err
	}
	return answer, nil
}

func (p *Pipeline) answerGraph(ctx context.Context, question string) (string, error) {
	query, err := p.synthesizer.GenerateQuery(ctx, question)
	if err != nil {
		return "", err
	}

	rows, err := p.executor.Execute(ctx, query, nil)
	if err != nil {
		return "", err
	}

	narration := narrate.Narrate(rows, question)
	contextText := util.TruncateTokens(narration, p.tokenBudget)

	answer, err := Compose(ctx, p.generator, question, contextText)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			// Degrade to the raw row rendering rather than failing the request.
			logger.Warn("answer generation failed, returning narration", "error", err)
			return narration, nil
		}
		return "", err
	}
	return answer, nil
}
