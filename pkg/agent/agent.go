package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/semaphore"

	"github.com/jprivillaso/family-tree-agent/internal/config"
	"github.com/jprivillaso/family-tree-agent/pkg/ai"
	"github.com/jprivillaso/family-tree-agent/pkg/corpus"
	"github.com/jprivillaso/family-tree-agent/pkg/cypher"
	"github.com/jprivillaso/family-tree-agent/pkg/graph"
	"github.com/jprivillaso/family-tree-agent/pkg/index"
	"github.com/jprivillaso/family-tree-agent/pkg/logger"
	"github.com/jprivillaso/family-tree-agent/pkg/neo4j"
)

// Status is the lifecycle state of the agent. The transition out of
// Uninitialized happens exactly once, at construction; a Degraded agent
// stays degraded until the process restarts.
type Status int

const (
	StatusReady Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "degraded"
}

// ErrDegraded reports that the pipeline never became usable.
var ErrDegraded = errors.New("pipeline initialization failed")

// Health is the read-only introspection of the agent's state.
type Health struct {
	Status Status
	Detail string
}

// Agent is the long-lived wrapper around one pipeline instance. It performs
// the expensive initialization once, serializes all question traffic, and
// answers in degraded mode instead of crashing when initialization fails.
//
// An Agent should be created using New.
type Agent struct {
	status Status
	reason string

	pipeline *Pipeline

	askSlot *semaphore.Weighted
	timeout time.Duration
}

// NewParams defines the collaborators for creating an Agent. GraphClient may
// be nil in vector mode.
type NewParams struct {
	Config      *config.Config
	AIClient    ai.Client
	GraphClient *neo4j.Client
}

// New builds the agent and runs the one-time initialization for the
// configured retrieval mode: load and embed the corpus (vector), or verify
// store connectivity (graph). Initialization failure produces a degraded
// agent rather than an error; the host process keeps running.
func New(ctx context.Context, params NewParams) *Agent {
	cfg := params.Config
	a := &Agent{
		askSlot: semaphore.NewWeighted(1),
		timeout: time.Duration(cfg.AskTimeoutSeconds) * time.Second,
	}

	pipeline, err := buildPipeline(ctx, params)
	if err != nil {
		logger.Error("initialization failed, entering degraded mode", "error", err)
		a.status = StatusDegraded
		a.reason = err.Error()
		return a
	}

	a.status = StatusReady
	a.pipeline = pipeline
	logger.Info("agent ready", "mode", cfg.RetrievalMode)
	return a
}

func buildPipeline(ctx context.Context, params NewParams) (*Pipeline, error) {
	cfg := params.Config
	p := &Pipeline{
		generator:   params.AIClient,
		tokenBudget: cfg.ContextTokenBudget,
	}

	switch cfg.RetrievalMode {
	case config.ModeVector:
		idx, err := buildIndex(ctx, cfg.CorpusPath, params.AIClient)
		if err != nil {
			return nil, err
		}
		p.embedder = params.AIClient
		p.index = idx
		p.floor = cfg.RelevanceFloor

	case config.ModeGraph:
		if params.GraphClient == nil {
			return nil, fmt.Errorf("graph mode requires a graph store client")
		}
		if err := params.GraphClient.Ping(ctx); err != nil {
			return nil, fmt.Errorf("graph store unreachable: %w", err)
		}
		p.synthesizer = cypher.NewSynthesizer(cypher.NewSynthesizerParams{
			Generator: params.AIClient,
			MaxDepth:  cfg.MaxTraversalDepth,
		})
		p.executor = graph.NewExecutor(params.GraphClient)

	default:
		return nil, fmt.Errorf("unknown retrieval mode %q", cfg.RetrievalMode)
	}

	return p, nil
}

// buildIndex loads the corpus, embeds every flattened entity document, and
// builds the in-memory index. Embedding runs as one batch first and falls
// back to one-at-a-time calls if the batch call fails.
func buildIndex(ctx context.Context, path string, embedder ai.Embedder) (*index.Index, error) {
	people, err := corpus.Load(path)
	if err != nil {
		return nil, err
	}

	texts := make([][]byte, len(people))
	for i, person := range people {
		texts[i] = []byte(corpus.Flatten(person))
	}

	vectors, err := embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		logger.Warn("batch embedding failed, falling back to per-document calls", "error", err)
		vectors = make([][]float32, len(texts))
		for i, text := range texts {
			vec, err := embedder.GenerateEmbedding(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("embed document %d: %w", i, err)
			}
			vectors[i] = vec
		}
	}

	documents := make([]index.Document, len(texts))
	for i := range texts {
		documents[i] = index.Document{Text: string(texts[i]), Embedding: vectors[i]}
	}

	idx, err := index.Build(documents)
	if err != nil {
		return nil, err
	}
	logger.Info("embedding index built", "documents", idx.Len())
	return idx, nil
}

// Ask answers one question. The caller always receives a string: a
// substantive answer, a refusal or no-results sentence, or an explicit
// failure message. Questions are serialized; at most one is in flight at a
// time, bounded by the configured timeout.
func (a *Agent) Ask(ctx context.Context, question string) string {
	if a.status == StatusDegraded {
		return fmt.Sprintf("service unavailable: %s", a.reason)
	}

	qid, err := gonanoid.New()
	if err != nil {
		qid = "unknown"
	}

	askCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.askSlot.Acquire(askCtx, 1); err != nil {
		return fmt.Sprintf("failed to answer question: %v", err)
	}
	defer a.askSlot.Release(1)

	logger.Debug("question received", "qid", qid)
	answer, err := a.answer(askCtx, question)
	if err != nil {
		logger.Error("question failed", "qid", qid, "error", err)
		return fmt.Sprintf("failed to answer question: %v", err)
	}
	return answer
}

// answer delegates to the pipeline, converting panics from deep inside the
// retrieval stack into ordinary errors.
func (a *Agent) answer(ctx context.Context, question string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()
	return a.pipeline.Answer(ctx, question)
}

// Health reports the agent's state without doing any work.
func (a *Agent) Health() Health {
	detail := "pipeline initialized"
	if a.status == StatusDegraded {
		detail = a.reason
	}
	return Health{Status: a.status, Detail: detail}
}
