package graph

import (
	"context"

	"github.com/jprivillaso/family-tree-agent/pkg/logger"
	"github.com/jprivillaso/family-tree-agent/pkg/neo4j"
)

// Executor runs synthesized queries against the graph store and normalizes
// their tabular responses.
type Executor struct {
	client *neo4j.Client
}

// NewExecutor creates an Executor over the given store client.
func NewExecutor(client *neo4j.Client) *Executor {
	return &Executor{client: client}
}

// Execute sends the query (plus optional named parameters) to the store and
// returns the normalized rows. Transport or store failures surface as
// *neo4j.ExecutionError.
func (e *Executor) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	resp, err := e.client.Execute(ctx, neo4j.Statement{
		Statement:  query,
		Parameters: params,
	})
	if err != nil {
		return nil, err
	}

	rows := Normalize(resp)
	logger.Debug("query executed", "rows", len(rows))
	return rows, nil
}
