package graph

import (
	"strconv"

	"github.com/jprivillaso/family-tree-agent/pkg/neo4j"
)

// Row is one normalized result row: one entry per returned column, values
// reduced to scalars or attribute maps.
type Row map[string]any

// personProps is the optional-property allowlist copied onto normalized
// person entries when present and non-empty.
var personProps = []string{"birth_date", "death_date", "bio", "location", "occupation"}

// Shape classifies a normalized row by structural inspection.
type Shape int

const (
	ShapeGeneric Shape = iota
	ShapePerson
	ShapePath
	ShapeAggregate
	ShapeScalar
)

// ShapeOf inspects a row once at the normalization boundary and tags it.
// Dispatch order matters: a path row also carries person-like values.
func ShapeOf(row Row) Shape {
	if _, ok := row["path"]; ok {
		if _, ok := row["relationship_types"]; ok {
			return ShapePath
		}
	}
	if name, ok := row["name"].(string); ok && name != "" {
		return ShapePerson
	}
	if len(row) == 1 {
		for _, v := range row {
			switch v.(type) {
			case []any:
				return ShapeAggregate
			case map[string]any, Row:
				return ShapeGeneric
			default:
				return ShapeScalar
			}
		}
	}
	return ShapeGeneric
}

// Normalize reshapes a raw tabular response into uniform rows. It is total:
// every documented payload shape maps to some row, and an empty result set
// maps to an empty list. Rows are zipped positionally against the result
// set's columns; when no columns are present, cells are keyed by position.
func Normalize(resp *neo4j.Response) []Row {
	rows := []Row{}
	if resp == nil {
		return rows
	}
	for _, result := range resp.Results {
		for _, datum := range result.Data {
			rows = append(rows, normalizeRow(result.Columns, datum.Row))
		}
	}
	return rows
}

func normalizeRow(columns []string, cells []any) Row {
	row := Row{}
	for i, cell := range cells {
		key := ""
		if i < len(columns) {
			key = columns[i]
		}
		if key == "" {
			key = strconv.Itoa(i)
		}
		row[key] = normalizeValue(cell)
	}

	for key, value := range row {
		if isEmpty(value) {
			delete(row, key)
		}
	}

	// A single-column row holding one entity collapses to that entity's
	// attribute map; the column name carries no information downstream.
	if len(row) == 1 {
		for _, value := range row {
			if inner, ok := value.(Row); ok {
				return inner
			}
			if inner, ok := value.(map[string]any); ok {
				return Row(inner)
			}
		}
	}
	return row
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if name, ok := v["name"].(string); ok && name != "" {
			person := Row{"name": name, "type": "Person"}
			for _, prop := range personProps {
				if pv, ok := v[prop]; ok && !isEmpty(pv) {
					person[prop] = pv
				}
			}
			return person
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case Row:
		return len(v) == 0
	default:
		return false
	}
}
