package narrate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jprivillaso/family-tree-agent/pkg/graph"
)

// personAttrs is the fixed render order for person attributes, with the
// label used for each.
var personAttrs = []struct {
	key   string
	label string
}{
	{"birth_date", "born"},
	{"death_date", "died"},
	{"bio", "bio"},
	{"location", "location"},
	{"occupation", "occupation"},
}

// identifierKeys are tried in order when rendering an unrecognized row shape.
var identifierKeys = []string{"name", "title", "id"}

// Narrate renders normalized rows as short natural-language fragments, one
// line per row. Rows emptied by normalization are skipped; when no rows (or
// no non-empty rows) remain, the fixed no-results sentinel for the question
// is returned, never an empty string.
func Narrate(rows []graph.Row, question string) string {
	if len(rows) == 0 {
		return fmt.Sprintf("no results found for: %s", question)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		lines = append(lines, narrateRow(row))
	}
	if len(lines) == 0 {
		return fmt.Sprintf("no results found for: %s", question)
	}
	return strings.Join(lines, "\n")
}

func narrateRow(row graph.Row) string {
	switch graph.ShapeOf(row) {
	case graph.ShapePath:
		return narratePath(row)
	case graph.ShapePerson:
		return renderPerson(row)
	case graph.ShapeAggregate:
		return renderAggregate(row)
	case graph.ShapeScalar:
		return renderScalar(row)
	default:
		return renderFallback(row)
	}
}

// narratePath turns a multi-hop path row into a relationship sentence.
// Entries in the path without a name are relationship objects and are
// skipped when collecting people.
func narratePath(row graph.Row) string {
	people := pathPeople(row["path"])
	relTypes := stringList(row["relationship_types"])

	if len(people) < 2 {
		return renderFallback(row)
	}
	first := people[0]
	last := people[len(people)-1]

	if len(relTypes) == 1 && relTypes[0] == "PARENT_OF" {
		return fmt.Sprintf("%s is the parent of %s", first, last)
	}
	if len(relTypes) == 2 && relTypes[0] == "PARENT_OF" && relTypes[1] == "PARENT_OF" && len(people) == 3 {
		return fmt.Sprintf("%s is the grandparent of %s (through %s)", first, last, people[1])
	}

	return fmt.Sprintf(
		"%s is connected to %s through: %s (%d steps)",
		first, last, strings.Join(relTypes, " -> "), len(relTypes),
	)
}

func pathPeople(value any) []string {
	entries, ok := value.([]any)
	if !ok {
		return nil
	}
	people := []string{}
	for _, entry := range entries {
		var name any
		switch m := entry.(type) {
		case graph.Row:
			name = m["name"]
		case map[string]any:
			name = m["name"]
		default:
			continue
		}
		if s, ok := name.(string); ok && s != "" {
			people = append(people, s)
		}
	}
	return people
}

func stringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// renderPerson renders "<name> (born: ..., died: ..., ...)" in a fixed
// attribute order, omitting absent or empty attributes.
func renderPerson(row graph.Row) string {
	name, _ := row["name"].(string)

	parts := []string{}
	for _, attr := range personAttrs {
		value, ok := row[attr.key]
		if !ok {
			continue
		}
		s := fmt.Sprintf("%v", value)
		if s == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", attr.label, s))
	}
	if len(parts) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(parts, ", "))
}

func renderAggregate(row graph.Row) string {
	for key, value := range row {
		items, ok := value.([]any)
		if !ok {
			continue
		}
		rendered := make([]string, 0, len(items))
		for _, item := range items {
			switch m := item.(type) {
			case graph.Row:
				rendered = append(rendered, narrateRow(m))
			case map[string]any:
				rendered = append(rendered, narrateRow(graph.Row(m)))
			default:
				rendered = append(rendered, fmt.Sprintf("%v", item))
			}
		}
		return fmt.Sprintf("%s: %s", key, strings.Join(rendered, ", "))
	}
	return renderFallback(row)
}

func renderScalar(row graph.Row) string {
	for key, value := range row {
		return fmt.Sprintf("%s: %v", key, value)
	}
	return renderFallback(row)
}

// renderFallback guarantees some text for any row shape: an identifier-like
// field with up to three other fields, or the first three key/value pairs.
func renderFallback(row graph.Row) string {
	if len(row) == 0 {
		return "(no details)"
	}

	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, idKey := range identifierKeys {
		id, ok := row[idKey].(string)
		if !ok || id == "" {
			continue
		}
		parts := []string{}
		for _, key := range keys {
			if key == idKey || len(parts) >= 3 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %v", key, row[key]))
		}
		if len(parts) == 0 {
			return id
		}
		return fmt.Sprintf("%s (%s)", id, strings.Join(parts, ", "))
	}

	parts := []string{}
	for _, key := range keys {
		if len(parts) >= 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %v", key, row[key]))
	}
	return strings.Join(parts, ", ")
}
