package cypher

import (
	"regexp"
	"strings"
)

// codeFence strips a leading ``` marker (with optional language tag) and a
// trailing ``` marker from generated output.
var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:cypher)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// shortestPathTypo matches the misspellings the model produces for the
// shortestPath keyword: wrong casing and a stray underscore.
var shortestPathTypo = regexp.MustCompile(`(?i)shortest_?path`)

// siblingMissingParen matches the sibling-template defect where the closing
// parenthesis of the last node pattern is dropped before WHERE or RETURN.
var siblingMissingParen = regexp.MustCompile(`->\((\w+):Person(\s+(?:WHERE|RETURN))`)

// Sanitize applies the deterministic repairs to a generated query: fence
// stripping, shortestPath spelling, and the sibling-template parenthesis
// defect. It is a pure function and idempotent; sanitizing an already-clean
// query is a no-op.
func Sanitize(query string) string {
	q := strings.TrimSpace(query)
	q = leadingFence.ReplaceAllString(q, "")
	q = trailingFence.ReplaceAllString(q, "")
	q = strings.TrimSpace(q)

	q = shortestPathTypo.ReplaceAllString(q, "shortestPath")
	q = siblingMissingParen.ReplaceAllString(q, "->($1:Person)$2")

	return q
}
