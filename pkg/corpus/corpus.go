package corpus

import (
	"fmt"
	"os"
	"strings"

	"github.com/jprivillaso/family-tree-agent/pkg/ai"
)

// Relationships is the relationship sub-structure of an entity record.
// Only the two primitives are stored: parent/child edges and a partnership.
// Everything deeper (siblings, cousins, in-laws) is derived at query time.
type Relationships struct {
	Parents  []string `json:"parents,omitempty"`
	Children []string `json:"children,omitempty"`
	Spouse   string   `json:"spouse,omitempty"`
}

// Person is one entity record from the corpus file. Name is the only
// required field.
type Person struct {
	Name          string        `json:"name"`
	BirthDate     string        `json:"birth_date,omitempty"`
	DeathDate     string        `json:"death_date,omitempty"`
	Bio           string        `json:"bio,omitempty"`
	Location      string        `json:"location,omitempty"`
	Occupation    string        `json:"occupation,omitempty"`
	Relationships Relationships `json:"relationships,omitempty"`
}

// Load reads the corpus file at path and returns its entity records.
// The file is hand-maintained, so parsing is tolerant of minor JSON defects.
func Load(path string) ([]Person, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}

	var people []Person
	if err := ai.UnmarshalFlexible(string(raw), &people); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	out := make([]Person, 0, len(people))
	for _, p := range people {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("corpus %s contains no named entities", path)
	}
	return out, nil
}

// Flatten renders a person's attributes and relationships as a single text
// blob, one document per entity, for embedding.
func Flatten(p Person) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s.", p.Name)

	appendField(&b, "Born", p.BirthDate)
	appendField(&b, "Died", p.DeathDate)
	appendField(&b, "Bio", p.Bio)
	appendField(&b, "Location", p.Location)
	appendField(&b, "Occupation", p.Occupation)

	if len(p.Relationships.Parents) > 0 {
		appendField(&b, "Parents", strings.Join(p.Relationships.Parents, ", "))
	}
	if len(p.Relationships.Children) > 0 {
		appendField(&b, "Children", strings.Join(p.Relationships.Children, ", "))
	}
	appendField(&b, "Spouse", p.Relationships.Spouse)

	return b.String()
}

func appendField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, " %s: %s.", label, value)
}
