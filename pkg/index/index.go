package index

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyCorpus is returned when an index is built from zero documents.
var ErrEmptyCorpus = errors.New("cannot build index from empty corpus")

// Document pairs a flattened entity text with its embedding vector.
// Documents are immutable once the index is built.
type Document struct {
	Text      string
	Embedding []float32
}

// Result is one similarity hit: the stored text and its cosine score
// against the query vector.
type Result struct {
	Text  string
	Score float64
}

// Index is an in-memory embedding index. It is built once from a full batch
// of documents and is read-only afterwards, so it is safe for concurrent
// readers without locking.
type Index struct {
	documents []Document
}

// Build creates an Index over the given documents. It fails with
// ErrEmptyCorpus if documents is empty.
func Build(documents []Document) (*Index, error) {
	if len(documents) == 0 {
		return nil, ErrEmptyCorpus
	}
	docs := make([]Document, len(documents))
	copy(docs, documents)
	return &Index{documents: docs}, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return len(idx.documents)
}

// Search returns the k documents most similar to query by cosine similarity,
// in descending score order. Ties keep the original insertion order. If k
// exceeds the corpus size the full corpus is returned, ordered by score.
func (idx *Index) Search(query []float32, k int) []Result {
	if k < 1 {
		return nil
	}

	results := make([]Result, len(idx.documents))
	for i, doc := range idx.documents {
		results[i] = Result{
			Text:  doc.Text,
			Score: CosineSimilarity(query, doc.Embedding),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// CosineSimilarity computes the cosine of the angle between a and b by
// L2-normalizing both sides and taking the dot product. Mismatched lengths
// compare over the shorter prefix; a zero vector yields 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
