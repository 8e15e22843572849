// Package vectorspace fits a TF-IDF vocabulary over the full document corpus
// and transforms every document into an L2-normalized sparse term vector.
package vectorspace

import (
	"math"

	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/vector"
	"github.com/kindredhq/kindred/internal/usecase/profile"
)

// Document is one corpus entry: an entity's id, type and profile text.
type Document struct {
	ID   string
	Type entity.Type
	Text string
}

// Vocabulary maps terms to dense indices with per-term document frequencies.
// Indices are assigned in first-seen corpus order, so fitting the same corpus
// always yields the same vocabulary.
type Vocabulary struct {
	index   map[string]int
	df      []int
	numDocs int
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int { return len(v.index) }

// Index returns the dense index of a term.
func (v *Vocabulary) Index(term string) (int, bool) {
	idx, ok := v.index[term]
	return idx, ok
}

// Transform converts a document into a TF-IDF vector over the vocabulary,
// L2-normalized. Documents with no recognized terms yield a zero vector,
// which is the cold-start signal downstream.
func (v *Vocabulary) Transform(text string) vector.Vector {
	tokens := profile.Tokenize(text)
	if len(tokens) == 0 {
		return vector.Vector{}
	}

	counts := make(map[int]float64)
	known := 0
	for _, tok := range tokens {
		if idx, ok := v.index[tok]; ok {
			counts[idx]++
			known++
		}
	}
	if known == 0 {
		return vector.Vector{}
	}

	vec := make(vector.Vector, len(counts))
	total := float64(len(tokens))
	for idx, count := range counts {
		tf := count / total
		idf := math.Log(1 + float64(v.numDocs)/(1+float64(v.df[idx])))
		vec[idx] = tf * idf
	}
	return vec.Normalize()
}

// Model is the fitted vector space: the vocabulary plus one term vector per
// entity, keyed by type and id. It is owned by one pipeline run and passed by
// value into the scorer; there is no ambient global state.
type Model struct {
	vocab   *Vocabulary
	vectors map[entity.Type]map[string]vector.Vector
}

// Fit builds the vocabulary over all documents (users and items together, in
// one pass) and transforms each document. Deterministic for identical input.
func Fit(docs []Document) Model {
	vocab := &Vocabulary{index: make(map[string]int), numDocs: len(docs)}

	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, tok := range profile.Tokenize(doc.Text) {
			idx, ok := vocab.index[tok]
			if !ok {
				idx = len(vocab.index)
				vocab.index[tok] = idx
				vocab.df = append(vocab.df, 0)
			}
			if !seen[tok] {
				vocab.df[idx]++
				seen[tok] = true
			}
		}
	}

	vectors := make(map[entity.Type]map[string]vector.Vector)
	for _, doc := range docs {
		byID, ok := vectors[doc.Type]
		if !ok {
			byID = make(map[string]vector.Vector)
			vectors[doc.Type] = byID
		}
		byID[doc.ID] = vocab.Transform(doc.Text)
	}

	return Model{vocab: vocab, vectors: vectors}
}

// Vocabulary returns the fitted vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// Vector returns the fitted term vector for an entity.
func (m *Model) Vector(typ entity.Type, id string) (vector.Vector, bool) {
	byID, ok := m.vectors[typ]
	if !ok {
		return nil, false
	}
	vec, ok := byID[id]
	return vec, ok
}
