// Package profile builds the per-entity text document fed into the vector
// space, and owns the tokenizer shared with the scorer.
package profile

import (
	"strings"

	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/schema"
)

// Build concatenates the entity's profile fields in schema order, separated
// by single spaces. Empty fields contribute nothing. Pure function: identical
// field values always produce identical documents.
func Build(sch schema.Schema, e entity.Entity) string {
	var parts []string
	for _, f := range sch.ProfileFields() {
		if v := e.Field(f.Name()); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

var punctReplacer = strings.NewReplacer(
	",", " ", ".", " ", "!", " ", "?", " ", ":", " ", ";", " ",
	"(", " ", ")", " ", "[", " ", "]", " ", "/", " ", "\"", " ", "'", " ",
)

// Tokenize lowercases and splits a document on whitespace and punctuation.
func Tokenize(doc string) []string {
	return strings.Fields(punctReplacer.Replace(strings.ToLower(doc)))
}

// TokenSet returns the unique tokens of a document.
func TokenSet(doc string) map[string]struct{} {
	tokens := Tokenize(doc)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
