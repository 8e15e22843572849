// Package schema defines per-entity-type canonical field schemas with
// ordered column alias lists.
package schema

import (
	"fmt"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
)

// Kind classifies a canonical field.
type Kind string

// Field kinds.
const (
	Identifier  Kind = "identifier"
	Text        Kind = "text"
	Categorical Kind = "categorical"
)

// Field is one canonical field with its accepted source column aliases,
// in resolution order (first match wins).
type Field struct {
	name      string
	kind      Kind
	inProfile bool
	aliases   []string
}

// NewField creates a canonical field. The canonical name itself is always
// the first accepted alias.
func NewField(name string, kind Kind, inProfile bool, aliases ...string) Field {
	all := make([]string, 0, len(aliases)+1)
	all = append(all, name)
	all = append(all, aliases...)
	return Field{name: name, kind: kind, inProfile: inProfile, aliases: all}
}

// Name returns the canonical field name.
func (f Field) Name() string { return f.name }

// Kind returns the field kind.
func (f *Field) Kind() Kind { return f.kind }

// InProfile reports whether the field contributes to the text profile.
func (f *Field) InProfile() bool { return f.inProfile }

// Aliases returns the accepted column names in resolution order.
func (f *Field) Aliases() []string { return f.aliases }

// Resolve returns the first alias value present in the record.
func (f *Field) Resolve(record map[string]string) (string, bool) {
	for _, alias := range f.aliases {
		if v, ok := record[alias]; ok {
			return v, true
		}
	}
	return "", false
}

// Schema is the ordered canonical field set for one entity type.
type Schema struct {
	entityType entity.Type
	fields     []Field
}

// New validates and creates a Schema. A schema needs exactly one identifier
// field, unique canonical names, and a non-empty alias list per field.
func New(entityType entity.Type, fields []Field) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("%w: schema for %s has no fields", domain.ErrInvalidSchema, entityType)
	}
	seen := make(map[string]bool, len(fields))
	identifiers := 0
	for _, f := range fields {
		if f.name == "" {
			return Schema{}, fmt.Errorf("%w: schema for %s has a field with no name", domain.ErrInvalidSchema, entityType)
		}
		if seen[f.name] {
			return Schema{}, fmt.Errorf("%w: duplicate canonical field %q in %s schema", domain.ErrInvalidSchema, f.name, entityType)
		}
		seen[f.name] = true
		if len(f.aliases) == 0 {
			return Schema{}, fmt.Errorf("%w: field %q in %s schema has no aliases", domain.ErrInvalidSchema, f.name, entityType)
		}
		if f.kind == Identifier {
			identifiers++
		}
	}
	if identifiers != 1 {
		return Schema{}, fmt.Errorf("%w: schema for %s needs exactly one identifier field, has %d",
			domain.ErrInvalidSchema, entityType, identifiers)
	}
	return Schema{entityType: entityType, fields: fields}, nil
}

// EntityType returns the entity type the schema describes.
func (s *Schema) EntityType() entity.Type { return s.entityType }

// Fields returns the canonical fields in schema order.
func (s *Schema) Fields() []Field { return s.fields }

// Identifier returns the identifier field.
func (s *Schema) Identifier() Field {
	for _, f := range s.fields {
		if f.kind == Identifier {
			return f
		}
	}
	return Field{}
}

// ProfileFields returns the text profile fields in concatenation order.
func (s *Schema) ProfileFields() []Field {
	var out []Field
	for _, f := range s.fields {
		if f.inProfile {
			out = append(out, f)
		}
	}
	return out
}

// ForType returns the built-in schema for an entity type. The alias lists
// mirror the column variants seen in the source datasets.
func ForType(t entity.Type) (Schema, error) {
	switch t {
	case entity.User:
		return New(entity.User, []Field{
			NewField("user_id", Identifier, false, "id"),
			NewField("university", Text, true),
			NewField("degree", Text, true, "degree_program"),
			NewField("interests", Text, true, "exams_subjects"),
			NewField("bio", Text, true),
			NewField("city", Text, true),
		})
	case entity.Event:
		return New(entity.Event, []Field{
			NewField("event_id", Identifier, false, "id"),
			NewField("title", Text, true),
			NewField("description", Text, true),
			NewField("category", Categorical, false),
			NewField("tags", Categorical, false),
			NewField("city", Text, true),
		})
	case entity.Job:
		return New(entity.Job, []Field{
			NewField("job_id", Identifier, false, "id"),
			NewField("title", Text, true),
			NewField("description", Text, true),
			NewField("company", Text, true),
			NewField("category", Categorical, false),
			NewField("tags", Categorical, false),
			NewField("city", Text, true),
		})
	case entity.Post:
		return New(entity.Post, []Field{
			NewField("post_id", Identifier, false, "id"),
			NewField("title", Text, true),
			NewField("content", Text, true),
			NewField("category", Categorical, false),
			NewField("tags", Categorical, false),
			NewField("city", Text, true),
		})
	default:
		return Schema{}, fmt.Errorf("%w: no built-in schema for entity type %q", domain.ErrInvalidSchema, t)
	}
}
