// Package entity defines the catalog entity value object shared across layers.
package entity

import (
	"fmt"
	"strings"
)

// Type identifies the kind of entity a record describes.
type Type string

// Entity types.
const (
	User  Type = "user"
	Event Type = "event"
	Job   Type = "job"
	Post  Type = "post"
)

// ItemTypes lists the recommendable (non-user) entity types in output order.
func ItemTypes() []Type {
	return []Type{Event, Job, Post}
}

// Parse converts a string to a Type.
func Parse(s string) (Type, error) {
	switch Type(strings.ToLower(s)) {
	case User:
		return User, nil
	case Event:
		return Event, nil
	case Job:
		return Job, nil
	case Post:
		return Post, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// String returns the type name.
func (t Type) String() string { return string(t) }

// Plural returns the type name used for output grouping keys ("events", "jobs", "posts").
func (t Type) Plural() string { return string(t) + "s" }

// Entity is a normalized user or catalog item (immutable value object).
// Fields hold canonical field values keyed by canonical field name; boost
// attributes (city, category, tags) are kept raw for the scorer.
type Entity struct {
	id     string
	typ    Type
	fields map[string]string
}

// New validates and creates an Entity. The id must be non-empty.
func New(id string, typ Type, fields map[string]string) (Entity, error) {
	if strings.TrimSpace(id) == "" {
		return Entity{}, fmt.Errorf("entity ID is required")
	}
	return Entity{id: id, typ: typ, fields: cloneFields(fields)}, nil
}

// Reconstruct creates an Entity without validation (normalizer hydration).
func Reconstruct(id string, typ Type, fields map[string]string) Entity {
	return Entity{id: id, typ: typ, fields: fields}
}

// ID returns the entity identifier.
func (e *Entity) ID() string { return e.id }

// Type returns the entity type.
func (e *Entity) Type() Type { return e.typ }

// Field returns a canonical field value ("" when absent).
func (e *Entity) Field(name string) string { return e.fields[name] }

// City returns the raw city attribute.
func (e *Entity) City() string { return e.fields["city"] }

// Category returns the raw category attribute. Users carry their interests
// string here so category overlap can be checked symmetrically.
func (e *Entity) Category() string {
	if e.typ == User {
		return e.fields["interests"]
	}
	return e.fields["category"]
}

// Tags returns the raw tag list, split on the ";" separator used by the
// source datasets, trimmed and lowercased. Users derive tags from interests,
// which use "," as separator.
func (e *Entity) Tags() []string {
	raw := e.fields["tags"]
	sep := ";"
	if e.typ == User {
		raw = e.fields["interests"]
		sep = ","
	}
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, sep) {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Description returns the long-form text used by the popularity heuristic.
// Posts store it under "content", other items under "description".
func (e *Entity) Description() string {
	if e.typ == Post {
		return e.fields["content"]
	}
	return e.fields["description"]
}

func cloneFields(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
