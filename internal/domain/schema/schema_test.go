package schema

import (
	"errors"
	"testing"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{"no fields", nil},
		{"no identifier", []Field{NewField("title", Text, true)}},
		{"two identifiers", []Field{
			NewField("a_id", Identifier, false),
			NewField("b_id", Identifier, false),
		}},
		{"duplicate canonical name", []Field{
			NewField("user_id", Identifier, false),
			NewField("city", Text, true),
			NewField("city", Text, true),
		}},
		{"unnamed field", []Field{
			NewField("user_id", Identifier, false),
			NewField("", Text, true),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(entity.User, tc.fields)
			if err == nil {
				t.Fatal("expected schema validation error")
			}
			if !errors.Is(err, domain.ErrInvalidSchema) {
				t.Errorf("error %v does not wrap ErrInvalidSchema", err)
			}
		})
	}
}

func TestResolve_FirstAliasWins(t *testing.T) {
	f := NewField("degree", Text, true, "degree_program")

	record := map[string]string{"degree": "BSc", "degree_program": "MSc"}
	if v, ok := f.Resolve(record); !ok || v != "BSc" {
		t.Errorf("Resolve = %q,%v; want canonical name first", v, ok)
	}

	record = map[string]string{"degree_program": "MSc"}
	if v, ok := f.Resolve(record); !ok || v != "MSc" {
		t.Errorf("Resolve = %q,%v; want alias fallback", v, ok)
	}

	if _, ok := f.Resolve(map[string]string{"other": "x"}); ok {
		t.Error("Resolve should miss when no alias is present")
	}
}

func TestForType_BuiltinsValid(t *testing.T) {
	for _, typ := range []entity.Type{entity.User, entity.Event, entity.Job, entity.Post} {
		t.Run(typ.String(), func(t *testing.T) {
			s, err := ForType(typ)
			if err != nil {
				t.Fatalf("ForType(%s): %v", typ, err)
			}
			if s.Identifier().Name() == "" {
				t.Error("built-in schema missing identifier")
			}
			if len(s.ProfileFields()) == 0 {
				t.Error("built-in schema has no profile fields")
			}
		})
	}

	if _, err := ForType(entity.Type("movie")); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestForType_ProfileOrder(t *testing.T) {
	s, err := ForType(entity.Job)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	var names []string
	for _, f := range s.ProfileFields() {
		names = append(names, f.Name())
	}
	want := []string{"title", "description", "company", "city"}
	if len(names) != len(want) {
		t.Fatalf("profile fields = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("profile fields = %v, want %v", names, want)
		}
	}
}

func TestForType_UserAliases(t *testing.T) {
	s, err := ForType(entity.User)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	for _, f := range s.Fields() {
		if f.Name() != "interests" {
			continue
		}
		record := map[string]string{"exams_subjects": "algebra"}
		if v, ok := f.Resolve(record); !ok || v != "algebra" {
			t.Errorf("interests should accept exams_subjects alias, got %q,%v", v, ok)
		}
		return
	}
	t.Fatal("user schema missing interests field")
}
