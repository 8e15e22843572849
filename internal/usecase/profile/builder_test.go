package profile

import (
	"reflect"
	"testing"

	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/schema"
)

func TestBuild_SchemaOrder(t *testing.T) {
	sch, err := schema.ForType(entity.Job)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	e := entity.Reconstruct("j1", entity.Job, map[string]string{
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"company":     "Acme",
		"city":        "Austin",
	})

	got := Build(sch, e)
	want := "Backend Engineer Build APIs Acme Austin"
	if got != want {
		t.Errorf("Build = %q, want %q", got, want)
	}
}

func TestBuild_EmptyFieldsContributeNothing(t *testing.T) {
	sch, err := schema.ForType(entity.Event)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	e := entity.Reconstruct("e1", entity.Event, map[string]string{
		"title": "Concert",
		"city":  "Denver",
	})

	got := Build(sch, e)
	if got != "Concert Denver" {
		t.Errorf("Build = %q, want no placeholder for empty description", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	sch, err := schema.ForType(entity.User)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	fields := map[string]string{
		"university": "UT",
		"degree":     "CS",
		"interests":  "hiking,music",
		"bio":        "Likes trails",
		"city":       "Austin",
	}
	a := entity.Reconstruct("u1", entity.User, fields)
	b := entity.Reconstruct("u2", entity.User, fields)

	if Build(sch, a) != Build(sch, b) {
		t.Error("entities with identical field values must produce identical documents")
	}
}

func TestBuild_AllEmptyYieldsEmptyDocument(t *testing.T) {
	sch, err := schema.ForType(entity.User)
	if err != nil {
		t.Fatalf("ForType: %v", err)
	}
	e := entity.Reconstruct("u1", entity.User, map[string]string{})
	if got := Build(sch, e); got != "" {
		t.Errorf("Build = %q, want empty document", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hiking, Music! and (trail-running)")
	want := []string{"hiking", "music", "and", "trail-running"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize("   "); len(got) != 0 {
		t.Errorf("Tokenize(blank) = %v, want empty", got)
	}
}

func TestTokenSet_Deduplicates(t *testing.T) {
	set := TokenSet("music music hiking")
	if len(set) != 2 {
		t.Errorf("TokenSet size = %d, want 2", len(set))
	}
	if _, ok := set["music"]; !ok {
		t.Error("TokenSet missing token")
	}
}
