package entity

import (
	"reflect"
	"testing"
)

func TestNew_RequiresID(t *testing.T) {
	if _, err := New("", User, nil); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := New("   ", User, nil); err == nil {
		t.Fatal("expected error for blank id")
	}
	e, err := New("u1", User, map[string]string{"city": "Austin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID() != "u1" || e.Type() != User {
		t.Errorf("got id=%q type=%q", e.ID(), e.Type())
	}
}

func TestNew_ClonesFields(t *testing.T) {
	fields := map[string]string{"city": "Austin"}
	e, err := New("u1", User, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields["city"] = "Denver"
	if e.City() != "Austin" {
		t.Errorf("entity shares caller's map: city = %q", e.City())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"user", User, false},
		{"Event", Event, false},
		{"JOB", Job, false},
		{"post", Post, false},
		{"movie", "", true},
	}

	for _, tc := range tests {
		got, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTags_ItemSemicolonSeparated(t *testing.T) {
	e := Reconstruct("e1", Event, map[string]string{"tags": "Hiking; MUSIC ;;tech"})
	got := e.Tags()
	want := []string{"hiking", "music", "tech"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestTags_UserFromInterests(t *testing.T) {
	e := Reconstruct("u1", User, map[string]string{"interests": "hiking,music"})
	got := e.Tags()
	want := []string{"hiking", "music"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestTags_Empty(t *testing.T) {
	e := Reconstruct("e1", Event, map[string]string{})
	if got := e.Tags(); got != nil {
		t.Errorf("Tags() = %v, want nil", got)
	}
}

func TestCategory_UserUsesInterests(t *testing.T) {
	u := Reconstruct("u1", User, map[string]string{"interests": "music"})
	if u.Category() != "music" {
		t.Errorf("user Category() = %q, want interests value", u.Category())
	}
	e := Reconstruct("e1", Event, map[string]string{"category": "outdoor"})
	if e.Category() != "outdoor" {
		t.Errorf("event Category() = %q", e.Category())
	}
}

func TestDescription_PostUsesContent(t *testing.T) {
	p := Reconstruct("p1", Post, map[string]string{"content": "body text"})
	if p.Description() != "body text" {
		t.Errorf("post Description() = %q", p.Description())
	}
	j := Reconstruct("j1", Job, map[string]string{"description": "role text"})
	if j.Description() != "role text" {
		t.Errorf("job Description() = %q", j.Description())
	}
}

func TestItemTypes_Order(t *testing.T) {
	want := []Type{Event, Job, Post}
	if !reflect.DeepEqual(ItemTypes(), want) {
		t.Errorf("ItemTypes() = %v, want %v", ItemTypes(), want)
	}
}

func TestPlural(t *testing.T) {
	if Event.Plural() != "events" {
		t.Errorf("Plural() = %q, want events", Event.Plural())
	}
}
