// Package output persists ranked recommendations as JSON files and reads
// them back for the viewer. The writer is the pipeline's only sink; the
// reader never touches CSVs or the model.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
)

const userFile = "user_recommendations.json"

// Entry is one ranked (user, item) pairing as serialized to disk.
type Entry struct {
	UserID   string   `json:"user_id"`
	ItemID   string   `json:"item_id"`
	ItemType string   `json:"item_type"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}

// GroupedLists holds one user's ranked lists keyed by item type.
type GroupedLists struct {
	Events []Entry `json:"events"`
	Jobs   []Entry `json:"jobs"`
	Posts  []Entry `json:"posts"`
}

// UserRecommendations is the per-user aggregate record.
type UserRecommendations struct {
	UserID          string       `json:"user_id"`
	Recommendations GroupedLists `json:"recommendations"`
}

// Repository reads and writes recommendation JSON under a directory.
type Repository struct {
	dir string
}

// New creates an output repository rooted at dir.
func New(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the output directory.
func (r *Repository) Dir() string { return r.dir }

// TypePath returns the flat per-type file path (event_recommendations.json, ...).
func (r *Repository) TypePath(typ entity.Type) string {
	return filepath.Join(r.dir, typ.String()+"_recommendations.json")
}

// UserPath returns the per-user aggregate file path.
func (r *Repository) UserPath() string {
	return filepath.Join(r.dir, userFile)
}

// Write persists all four output files. results is keyed by user id, then
// item type, each list already ranked. Users are emitted in ascending id
// order so identical inputs produce byte-identical files.
func (r *Repository) Write(results map[string]map[entity.Type][]recommendation.Recommendation) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	userIDs := make([]string, 0, len(results))
	for id := range results {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, typ := range entity.ItemTypes() {
		flat := make([]Entry, 0)
		for _, userID := range userIDs {
			flat = append(flat, toEntries(results[userID][typ])...)
		}
		if err := r.writeJSON(r.TypePath(typ), flat); err != nil {
			return err
		}
	}

	aggregate := make([]UserRecommendations, 0, len(userIDs))
	for _, userID := range userIDs {
		aggregate = append(aggregate, UserRecommendations{
			UserID: userID,
			Recommendations: GroupedLists{
				Events: toEntries(results[userID][entity.Event]),
				Jobs:   toEntries(results[userID][entity.Job]),
				Posts:  toEntries(results[userID][entity.Post]),
			},
		})
	}
	return r.writeJSON(r.UserPath(), aggregate)
}

// LoadByType reads the flat ranked list for one item type.
func (r *Repository) LoadByType(typ entity.Type) ([]Entry, error) {
	var entries []Entry
	if err := r.readJSON(r.TypePath(typ), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadUsers returns the user ids present in the output, in file order.
func (r *Repository) LoadUsers() ([]string, error) {
	aggregate, err := r.loadAggregate()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(aggregate))
	for _, rec := range aggregate {
		ids = append(ids, rec.UserID)
	}
	return ids, nil
}

// LoadUser returns one user's grouped lists. Unknown ids fail with
// domain.ErrNotFound.
func (r *Repository) LoadUser(userID string) (UserRecommendations, error) {
	aggregate, err := r.loadAggregate()
	if err != nil {
		return UserRecommendations{}, err
	}
	for _, rec := range aggregate {
		if rec.UserID == userID {
			return rec, nil
		}
	}
	return UserRecommendations{}, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
}

func (r *Repository) loadAggregate() ([]UserRecommendations, error) {
	var aggregate []UserRecommendations
	if err := r.readJSON(r.UserPath(), &aggregate); err != nil {
		return nil, err
	}
	return aggregate, nil
}

func (r *Repository) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (r *Repository) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, domain.ErrNotFound)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func toEntries(recs []recommendation.Recommendation) []Entry {
	entries := make([]Entry, 0, len(recs))
	for i := range recs {
		reasons := recs[i].Reasons()
		if reasons == nil {
			reasons = []string{}
		}
		entries = append(entries, Entry{
			UserID:   recs[i].UserID(),
			ItemID:   recs[i].ItemID(),
			ItemType: recs[i].ItemType().String(),
			Score:    recs[i].Score(),
			Reasons:  reasons,
		})
	}
	return entries
}
