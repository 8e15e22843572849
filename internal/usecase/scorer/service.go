// Package scorer computes similarity scores with explainable boosts and the
// popularity fallback for cold-start users.
package scorer

import (
	"sort"
	"strings"

	"github.com/kindredhq/kindred/internal/domain"
	"github.com/kindredhq/kindred/internal/domain/entity"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
	"github.com/kindredhq/kindred/internal/usecase/profile"
	"github.com/kindredhq/kindred/internal/usecase/vectorspace"
)

// Boosts holds the additive boost weights. Configuration defaults, not
// algorithmic truths.
type Boosts struct {
	City     float64
	Category float64
	Tag      float64
}

// Service scores (user, item) pairs against a fitted vector space.
type Service struct {
	model      vectorspace.Model
	users      map[string]entity.Entity
	items      map[entity.Type][]entity.Entity
	popularity map[entity.Type]map[string]float64
	boosts     Boosts
	topN       int
}

// New creates a scorer over a fitted model. Item slices are re-sorted by id
// and per-type popularity scores are precomputed once.
func New(
	model vectorspace.Model, users []entity.Entity,
	items map[entity.Type][]entity.Entity, boosts Boosts, topN int,
) *Service {
	userIndex := make(map[string]entity.Entity, len(users))
	for _, u := range users {
		userIndex[u.ID()] = u
	}

	sorted := make(map[entity.Type][]entity.Entity, len(items))
	popularity := make(map[entity.Type]map[string]float64, len(items))
	for typ, list := range items {
		catalog := make([]entity.Entity, len(list))
		copy(catalog, list)
		sort.Slice(catalog, func(i, j int) bool { return catalog[i].ID() < catalog[j].ID() })
		sorted[typ] = catalog
		popularity[typ] = popularityScores(catalog)
	}

	return &Service{
		model: model, users: userIndex, items: sorted,
		popularity: popularity, boosts: boosts, topN: topN,
	}
}

// ColdStart reports whether the user has no usable profile signal, i.e. a
// zero term vector in the fitted space.
func (s *Service) ColdStart(userID string) bool {
	vec, ok := s.model.Vector(entity.User, userID)
	return !ok || vec.IsZero()
}

// Recommend scores every item of the given type for one user and returns the
// top-N recommendations, ranked descending by score with item id as tiebreak.
func (s *Service) Recommend(userID string, itemType entity.Type) ([]recommendation.Recommendation, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.NewUnknownUser(userID)
	}
	userVec, ok := s.model.Vector(entity.User, userID)
	if !ok {
		return nil, domain.NewUnknownUser(userID)
	}

	catalog := s.items[itemType]
	if len(catalog) == 0 {
		return nil, domain.NewEmptyCatalog(itemType.String())
	}

	coldStart := userVec.IsZero()
	userCity := strings.ToLower(strings.TrimSpace(user.City()))
	userCategories := profile.TokenSet(user.Category())
	userTags := tagSet(user.Tags())

	recs := make([]recommendation.Recommendation, 0, len(catalog))
	for _, item := range catalog {
		var score float64
		reasons := make([]string, 0, 4)

		if coldStart {
			// Text carries no signal: rank purely by catalog popularity,
			// identical for every cold-start user.
			score = s.popularity[itemType][item.ID()]
			reasons = append(reasons, recommendation.ReasonPopularity)
		} else {
			itemVec, _ := s.model.Vector(itemType, item.ID())
			score = userVec.Dot(itemVec)
			reasons = append(reasons, recommendation.ReasonTextSimilarity)
		}

		if userCity != "" && userCity == strings.ToLower(strings.TrimSpace(item.City())) {
			score += s.boosts.City
			reasons = append(reasons, recommendation.ReasonCityMatch)
		}
		if intersects(userCategories, profile.TokenSet(item.Category())) {
			score += s.boosts.Category
			reasons = append(reasons, recommendation.ReasonCategoryMatch)
		}
		if intersects(userTags, tagSet(item.Tags())) {
			score += s.boosts.Tag
			reasons = append(reasons, recommendation.ReasonSharedTags)
		}

		recs = append(recs, recommendation.New(userID, item.ID(), itemType, score, reasons))
	}

	recommendation.Sort(recs)
	if len(recs) > s.topN {
		recs = recs[:s.topN]
	}
	return recs, nil
}

// popularityScores derives a [0,1] popularity score per item from tag count
// and description length, min-max normalized across the catalog.
func popularityScores(catalog []entity.Entity) map[string]float64 {
	if len(catalog) == 0 {
		return map[string]float64{}
	}

	raw := make(map[string]float64, len(catalog))
	vmin, vmax := 0.0, 0.0
	for i, item := range catalog {
		tagCount := len(item.Tags())
		if tagCount < 1 {
			tagCount = 1
		}
		v := float64(tagCount) + float64(len(item.Description()))/1000.0
		raw[item.ID()] = v
		if i == 0 || v < vmin {
			vmin = v
		}
		if i == 0 || v > vmax {
			vmax = v
		}
	}

	if vmax > vmin {
		for id, v := range raw {
			raw[id] = (v - vmin) / (vmax - vmin)
		}
	}
	return raw
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
