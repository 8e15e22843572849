// Package recommendation defines the ranked recommendation value object.
package recommendation

import (
	"sort"

	"github.com/kindredhq/kindred/internal/domain/entity"
)

// Reason strings surfaced to the caller, in the fixed emission order:
// similarity or popularity first, then city, category, tag, then feedback.
const (
	ReasonTextSimilarity   = "text-based similarity"
	ReasonPopularity       = "popularity fallback"
	ReasonCityMatch        = "city match"
	ReasonCategoryMatch    = "category match"
	ReasonSharedTags       = "shared tags"
	ReasonFeedbackLiked    = "feedback: liked (simulated)"
	ReasonFeedbackDisliked = "feedback: disliked (simulated)"
)

// Recommendation is a single ranked (user, item) pairing (immutable value object).
type Recommendation struct {
	userID   string
	itemID   string
	itemType entity.Type
	score    float64
	reasons  []string
}

// New creates a recommendation.
func New(userID, itemID string, itemType entity.Type, score float64, reasons []string) Recommendation {
	return Recommendation{
		userID: userID, itemID: itemID, itemType: itemType,
		score: score, reasons: cloneReasons(reasons),
	}
}

// UserID returns the user the recommendation is for.
func (r *Recommendation) UserID() string { return r.userID }

// ItemID returns the recommended item identifier.
func (r *Recommendation) ItemID() string { return r.itemID }

// ItemType returns the recommended item type.
func (r *Recommendation) ItemType() entity.Type { return r.itemType }

// Score returns the final ranking score.
func (r Recommendation) Score() float64 { return r.score }

// Reasons returns the applied reason strings in emission order.
func (r Recommendation) Reasons() []string { return r.reasons }

// WithAdjustment returns a copy with the score shifted by delta (floored at
// zero) and a reason appended.
func (r *Recommendation) WithAdjustment(delta float64, reason string) Recommendation {
	score := r.score + delta
	if score < 0 {
		score = 0
	}
	reasons := make([]string, 0, len(r.reasons)+1)
	reasons = append(reasons, r.reasons...)
	reasons = append(reasons, reason)
	return Recommendation{
		userID: r.userID, itemID: r.itemID, itemType: r.itemType,
		score: score, reasons: reasons,
	}
}

// Sort orders recommendations descending by score, ties broken by item id
// ascending so output is deterministic.
func Sort(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].score != recs[j].score {
			return recs[i].score > recs[j].score
		}
		return recs[i].itemID < recs[j].itemID
	})
}

func cloneReasons(reasons []string) []string {
	if reasons == nil {
		return nil
	}
	c := make([]string, len(reasons))
	copy(c, reasons)
	return c
}
