// Package feedback simulates like/dislike events over a recommendation list
// and applies the resulting score adjustments. Pure simulation: never real
// user feedback, and skippable without affecting the rest of the pipeline.
package feedback

import (
	"math/rand"

	domfb "github.com/kindredhq/kindred/internal/domain/feedback"
	"github.com/kindredhq/kindred/internal/domain/recommendation"
)

// Simulator samples synthetic feedback with configured probabilities.
type Simulator struct {
	positiveRatio float64
	negativeRatio float64
	likeWeight    float64
	dislikeWeight float64
}

// New creates a simulator. likeWeight is the additive boost for a like,
// dislikeWeight the (negative) penalty for a dislike.
func New(positiveRatio, negativeRatio, likeWeight, dislikeWeight float64) *Simulator {
	return &Simulator{
		positiveRatio: positiveRatio,
		negativeRatio: negativeRatio,
		likeWeight:    likeWeight,
		dislikeWeight: dislikeWeight,
	}
}

// Simulate draws one sample per recommendation from the injected source:
// dislike with probability negativeRatio, like with probability
// positiveRatio, otherwise no event. The rand source must be seeded by the
// caller so runs are reproducible.
func (s *Simulator) Simulate(recs []recommendation.Recommendation, rng *rand.Rand) []domfb.Event {
	var events []domfb.Event
	for i := range recs {
		r := rng.Float64()
		switch {
		case r < s.negativeRatio:
			events = append(events, domfb.New(
				recs[i].UserID(), recs[i].ItemID(), recs[i].ItemType(),
				domfb.Dislike, s.dislikeWeight,
			))
		case r < s.negativeRatio+s.positiveRatio:
			events = append(events, domfb.New(
				recs[i].UserID(), recs[i].ItemID(), recs[i].ItemType(),
				domfb.Like, s.likeWeight,
			))
		}
	}
	return events
}

// Apply adjusts matching recommendations by each event's magnitude, appends
// the feedback reason, and re-sorts the list. The input slice is not mutated.
func (s *Simulator) Apply(recs []recommendation.Recommendation, events []domfb.Event) []recommendation.Recommendation {
	type key struct {
		userID   string
		itemID   string
		itemType string
	}

	adjustments := make(map[key]domfb.Event, len(events))
	for _, ev := range events {
		adjustments[key{ev.UserID(), ev.ItemID(), ev.ItemType().String()}] = ev
	}

	out := make([]recommendation.Recommendation, 0, len(recs))
	for i := range recs {
		rec := recs[i]
		if ev, ok := adjustments[key{rec.UserID(), rec.ItemID(), rec.ItemType().String()}]; ok {
			reason := recommendation.ReasonFeedbackLiked
			if ev.Polarity() == domfb.Dislike {
				reason = recommendation.ReasonFeedbackDisliked
			}
			rec = rec.WithAdjustment(ev.Magnitude(), reason)
		}
		out = append(out, rec)
	}

	recommendation.Sort(out)
	return out
}
