// Package feedback defines the synthetic feedback event value object.
package feedback

import "github.com/kindredhq/kindred/internal/domain/entity"

// Polarity is the direction of a feedback event.
type Polarity string

// Polarities.
const (
	Like    Polarity = "like"
	Dislike Polarity = "dislike"
)

// Event is one synthetic feedback sample. Ephemeral: consumed immediately to
// adjust a recommendation's score, never persisted.
type Event struct {
	userID    string
	itemID    string
	itemType  entity.Type
	polarity  Polarity
	magnitude float64
}

// New creates a feedback event.
func New(userID, itemID string, itemType entity.Type, polarity Polarity, magnitude float64) Event {
	return Event{userID: userID, itemID: itemID, itemType: itemType, polarity: polarity, magnitude: magnitude}
}

// UserID returns the user that produced the feedback.
func (e *Event) UserID() string { return e.userID }

// ItemID returns the item the feedback targets.
func (e *Event) ItemID() string { return e.itemID }

// ItemType returns the item type.
func (e *Event) ItemType() entity.Type { return e.itemType }

// Polarity returns the feedback direction.
func (e *Event) Polarity() Polarity { return e.polarity }

// Magnitude returns the signed score adjustment carried by the event.
func (e *Event) Magnitude() float64 { return e.magnitude }
