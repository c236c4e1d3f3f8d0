package plan

import "time"

const (
	EventEntryAdded   = "plan.entry_added"
	EventEntryRemoved = "plan.entry_removed"
)

// EntryEvent is raised when a recipe is scheduled in, or removed from, a
// user's plan.
type EntryEvent struct {
	Name     string
	UserID   uint
	PlanID   uint
	EntryID  uint
	RecipeID uint
	At       time.Time
}

func (e EntryEvent) EventName() string     { return e.Name }
func (e EntryEvent) OccurredAt() time.Time { return e.At }
func (e EntryEvent) OwnerID() uint         { return e.UserID }

// NewEntryAdded builds the event for a freshly stored entry.
func NewEntryAdded(userID uint, entry Entry) EntryEvent {
	return EntryEvent{
		Name:     EventEntryAdded,
		UserID:   userID,
		PlanID:   entry.PlanID,
		EntryID:  entry.ID,
		RecipeID: entry.RecipeID,
		At:       time.Now().UTC(),
	}
}

// NewEntryRemoved builds the event for a deleted entry.
func NewEntryRemoved(userID uint, entry Entry) EntryEvent {
	e := NewEntryAdded(userID, entry)
	e.Name = EventEntryRemoved
	return e
}
