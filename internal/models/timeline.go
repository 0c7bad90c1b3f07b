package models

import (
	"slices"
	"time"
)

// StatusUpdate is one entry of a lead's narrative log.
type StatusUpdate struct {
	At      time.Time
	Message string
}

// Timeline is a list of status updates kept in ascending time order with at
// most one message per instant.
type Timeline struct {
	entries []StatusUpdate
}

// TimestampLayout is the key format of persisted timelines.
const TimestampLayout = time.RFC3339Nano

// Set stores msg at the instant at. A message already stored at that exact
// instant is replaced.
func (t *Timeline) Set(at time.Time, msg string) {
	at = at.UTC()
	i, found := slices.BinarySearchFunc(t.entries, at, func(e StatusUpdate, target time.Time) int {
		return e.At.Compare(target)
	})
	if found {
		t.entries[i].Message = msg
		return
	}
	t.entries = slices.Insert(t.entries, i, StatusUpdate{At: at, Message: msg})
}

// Get returns the message stored at the instant at.
func (t Timeline) Get(at time.Time) (string, bool) {
	i, found := slices.BinarySearchFunc(t.entries, at, func(e StatusUpdate, target time.Time) int {
		return e.At.Compare(target)
	})
	if !found {
		return "", false
	}
	return t.entries[i].Message, true
}

// Entries returns a copy of the updates, oldest first.
func (t Timeline) Entries() []StatusUpdate {
	return slices.Clone(t.entries)
}

// Len returns the number of updates.
func (t Timeline) Len() int { return len(t.entries) }

// IsZero reports whether the timeline is empty. Encoders use it to omit the
// field.
func (t Timeline) IsZero() bool { return len(t.entries) == 0 }

// Last returns the most recent update.
func (t Timeline) Last() (StatusUpdate, bool) {
	if len(t.entries) == 0 {
		return StatusUpdate{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Equal reports whether both timelines hold the same messages at the same
// instants.
func (t Timeline) Equal(other Timeline) bool {
	return slices.EqualFunc(t.entries, other.entries, func(a, b StatusUpdate) bool {
		return a.At.Equal(b.At) && a.Message == b.Message
	})
}
