// Package models defines the lead record, its identifiers, and the status timeline.
package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrNotFound is returned when a todo or wait index is past the end of its list.
var ErrNotFound = errors.New("not found")

// now is the clock NewLead reads.
var now = time.Now

// Todo is an action the candidate owes, due by Deadline.
type Todo struct {
	Action   string    `json:"action" yaml:"action"`
	Deadline time.Time `json:"deadline" yaml:"deadline"`
}

// Wait is an action owed by the counterparty. Expected is optional.
type Wait struct {
	Action   string     `json:"action" yaml:"action"`
	Expected *time.Time `json:"expected,omitempty" yaml:"expected,omitempty"`
}

// Phase selects which side of an interview a note belongs to.
type Phase int

const (
	// PhasePre holds preparation notes.
	PhasePre Phase = iota
	// PhasePost holds debrief notes.
	PhasePost
)

func (p Phase) String() string {
	if p == PhasePost {
		return "post"
	}
	return "pre"
}

// Interview holds the notes taken before and after one interview.
type Interview struct {
	PreNotes  []string `json:"pre_notes,omitempty" yaml:"pre_notes,omitempty"`
	PostNotes []string `json:"post_notes,omitempty" yaml:"post_notes,omitempty"`
}

// InterviewEntry pairs an interview with its name. Entries are identified by
// position, so two entries may share a name.
type InterviewEntry struct {
	Name      InterviewName
	Interview Interview
}

// Lead is one position at one company. It has no identity of its own: callers
// address it by company name and index within that company.
type Lead struct {
	Position      string              `json:"position" yaml:"position"`
	Source        string              `json:"source" yaml:"source"`
	Notes         map[string][]string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Interviews    []InterviewEntry    `json:"interviews,omitempty" yaml:"interviews,omitempty"`
	RedFlags      []string            `json:"red_flags,omitempty" yaml:"red_flags,omitempty"`
	StatusUpdates Timeline            `json:"status_updates,omitzero" yaml:"status_updates,omitempty"`
	Todo          []Todo              `json:"todo,omitempty" yaml:"todo,omitempty"`
	Wait          []Wait              `json:"wait,omitempty" yaml:"wait,omitempty"`
}

// NewLead creates a lead and seeds its timeline with "Created" at the current
// instant.
func NewLead(position, source string) Lead {
	l := Lead{Position: position, Source: source}
	l.StatusUpdates.Set(now(), "Created")
	return l
}

// AddNote appends text to the notes of category, creating the category on
// first use.
func (l *Lead) AddNote(category, text string) {
	if l.Notes == nil {
		l.Notes = make(map[string][]string)
	}
	l.Notes[category] = append(l.Notes[category], text)
}

// AddStatus records text at the given instant, replacing any message already
// stored at exactly that instant.
func (l *Lead) AddStatus(at time.Time, text string) {
	l.StatusUpdates.Set(at, text)
}

// AddRedFlag appends a warning sign about the lead.
func (l *Lead) AddRedFlag(text string) {
	l.RedFlags = append(l.RedFlags, text)
}

// AddTodo records an action the candidate owes.
func (l *Lead) AddTodo(at time.Time, action string, deadline time.Time) {
	l.AddStatus(at, "TODO: "+action)
	l.Todo = append(l.Todo, Todo{Action: action, Deadline: deadline})
}

// CompleteTodo removes the todo at index and logs it as done.
func (l *Lead) CompleteTodo(at time.Time, index int) (Todo, error) {
	if index < 0 || index >= len(l.Todo) {
		return Todo{}, fmt.Errorf("%w: todo %d (%d pending)", ErrNotFound, index, len(l.Todo))
	}
	done := l.Todo[index]
	l.Todo = slices.Delete(l.Todo, index, index+1)
	l.AddStatus(at, "DONE: "+done.Action)
	return done, nil
}

// AddWait records an action owed by the counterparty. expected may be nil.
func (l *Lead) AddWait(at time.Time, action string, expected *time.Time) {
	l.AddStatus(at, "WAITING: "+action)
	l.Wait = append(l.Wait, Wait{Action: action, Expected: expected})
}

// CompleteWait removes the wait at index and logs it as received.
func (l *Lead) CompleteWait(at time.Time, index int) (Wait, error) {
	if index < 0 || index >= len(l.Wait) {
		return Wait{}, fmt.Errorf("%w: wait %d (%d pending)", ErrNotFound, index, len(l.Wait))
	}
	got := l.Wait[index]
	l.Wait = slices.Delete(l.Wait, index, index+1)
	l.AddStatus(at, "RECEIVED: "+got.Action)
	return got, nil
}

// NewInterview appends a fresh interview entry and returns its index.
func (l *Lead) NewInterview(name InterviewName) int {
	l.Interviews = append(l.Interviews, InterviewEntry{Name: name})
	return len(l.Interviews) - 1
}

// FindInterview returns the index of the most recent interview called name,
// or -1.
func (l *Lead) FindInterview(name InterviewName) int {
	for i := len(l.Interviews) - 1; i >= 0; i-- {
		if l.Interviews[i].Name == name {
			return i
		}
	}
	return -1
}

// AddInterviewNote appends text to the most recent interview called name,
// starting a new entry when there is none. It returns the entry's index.
func (l *Lead) AddInterviewNote(name InterviewName, phase Phase, text string) int {
	i := l.FindInterview(name)
	if i < 0 {
		i = l.NewInterview(name)
	}
	iv := &l.Interviews[i].Interview
	if phase == PhasePost {
		iv.PostNotes = append(iv.PostNotes, text)
	} else {
		iv.PreNotes = append(iv.PreNotes, text)
	}
	return i
}

// LastStatus returns the latest timeline entry.
func (l *Lead) LastStatus() (StatusUpdate, bool) {
	return l.StatusUpdates.Last()
}
