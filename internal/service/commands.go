package service

import (
	"fmt"
	"time"

	"github.com/go-ports/leads/internal/models"
)

// Target addresses a lead by company and, optionally, its index within the
// company. A nil Index selects the company's only position.
type Target struct {
	Company models.CompanyName
	Index   *int
}

func (t Target) String() string {
	if t.Index == nil {
		return t.Company.String()
	}
	return fmt.Sprintf("%s #%d", t.Company, *t.Index)
}

// index reports the position a successful resolution refers to.
func (t Target) index() int {
	if t.Index == nil {
		return 0
	}
	return *t.Index
}

// Command is a mutation of the lead stores. The set of implementations is
// closed; Run handles each of them.
type Command interface {
	command()
}

// NewLead opens a position at a company.
type NewLead struct {
	Company  models.CompanyName
	Position string
	Source   string
}

// Close ends a lead with a reason and moves it to the archive.
type Close struct {
	Target
	At     time.Time
	Reason string
}

// Note files text under a category. Details ("kind" notes) use the same path.
type Note struct {
	Target
	Category string
	Text     string
}

// Status records a free-form timeline entry.
type Status struct {
	Target
	At   time.Time
	Text string
}

// RedFlag records a warning sign.
type RedFlag struct {
	Target
	Text string
}

// PreInterview adds a preparation note to the named interview. A non-nil
// Planned also records when the interview is scheduled.
type PreInterview struct {
	Target
	At      time.Time
	Name    models.InterviewName
	Text    string
	Planned *time.Time
}

// PostInterview adds a debrief note and marks the interview as held, at
// HeldOn when given and At otherwise.
type PostInterview struct {
	Target
	At     time.Time
	Name   models.InterviewName
	Text   string
	HeldOn *time.Time
}

// AddTodo records an action the candidate owes.
type AddTodo struct {
	Target
	At       time.Time
	Action   string
	Deadline time.Time
}

// CompleteTodo marks the todo at Item done.
type CompleteTodo struct {
	Target
	At   time.Time
	Item int
}

// AddWait records an action owed by the counterparty.
type AddWait struct {
	Target
	At       time.Time
	Action   string
	Expected *time.Time
}

// CompleteWait marks the wait at Item received.
type CompleteWait struct {
	Target
	At   time.Time
	Item int
}

func (NewLead) command()       {}
func (Close) command()         {}
func (Note) command()          {}
func (Status) command()        {}
func (RedFlag) command()       {}
func (PreInterview) command()  {}
func (PostInterview) command() {}
func (AddTodo) command()       {}
func (CompleteTodo) command()  {}
func (AddWait) command()       {}
func (CompleteWait) command()  {}
