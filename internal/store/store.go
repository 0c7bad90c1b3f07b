// Package store indexes leads by company and position.
package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-ports/leads/internal/models"
)

var (
	// ErrAmbiguous is returned when a company has several positions and none
	// was selected.
	ErrAmbiguous = errors.New("ambiguous position")
	// ErrOutOfRange is returned when the selected position does not exist.
	ErrOutOfRange = errors.New("position out of range")
)

// AmbiguousError reports how many positions a company has.
type AmbiguousError struct {
	Company models.CompanyName
	Count   int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s has %d positions; specify which one with an index", e.Company, e.Count)
}

func (*AmbiguousError) Unwrap() error { return ErrAmbiguous }

// OutOfRangeError reports the requested index and the number of positions.
type OutOfRangeError struct {
	Company models.CompanyName
	Count   int
	Index   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s has %d position(s); index %d is out of range", e.Company, e.Count, e.Index)
}

func (*OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// Store maps each company to its open positions in creation order. A company
// is present only while it has at least one position.
type Store struct {
	leads map[models.CompanyName][]models.Lead
}

// New returns an empty store.
func New() *Store {
	return &Store{leads: make(map[models.CompanyName][]models.Lead)}
}

// FromMap builds a store from decoded data, dropping companies without
// positions.
func FromMap(m map[models.CompanyName][]models.Lead) *Store {
	s := New()
	for company, positions := range m {
		if len(positions) > 0 {
			s.leads[company] = positions
		}
	}
	return s
}

// Map exposes the underlying mapping for encoding. Callers must not modify it.
func (s *Store) Map() map[models.CompanyName][]models.Lead {
	return s.leads
}

// NewLead creates a lead for company and returns its index.
func (s *Store) NewLead(company models.CompanyName, position, source string) int {
	return s.Append(company, models.NewLead(position, source))
}

// Append adds an existing lead at the end of company's positions and returns
// its index.
func (s *Store) Append(company models.CompanyName, lead models.Lead) int {
	s.leads[company] = append(s.leads[company], lead)
	return len(s.leads[company]) - 1
}

// Resolve returns the position selected by index, or the only position when
// index is nil.
func (s *Store) Resolve(company models.CompanyName, index *int) (*models.Lead, error) {
	i, err := s.resolveIndex(company, index)
	if err != nil {
		return nil, err
	}
	return &s.leads[company][i], nil
}

func (s *Store) resolveIndex(company models.CompanyName, index *int) (int, error) {
	positions, ok := s.leads[company]
	if !ok {
		return 0, fmt.Errorf("%w: no such company %q", models.ErrNotFound, company)
	}
	if index == nil {
		if len(positions) != 1 {
			return 0, &AmbiguousError{Company: company, Count: len(positions)}
		}
		return 0, nil
	}
	if *index < 0 || *index >= len(positions) {
		return 0, &OutOfRangeError{Company: company, Count: len(positions), Index: *index}
	}
	return *index, nil
}

// CloseLead detaches the selected position, logs "Closed: reason" on it at
// the given instant, and returns it. Later positions shift down by one; the
// company disappears when its last position is closed.
func (s *Store) CloseLead(at time.Time, company models.CompanyName, index *int, reason string) (models.Lead, error) {
	i, err := s.resolveIndex(company, index)
	if err != nil {
		return models.Lead{}, err
	}
	positions := s.leads[company]
	lead := positions[i]
	positions = slices.Delete(positions, i, i+1)
	if len(positions) == 0 {
		delete(s.leads, company)
	} else {
		s.leads[company] = positions
	}
	lead.AddStatus(at, "Closed: "+reason)
	return lead, nil
}

// Positions returns the leads of company, or nil.
func (s *Store) Positions(company models.CompanyName) []models.Lead {
	return s.leads[company]
}

// Companies returns the company names in ascending order.
func (s *Store) Companies() []models.CompanyName {
	names := make([]models.CompanyName, 0, len(s.leads))
	for name := range s.leads {
		names = append(names, name)
	}
	slices.SortFunc(names, models.CompanyName.Compare)
	return names
}

// Len returns the number of positions across all companies.
func (s *Store) Len() int {
	n := 0
	for _, positions := range s.leads {
		n += len(positions)
	}
	return n
}
