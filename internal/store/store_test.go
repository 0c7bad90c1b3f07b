package store_test

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/store"
)

// t0 lies after the "Created" seed of every lead built in these tests.
var t0 = time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)

func idx(i int) *int { return &i }

// acme returns a store holding two Acme positions and one Beta position.
func acme() *store.Store {
	s := store.New()
	s.NewLead("Acme", "Engineer", "acme.com/jobs/1")
	s.NewLead("Acme", "Manager", "acme.com/jobs/2")
	s.NewLead("Beta", "Designer", "beta.io/careers")
	return s
}

// ---------------------------------------------------------------------------
// NewLead
// ---------------------------------------------------------------------------

func TestNewLead_HappyPath(t *testing.T) {
	c := qt.New(t)

	s := store.New()
	c.Assert(s.NewLead("Acme", "Engineer", "acme.com/jobs/1"), qt.Equals, 0)
	c.Assert(s.NewLead("Acme", "Manager", "acme.com/jobs/2"), qt.Equals, 1)
	c.Assert(s.NewLead("Beta", "Designer", "beta.io"), qt.Equals, 0)

	positions := s.Positions("Acme")
	c.Assert(positions, qt.HasLen, 2)
	c.Assert(positions[0].Position, qt.Equals, "Engineer")
	c.Assert(positions[1].Position, qt.Equals, "Manager")
	c.Assert(s.Len(), qt.Equals, 3)
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolve_HappyPath(t *testing.T) {
	c := qt.New(t)
	s := acme()

	c.Run("sole position resolves without index", func(c *qt.C) {
		l, err := s.Resolve("Beta", nil)
		c.Assert(err, qt.IsNil)
		c.Assert(l.Position, qt.Equals, "Designer")
	})

	c.Run("explicit index selects the position", func(c *qt.C) {
		l, err := s.Resolve("Acme", idx(1))
		c.Assert(err, qt.IsNil)
		c.Assert(l.Position, qt.Equals, "Manager")
	})

	c.Run("returned lead is mutable in place", func(c *qt.C) {
		l, err := s.Resolve("Acme", idx(0))
		c.Assert(err, qt.IsNil)
		l.AddNote("salary", "120k")
		c.Assert(s.Positions("Acme")[0].Notes["salary"], qt.DeepEquals, []string{"120k"})
	})
}

func TestResolve_FailurePath(t *testing.T) {
	c := qt.New(t)
	s := acme()

	c.Run("unknown company", func(c *qt.C) {
		_, err := s.Resolve("Gamma", nil)
		c.Assert(errors.Is(err, models.ErrNotFound), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, `not found: no such company "Gamma"`)
	})

	c.Run("company names are case sensitive", func(c *qt.C) {
		_, err := s.Resolve("acme", idx(0))
		c.Assert(errors.Is(err, models.ErrNotFound), qt.IsTrue)
	})

	c.Run("several positions without index", func(c *qt.C) {
		_, err := s.Resolve("Acme", nil)
		c.Assert(errors.Is(err, store.ErrAmbiguous), qt.IsTrue)
		var amb *store.AmbiguousError
		c.Assert(errors.As(err, &amb), qt.IsTrue)
		c.Assert(amb.Count, qt.Equals, 2)
	})

	for _, i := range []int{2, 3, -1} {
		c.Run("index out of range", func(c *qt.C) {
			_, err := s.Resolve("Acme", idx(i))
			var oor *store.OutOfRangeError
			c.Assert(errors.As(err, &oor), qt.IsTrue)
			c.Assert(oor.Count, qt.Equals, 2)
			c.Assert(oor.Index, qt.Equals, i)
			c.Assert(errors.Is(err, store.ErrOutOfRange), qt.IsTrue)
		})
	}
}

// ---------------------------------------------------------------------------
// CloseLead
// ---------------------------------------------------------------------------

func TestCloseLead_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("closing an earlier position shifts later ones down", func(c *qt.C) {
		s := acme()
		closed, err := s.CloseLead(t0, "Acme", idx(0), "Position filled")
		c.Assert(err, qt.IsNil)
		c.Assert(closed.Position, qt.Equals, "Engineer")

		last, _ := closed.LastStatus()
		c.Assert(last.Message, qt.Equals, "Closed: Position filled")
		c.Assert(last.At.Equal(t0), qt.IsTrue)

		remaining := s.Positions("Acme")
		c.Assert(remaining, qt.HasLen, 1)
		c.Assert(remaining[0].Position, qt.Equals, "Manager")
		c.Assert(s.Len(), qt.Equals, 2)

		// The remaining position is no longer ambiguous.
		l, err := s.Resolve("Acme", nil)
		c.Assert(err, qt.IsNil)
		c.Assert(l.Position, qt.Equals, "Manager")
	})

	c.Run("closing the only position removes the company", func(c *qt.C) {
		s := acme()
		_, err := s.CloseLead(t0, "Beta", nil, "Rejected")
		c.Assert(err, qt.IsNil)
		c.Assert(s.Companies(), qt.DeepEquals, []models.CompanyName{"Acme"})
		c.Assert(s.Positions("Beta"), qt.IsNil)
	})

	c.Run("detached lead does not alias the store", func(c *qt.C) {
		s := acme()
		closed, err := s.CloseLead(t0, "Acme", idx(1), "Withdrew")
		c.Assert(err, qt.IsNil)
		closed.AddNote("after", "note")
		c.Assert(s.Positions("Acme")[0].Notes, qt.IsNil)
	})
}

func TestCloseLead_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		company models.CompanyName
		index   *int
		is      error
	}{
		{"unknown company", "Gamma", nil, models.ErrNotFound},
		{"ambiguous", "Acme", nil, store.ErrAmbiguous},
		{"out of range", "Acme", idx(2), store.ErrOutOfRange},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			s := acme()
			_, err := s.CloseLead(t0, tc.company, tc.index, "x")
			c.Assert(errors.Is(err, tc.is), qt.IsTrue)
			c.Assert(s.Len(), qt.Equals, 3)
		})
	}
}

// ---------------------------------------------------------------------------
// Companies / FromMap
// ---------------------------------------------------------------------------

func TestCompanies_SortedByName(t *testing.T) {
	c := qt.New(t)

	s := store.New()
	for _, name := range []models.CompanyName{"Zeta", "Acme", "Mango", "Beta"} {
		s.NewLead(name, "Role", "src")
	}
	c.Assert(s.Companies(), qt.DeepEquals, []models.CompanyName{"Acme", "Beta", "Mango", "Zeta"})
}

func TestFromMap_DropsEmptyCompanies(t *testing.T) {
	c := qt.New(t)

	s := store.FromMap(map[models.CompanyName][]models.Lead{
		"Acme":  {models.NewLead("Engineer", "src")},
		"Empty": {},
	})
	c.Assert(s.Companies(), qt.DeepEquals, []models.CompanyName{"Acme"})
}

// ---------------------------------------------------------------------------
// Scenario
// ---------------------------------------------------------------------------

func TestScenario_TwoPositionsAtAcme(t *testing.T) {
	c := qt.New(t)

	s := store.New()
	s.NewLead("Acme", "Engineer", "acme.com/jobs/1")
	s.NewLead("Acme", "Manager", "acme.com/jobs/2")

	_, err := s.Resolve("Acme", nil)
	c.Assert(err, qt.ErrorMatches, `Acme has 2 positions; specify which one with an index`)

	l, err := s.Resolve("Acme", idx(1))
	c.Assert(err, qt.IsNil)
	c.Assert(l.Position, qt.Equals, "Manager")
	c.Assert(l.Source, qt.Equals, "acme.com/jobs/2")
}
