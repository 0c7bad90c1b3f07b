package markdown_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/leads/internal/markdown"
	"github.com/go-ports/leads/internal/models"
)

var (
	t0 = time.Date(2024, 4, 1, 15, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 4, 5, 17, 0, 0, 0, time.UTC)
)

func fullLead() models.Lead {
	l := models.Lead{Position: "Engineer", Source: "acme.com/jobs/1"}
	l.AddStatus(t0, "Created")
	l.AddNote("salary", "100k")
	l.AddInterviewNote("Phone screen", models.PhasePre, "Read the blog")
	l.AddInterviewNote("Phone screen", models.PhasePost, "Went well")
	l.AddRedFlag("Unpaid take-home")
	l.AddTodo(t1, "Send resume", t2)
	l.AddWait(t1.Add(time.Hour), "Feedback", nil)
	return l
}

// ---------------------------------------------------------------------------
// RenderLead
// ---------------------------------------------------------------------------

func TestRenderLead_HappyPath(t *testing.T) {
	c := qt.New(t)

	c.Run("position only", func(c *qt.C) {
		got := markdown.RenderLead(3, &models.Lead{Position: "Engineer"})
		c.Assert(got, qt.Equals, "## 3. Engineer")
	})

	c.Run("every section", func(c *qt.C) {
		l := fullLead()
		want := "## 0. Engineer\n**Source:** acme.com/jobs/1\n\n" +
			"### Status\n" +
			"- 2024-04-01 15:00 UTC Created\n" +
			"- 2024-04-02 09:00 UTC TODO: Send resume\n" +
			"- 2024-04-02 10:00 UTC WAITING: Feedback\n\n" +
			"### Notes\n#### salary\n- 100k\n\n" +
			"### Interviews\n#### Phone screen\nBefore:\n- Read the blog\nAfter:\n- Went well\n\n" +
			"### Red flags\n- Unpaid take-home\n\n" +
			"### Todo\n- [ ] 0. Send resume (due 2024-04-05 17:00 UTC)\n\n" +
			"### Waiting on\n- 0. Feedback"
		c.Assert(markdown.RenderLead(0, &l), qt.Equals, want)
	})

	c.Run("wait with expected date", func(c *qt.C) {
		l := models.Lead{Position: "Engineer"}
		exp := t2
		l.Wait = []models.Wait{{Action: "Offer", Expected: &exp}}
		got := markdown.RenderLead(0, &l)
		c.Assert(got, qt.Equals, "## 0. Engineer\n\n### Waiting on\n- 0. Offer (expected 2024-04-05 17:00 UTC)")
	})

	c.Run("sections without a status timeline", func(c *qt.C) {
		l := models.Lead{Position: "Engineer", Source: "site"}
		l.AddNote("salary", "100k")
		l.AddRedFlag("Vague role")
		l.Todo = []models.Todo{{Action: "Call back", Deadline: t2}}
		got := markdown.RenderLead(1, &l)
		c.Assert(got, qt.Equals, "## 1. Engineer\n**Source:** site\n\n"+
			"### Notes\n#### salary\n- 100k\n\n"+
			"### Red flags\n- Vague role\n\n"+
			"### Todo\n- [ ] 0. Call back (due 2024-04-05 17:00 UTC)")
	})
}

// ---------------------------------------------------------------------------
// RenderCompany / WriteCompany
// ---------------------------------------------------------------------------

func TestRenderCompany_HappyPath(t *testing.T) {
	c := qt.New(t)

	leads := []models.Lead{
		{Position: "Engineer", Source: "site"},
		{Position: "Manager", Source: "referral"},
		{Position: "Intern", Source: "site"},
	}
	got := markdown.RenderCompany("Acme", leads, t0)

	c.Assert(got, qt.Equals, "---\n"+
		"company: Acme\n"+
		"positions: [Engineer, Manager, Intern]\n"+
		"sources: [referral, site]\n"+
		"exported: 2024-04-01T15:00:00Z\n"+
		"---\n\n# Acme\n\n"+
		"## 0. Engineer\n**Source:** site\n\n"+
		"## 1. Manager\n**Source:** referral\n\n"+
		"## 2. Intern\n**Source:** site\n")
}

func TestWriteCompany_HappyPath(t *testing.T) {
	c := qt.New(t)

	dir := filepath.Join(t.TempDir(), "vault", "leads")
	l := fullLead()

	path, err := markdown.WriteCompany(dir, "Acme/EU", []models.Lead{l}, t0)
	c.Assert(err, qt.IsNil)
	c.Assert(path, qt.Equals, filepath.Join(dir, "Acme_EU.md"))

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasPrefix(string(data), "---\ncompany: Acme/EU\n"), qt.IsTrue)
	c.Assert(string(data), qt.Contains, "### Red flags\n- Unpaid take-home")
}

func TestWriteCompany_FailurePath(t *testing.T) {
	c := qt.New(t)

	blocker := filepath.Join(t.TempDir(), "file")
	c.Assert(os.WriteFile(blocker, nil, 0o600), qt.IsNil)

	_, err := markdown.WriteCompany(filepath.Join(blocker, "sub"), "Acme", nil, t0)
	c.Assert(err, qt.IsNotNil)
}

func TestFileName(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		in   models.CompanyName
		want string
	}{
		{"Acme", "Acme.md"},
		{"Acme Corp", "Acme Corp.md"},
		{"A/B: C?", "A_B_ C_.md"},
		{"  ..  ", "_.md"},
	}
	for _, tc := range cases {
		c.Run(string(tc.in), func(c *qt.C) {
			c.Assert(markdown.FileName(tc.in), qt.Equals, tc.want)
		})
	}
}
