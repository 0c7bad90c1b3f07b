// Package e2e_test contains end-to-end tests that exercise the full leads CLI
// by importing the root command and running it in-process with a temporary
// leads home. Output is captured via cobra's SetOut so tests can run
// concurrently without affecting os.Stdout.
package e2e_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	rootcmd "github.com/go-ports/leads/cmd/leads/root"
	"github.com/go-ports/leads/internal/checkers"
	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// runCmd executes the root command with the provided args and returns the
// captured stdout output along with any execution error.
func runCmd(t testing.TB, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := rootcmd.New()
	root.SetOut(&buf)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	execErr := root.ExecuteContext(context.Background())

	return buf.String(), execErr
}

// mustRun is runCmd for setup steps that must succeed.
func mustRun(c *qt.C, args ...string) string {
	c.TB.Helper()
	out, err := runCmd(c.TB, args...)
	c.Assert(err, qt.IsNil, qt.Commentf("args: %v", args))
	return out
}

// withHome prepends the --home flag.
func withHome(home string, args ...string) []string {
	return append([]string{"--home", home}, args...)
}

// ---------------------------------------------------------------------------
// Help / init
// ---------------------------------------------------------------------------

func TestHelp_HappyPath(t *testing.T) {
	c := qt.New(t)

	out, err := runCmd(t, "--help")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "leads")
	c.Assert(out, qt.Contains, "interview")
}

func TestInit_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out := mustRun(c, withHome(home, "init")...)
	c.Assert(out, qt.Contains, "Leads initialized at "+home)

	for _, name := range []string{"leads.json", "archive.json"} {
		data, err := os.ReadFile(filepath.Join(home, name))
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, "{}\n")
	}
}

// ---------------------------------------------------------------------------
// new / ambiguity
// ---------------------------------------------------------------------------

func TestNew_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out := mustRun(c, withHome(home, "new", "Acme", "Backend", "Engineer", "--source", "https://acme.example/jobs/1")...)
	c.Assert(out, qt.Equals, "Added Acme #0: Backend Engineer\n")

	out = mustRun(c, withHome(home, "new", "Acme", "SRE", "--source", "referral")...)
	c.Assert(out, qt.Equals, "Added Acme #1: SRE\n")

	data, err := os.ReadFile(filepath.Join(home, "leads.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(data, checkers.JSONPathEquals("$.Acme[0].position"), "Backend Engineer")
	c.Assert(data, checkers.JSONPathEquals("$.Acme[1].source"), "referral")
}

func TestNew_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()

	c.Run("missing --source", func(c *qt.C) {
		_, err := runCmd(t, withHome(home, "new", "Acme", "Engineer")...)
		c.Assert(err, qt.ErrorMatches, `.*"source" not set`)
	})

	c.Run("missing position", func(c *qt.C) {
		_, err := runCmd(t, withHome(home, "new", "Acme", "--source", "x")...)
		c.Assert(err, qt.IsNotNil)
	})
}

func TestAmbiguousTarget_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	mustRun(c, withHome(home, "new", "Acme", "SRE", "--source", "b")...)
	before, err := os.ReadFile(filepath.Join(home, "leads.json"))
	c.Assert(err, qt.IsNil)

	_, err = runCmd(t, withHome(home, "status", "Acme", "Applied")...)
	c.Assert(errors.Is(err, store.ErrAmbiguous), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `Acme has 2 positions; specify which one with an index`)

	_, err = runCmd(t, withHome(home, "status", "-p", "2", "Acme", "Applied")...)
	c.Assert(errors.Is(err, store.ErrOutOfRange), qt.IsTrue)

	_, err = runCmd(t, withHome(home, "status", "Globex", "Applied")...)
	c.Assert(errors.Is(err, models.ErrNotFound), qt.IsTrue)

	after, err := os.ReadFile(filepath.Join(home, "leads.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(after), qt.Equals, string(before))

	out := mustRun(c, withHome(home, "status", "-p", "1", "Acme", "Applied")...)
	c.Assert(out, qt.Equals, "Status: Applied\n")
}

// ---------------------------------------------------------------------------
// Lead lifecycle
// ---------------------------------------------------------------------------

func TestLifecycle_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	at := func(when string, args ...string) []string {
		return withHome(home, append([]string{"--when", when}, args...)...)
	}

	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "https://acme.example")...)
	mustRun(c, at("2024-03-01 10:00", "status", "Acme", "Applied")...)
	mustRun(c, withHome(home, "note", "Acme", "salary", "band", "120k-140k")...)
	mustRun(c, withHome(home, "detail", "Acme", "remote", "two days a week")...)
	mustRun(c, withHome(home, "redflag", "Acme", "Glassdoor mentions layoffs")...)

	out := mustRun(c, at("2024-03-02 09:00", "todo", "add", "Acme", "Send", "portfolio", "--deadline", "2024-03-10")...)
	c.Assert(out, qt.Equals, "TODO #0: Send portfolio\n")

	out = mustRun(c, at("2024-03-03 09:00", "wait", "add", "Acme", "Feedback", "--expected", "2024-03-08")...)
	c.Assert(out, qt.Equals, "WAITING #0: Feedback\n")

	out = mustRun(c, at("2024-03-04 09:00",
		"interview", "pre", "Acme", "Onsite", "read the blog", "--planned", "2024-03-12 14:00")...)
	c.Assert(out, qt.Equals, "Prepared for Onsite\n")

	out = mustRun(c, at("2024-03-05 09:00", "todo", "done", "Acme", "0")...)
	c.Assert(out, qt.Equals, "DONE: Send portfolio\n")

	out = mustRun(c, at("2024-03-06 09:00", "wait", "received", "Acme", "0")...)
	c.Assert(out, qt.Equals, "RECEIVED: Feedback\n")

	out = mustRun(c, at("2024-03-12 18:00",
		"interview", "post", "Acme", "Onsite", "went", "well", "--held-on", "2024-03-12 14:00")...)
	c.Assert(out, qt.Equals, "Debriefed Onsite\n")

	out = mustRun(c, withHome(home, "show", "Acme")...)
	c.Assert(out, qt.Contains, "Acme #0: Engineer")
	c.Assert(out, qt.Contains, "Source: https://acme.example")
	c.Assert(out, qt.Contains, "[salary] band 120k-140k")
	c.Assert(out, qt.Contains, "[remote] two days a week")
	c.Assert(out, qt.Contains, "! Glassdoor mentions layoffs")
	c.Assert(out, qt.Contains, "before: read the blog")
	c.Assert(out, qt.Contains, "after: went well")
	c.Assert(out, qt.Contains, "2024-03-01 10:00  Applied")
	c.Assert(out, qt.Contains, "2024-03-05 09:00  DONE: Send portfolio")
	c.Assert(out, qt.Contains, "2024-03-06 09:00  RECEIVED: Feedback")
	c.Assert(out, qt.Contains, "2024-03-12 14:00  INTERVIEW HELD: Onsite")
	c.Assert(out, qt.Contains, "INTERVIEW PLANNED: Onsite on ")
	c.Assert(out, qt.Not(qt.Contains), "Todo:")
	c.Assert(out, qt.Not(qt.Contains), "Waiting on:")

	_, err := runCmd(t, withHome(home, "todo", "done", "Acme", "0")...)
	c.Assert(errors.Is(err, models.ErrNotFound), qt.IsTrue)
}

func TestShow_Markdown_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "board")...)
	mustRun(c, withHome(home, "note", "Acme", "stack", "Go")...)

	out := mustRun(c, withHome(home, "show", "Acme", "--format", "markdown")...)
	c.Assert(out, qt.Contains, "# Acme\n")
	c.Assert(out, qt.Contains, "## 0. Engineer")
	c.Assert(out, qt.Contains, "**Source:** board")

	_, err := runCmd(t, withHome(home, "show", "Acme", "--format", "html")...)
	c.Assert(err, qt.ErrorMatches, `unknown format "html" \(want text or markdown\)`)
}

func TestClose_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	mustRun(c, withHome(home, "new", "Acme", "SRE", "--source", "b")...)

	out := mustRun(c, withHome(home, "close", "-p", "0", "Acme", "Rejected", "after", "onsite")...)
	c.Assert(out, qt.Equals, "Closed Acme #0: Rejected after onsite\n")

	// Remaining position shifted down to index 0.
	out = mustRun(c, withHome(home, "list")...)
	c.Assert(out, qt.Contains, "Open leads (1):")
	c.Assert(out, qt.Contains, "Acme #0  SRE")

	out = mustRun(c, withHome(home, "list", "--archive")...)
	c.Assert(out, qt.Contains, "Closed leads (1):")
	c.Assert(out, qt.Contains, "Acme #0  Engineer | Closed: Rejected after onsite")

	out = mustRun(c, withHome(home, "close", "Acme", "Withdrew")...)
	c.Assert(out, qt.Equals, "Closed Acme: Withdrew\n")

	active, err := os.ReadFile(filepath.Join(home, "leads.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(active), qt.Equals, "{}\n")

	archived, err := os.ReadFile(filepath.Join(home, "archive.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(archived, checkers.JSONPathEquals("$.Acme[1].position"), "SRE")
}

func TestList_Empty_HappyPath(t *testing.T) {
	c := qt.New(t)

	out := mustRun(c, withHome(t.TempDir(), "list")...)
	c.Assert(out, qt.Equals, "No leads found.\n")
}

// ---------------------------------------------------------------------------
// Redaction
// ---------------------------------------------------------------------------

func TestRedaction_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	mustRun(c, withHome(home, "note", "Acme", "portal", "Workday password: s3cret! use it")...)

	data, err := os.ReadFile(filepath.Join(home, "leads.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(data, checkers.JSONPathEquals("$.Acme[0].notes.portal[0]"), "Workday [REDACTED] use it")
}

// ---------------------------------------------------------------------------
// Search / reindex / export
// ---------------------------------------------------------------------------

func TestSearch_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	mustRun(c, withHome(home, "note", "Acme", "salary", "band 120k")...)

	out := mustRun(c, withHome(home, "search", "120k")...)
	c.Assert(out, qt.Contains, "Results (1 found)")
	c.Assert(out, qt.Contains, "Acme #0 Engineer")
	c.Assert(out, qt.Contains, "note: salary")

	out = mustRun(c, withHome(home, "search", "nothing-matches-this")...)
	c.Assert(out, qt.Equals, "No results found.\n")
}

func TestReindex_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out := mustRun(c, withHome(home, "reindex")...)
	c.Assert(out, qt.Equals, "Indexed 0 fragments.\n")

	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	out = mustRun(c, withHome(home, "reindex")...)
	// Position plus the "Created" status.
	c.Assert(out, qt.Equals, "Indexed 2 fragments.\n")
}

func TestExport_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	dir := filepath.Join(t.TempDir(), "export")
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)
	mustRun(c, withHome(home, "new", "Globex", "SRE", "--source", "b")...)

	out := mustRun(c, withHome(home, "export", dir)...)
	c.Assert(out, qt.Contains, "Exported 2 companies.")

	data, err := os.ReadFile(filepath.Join(dir, "Acme.md"))
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "company: Acme")
	c.Assert(string(data), qt.Contains, "## 0. Engineer")
}

// ---------------------------------------------------------------------------
// --when
// ---------------------------------------------------------------------------

func TestWhen_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	mustRun(c, withHome(home, "new", "Acme", "Engineer", "--source", "a")...)

	_, err := runCmd(t, withHome(home, "--when", "not a date", "status", "Acme", "Applied")...)
	c.Assert(err, qt.ErrorMatches, `--when: invalid date "not a date".*`)

	_, err = runCmd(t, withHome(home, "todo", "add", "Acme", "Call", "--deadline", "someday")...)
	c.Assert(err, qt.ErrorMatches, `--deadline: invalid date "someday".*`)
}

// ---------------------------------------------------------------------------
// config / setup / version
// ---------------------------------------------------------------------------

func TestConfig_HappyPath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	out := mustRun(c, withHome(home, "config")...)
	c.Assert(out, qt.Contains, "leads_home: "+home)
	c.Assert(out, qt.Contains, "leads_home_source: flag")
	c.Assert(out, qt.Contains, filepath.Join(home, "leads.json"))

	out = mustRun(c, withHome(home, "config", "init")...)
	c.Assert(out, qt.Equals, "Created "+filepath.Join(home, "config.yaml")+"\n")

	out = mustRun(c, withHome(home, "config", "init")...)
	c.Assert(out, qt.Contains, "Config already exists")
}

func TestConfig_FailurePath(t *testing.T) {
	c := qt.New(t)

	home := t.TempDir()
	cfg := "store:\n  active: same.json\n  archive: same.json\n"
	c.Assert(os.WriteFile(filepath.Join(home, "config.yaml"), []byte(cfg), 0o600), qt.IsNil)

	_, err := runCmd(t, withHome(home, "list")...)
	c.Assert(err, qt.ErrorMatches, `service.New: load config: .*`)
}

func TestSetup_HappyPath(t *testing.T) {
	c := qt.New(t)

	dir := filepath.Join(t.TempDir(), ".cursor")
	out := mustRun(c, "--home", "/data/leads", "setup", "cursor", "--config-dir", dir)
	c.Assert(out, qt.Equals, "Installed: mcpServers\n")

	data, err := os.ReadFile(filepath.Join(dir, "mcp.json"))
	c.Assert(err, qt.IsNil)
	c.Assert(data, checkers.JSONPathEquals("$.mcpServers.leads.env.LEADS_HOME"), "/data/leads")

	out = mustRun(c, "uninstall", "cursor", "--config-dir", dir)
	c.Assert(out, qt.Equals, "Removed: mcpServers\n")
}

func TestUninstall_ClaudeCodeProject_HappyPath(t *testing.T) {
	c := qt.New(t)

	project := t.TempDir()
	dir := filepath.Join(project, ".claude")
	out := mustRun(c, "setup", "claude-code", "--project", "--config-dir", dir)
	c.Assert(out, qt.Equals, "Installed: mcpServers in .mcp.json\n")

	out = mustRun(c, "uninstall", "claude-code", "--project", "--config-dir", dir)
	c.Assert(out, qt.Equals, "Removed: mcpServers from .mcp.json\n")

	_, err := os.Stat(filepath.Join(project, ".mcp.json"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)

	out = mustRun(c, "uninstall", "claude-code", "--project", "--config-dir", dir)
	c.Assert(out, qt.Equals, "Nothing to remove\n")
}

func TestUninstall_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := runCmd(t, "uninstall", "cursor", "extra")
	c.Assert(err, qt.IsNotNil)
}

func TestVersion_HappyPath(t *testing.T) {
	c := qt.New(t)

	out := mustRun(c, "version")
	c.Assert(out, qt.Contains, "leads dev")
}
