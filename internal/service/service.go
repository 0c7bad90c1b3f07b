// Package service implements the lead Service orchestrator that wires together
// configuration, persistence, the archive, redaction, markdown export and the
// search index.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-ports/leads/internal/archive"
	"github.com/go-ports/leads/internal/config"
	"github.com/go-ports/leads/internal/index"
	"github.com/go-ports/leads/internal/markdown"
	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/persist"
	"github.com/go-ports/leads/internal/redaction"
	"github.com/go-ports/leads/internal/store"
)

// ErrUnknownCommand is returned by Run for a Command it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Service orchestrates all lead operations.
type Service struct {
	Home        string
	Config      *config.LeadsConfig
	ActivePath  string
	ArchivePath string

	redactor *redaction.Redactor
	idx      *index.Index
	mu       sync.Mutex

	// docMu serializes load, apply and save. The MCP server dispatches tool
	// calls from several goroutines onto one Service.
	docMu sync.RWMutex
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	return &Service{
		Home:        home,
		Config:      cfg,
		ActivePath:  cfg.ActivePath(home),
		ArchivePath: cfg.ArchivePath(home),
	}, nil
}

// Close releases the search index if it was opened.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	return err
}

// Location returns the zone used to read zone-less dates.
func (s *Service) Location() *time.Location {
	return s.Config.Location()
}

// ---------------------------------------------------------------------------
// Lazy helpers
// ---------------------------------------------------------------------------

// getRedactor returns the redactor, lazily loaded from .leadsignore. It is
// nil when redaction is disabled.
func (s *Service) getRedactor() *redaction.Redactor {
	if !s.Config.Redaction.Enabled {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redactor != nil {
		return s.redactor
	}
	r, err := redaction.Load(filepath.Join(s.Home, redaction.IgnoreFile))
	if err != nil {
		slog.Warn("failed to load "+redaction.IgnoreFile, "err", err)
		r = redaction.New()
	}
	s.redactor = r
	return r
}

// searchIndex returns the search index, opening it on first use.
func (s *Service) searchIndex(ctx context.Context) (*index.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil {
		return s.idx, nil
	}
	x, err := index.Open(ctx, filepath.Join(s.Home, index.FileName))
	if err != nil {
		return nil, err
	}
	s.idx = x
	return x, nil
}

func (s *Service) load() (active, archived *store.Store, err error) {
	active, err = persist.Load(s.ActivePath)
	if err != nil {
		return nil, nil, err
	}
	archived, err = persist.Load(s.ArchivePath)
	if err != nil {
		return nil, nil, err
	}
	return active, archived, nil
}

// refreshIndex rebuilds the search index after a successful mutation. The
// documents are already saved, so failures are only logged.
func (s *Service) refreshIndex(ctx context.Context, active, archived *store.Store) {
	x, err := s.searchIndex(ctx)
	if err != nil {
		slog.Warn("search index unavailable", "err", err)
		return
	}
	if _, err := x.Rebuild(ctx, active, archived); err != nil {
		slog.Warn("failed to refresh search index", "err", err)
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

// Result describes the outcome of a successful Run.
type Result struct {
	Company models.CompanyName
	Index   int
	// Archived is set when the lead moved to the archive; Index then refers
	// to its position there.
	Archived bool
	Message  string
}

// Run loads both stores, applies cmd, and persists the stores only when cmd
// succeeds. A failed command leaves the documents on disk untouched.
func (s *Service) Run(ctx context.Context, cmd Command) (*Result, error) {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	active, archived, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	res, err := s.apply(active, archived, cmd)
	if err != nil {
		return nil, err
	}

	if res.Archived {
		err = archive.Commit(active, archived, s.ActivePath, s.ArchivePath)
	} else {
		err = persist.Save(s.ActivePath, active)
	}
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	slog.Debug("command applied", "command", fmt.Sprintf("%T", cmd), "company", res.Company, "index", res.Index)

	s.refreshIndex(ctx, active, archived)
	return res, nil
}

// apply mutates the in-memory stores. Each Command implementation has a case.
func (s *Service) apply(active, archived *store.Store, cmd Command) (*Result, error) { //nolint:gocyclo // one case per command kind
	r := s.getRedactor()

	switch c := cmd.(type) {
	case NewLead:
		position := r.Redact(c.Position)
		i := active.NewLead(c.Company, position, r.Redact(c.Source))
		return &Result{Company: c.Company, Index: i,
			Message: fmt.Sprintf("Added %s #%d: %s", c.Company, i, position)}, nil

	case Close:
		reason := r.Redact(c.Reason)
		i, err := archive.Transfer(active, archived, c.At, c.Company, c.Index, reason)
		if err != nil {
			return nil, err
		}
		return &Result{Company: c.Company, Index: i, Archived: true,
			Message: fmt.Sprintf("Closed %s: %s", c.Target, reason)}, nil

	case Note:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			l.AddNote(c.Category, r.Redact(c.Text))
			return "Noted under " + c.Category, nil
		})

	case Status:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			text := r.Redact(c.Text)
			l.AddStatus(c.At, text)
			return "Status: " + text, nil
		})

	case RedFlag:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			l.AddRedFlag(r.Redact(c.Text))
			return "Red flag recorded", nil
		})

	case PreInterview:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			interviewNote(l, c.Name, models.PhasePre, r.Redact(c.Text))
			if c.Planned != nil {
				l.AddStatus(c.At, fmt.Sprintf("INTERVIEW PLANNED: %s on %s",
					c.Name, c.Planned.Format(time.RFC3339)))
			}
			return "Prepared for " + c.Name.String(), nil
		})

	case PostInterview:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			interviewNote(l, c.Name, models.PhasePost, r.Redact(c.Text))
			held := c.At
			if c.HeldOn != nil {
				held = *c.HeldOn
			}
			l.AddStatus(held, "INTERVIEW HELD: "+c.Name.String())
			return "Debriefed " + c.Name.String(), nil
		})

	case AddTodo:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			action := r.Redact(c.Action)
			l.AddTodo(c.At, action, c.Deadline)
			return fmt.Sprintf("TODO #%d: %s", len(l.Todo)-1, action), nil
		})

	case CompleteTodo:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			done, err := l.CompleteTodo(c.At, c.Item)
			if err != nil {
				return "", err
			}
			return "DONE: " + done.Action, nil
		})

	case AddWait:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			action := r.Redact(c.Action)
			l.AddWait(c.At, action, c.Expected)
			return fmt.Sprintf("WAITING #%d: %s", len(l.Wait)-1, action), nil
		})

	case CompleteWait:
		return onLead(active, c.Target, func(l *models.Lead) (string, error) {
			got, err := l.CompleteWait(c.At, c.Item)
			if err != nil {
				return "", err
			}
			return "RECEIVED: " + got.Action, nil
		})

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

// onLead resolves t in active and applies fn to the selected lead.
func onLead(active *store.Store, t Target, fn func(*models.Lead) (string, error)) (*Result, error) {
	l, err := active.Resolve(t.Company, t.Index)
	if err != nil {
		return nil, err
	}
	msg, err := fn(l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	return &Result{Company: t.Company, Index: t.index(), Message: msg}, nil
}

// interviewNote adds text to the most recent interview called name, creating
// the interview when there is none. Empty text only ensures the interview
// exists.
func interviewNote(l *models.Lead, name models.InterviewName, phase models.Phase, text string) {
	if text != "" {
		l.AddInterviewNote(name, phase, text)
		return
	}
	if l.FindInterview(name) < 0 {
		l.NewInterview(name)
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Entry is a lead together with its address.
type Entry struct {
	Company models.CompanyName
	Index   int
	Lead    models.Lead
}

func (s *Service) storeFor(archived bool) (*store.Store, error) {
	s.docMu.RLock()
	defer s.docMu.RUnlock()
	path := s.ActivePath
	if archived {
		path = s.ArchivePath
	}
	return persist.Load(path)
}

// List returns every lead of the active (or archive) store, companies in
// ascending order and positions in index order.
func (s *Service) List(archived bool) ([]Entry, error) {
	st, err := s.storeFor(archived)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	var out []Entry
	for _, company := range st.Companies() {
		for i, l := range st.Positions(company) {
			out = append(out, Entry{Company: company, Index: i, Lead: l})
		}
	}
	return out, nil
}

// Show returns the lead selected by t. Unlike mutations, a nil index on a
// company with several positions returns all of them.
func (s *Service) Show(t Target, archived bool) ([]Entry, error) {
	st, err := s.storeFor(archived)
	if err != nil {
		return nil, fmt.Errorf("Show: %w", err)
	}
	if t.Index == nil {
		positions := st.Positions(t.Company)
		if len(positions) == 0 {
			return nil, fmt.Errorf("%w: no such company %q", models.ErrNotFound, t.Company)
		}
		out := make([]Entry, len(positions))
		for i, l := range positions {
			out[i] = Entry{Company: t.Company, Index: i, Lead: l}
		}
		return out, nil
	}
	l, err := st.Resolve(t.Company, t.Index)
	if err != nil {
		return nil, err
	}
	return []Entry{{Company: t.Company, Index: *t.Index, Lead: *l}}, nil
}

// Search queries the full-text index, building it first when it has never
// been built.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]index.Hit, error) {
	x, err := s.searchIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	if _, built, err := x.RebuiltAt(ctx); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	} else if !built {
		if _, err := s.Reindex(ctx); err != nil {
			return nil, err
		}
	}
	hits, err := x.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return hits, nil
}

// Reindex rebuilds the search index from both documents and returns the
// number of indexed fragments.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	s.docMu.RLock()
	defer s.docMu.RUnlock()

	active, archived, err := s.load()
	if err != nil {
		return 0, fmt.Errorf("Reindex: %w", err)
	}
	x, err := s.searchIndex(ctx)
	if err != nil {
		return 0, fmt.Errorf("Reindex: %w", err)
	}
	n, err := x.Rebuild(ctx, active, archived)
	if err != nil {
		return 0, fmt.Errorf("Reindex: %w", err)
	}
	return n, nil
}

// Export writes one markdown file per company into dir and returns the
// written paths.
func (s *Service) Export(dir string, archived bool) ([]string, error) {
	st, err := s.storeFor(archived)
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	now := time.Now()
	var paths []string
	for _, company := range st.Companies() {
		p, err := markdown.WriteCompany(dir, company, st.Positions(company), now)
		if err != nil {
			return paths, fmt.Errorf("Export %s: %w", company, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
