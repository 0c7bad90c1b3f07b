// Package shared holds the context passed to all CLI commands.
package shared

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/service"
	"github.com/go-ports/leads/internal/when"
)

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the leads home directory.
	// When empty, resolution falls through to LEADS_HOME env var → persisted config → ~/.leads.
	Home string

	// When is the raw --when flag: the instant a mutation happened.
	When string

	// Verbose switches logging to debug level.
	Verbose bool

	// Start is captured once when the root command is built. It is the
	// default for --when and the reference for relative dates.
	Start time.Time
}

// Service opens the lead service for the resolved home.
func (c *Context) Service() (*service.Service, error) {
	return service.New(c.Home)
}

// At resolves --when in the service's zone.
func (c *Context) At(svc *service.Service) (time.Time, error) {
	at, err := when.Parse(c.When, c.Start, svc.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("--when: %w", err)
	}
	return at, nil
}

// Date resolves an optional date flag relative to the start time.
func (c *Context) Date(svc *service.Service, flag, value string) (*time.Time, error) {
	t, err := when.Optional(value, c.Start, svc.Location())
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Lead targeting
// ---------------------------------------------------------------------------

// PositionFlag is the name of the flag selecting a position within a company.
const PositionFlag = "position"

// AddPositionFlag registers -p/--position on cmd.
func AddPositionFlag(cmd *cobra.Command, p *int) {
	cmd.Flags().IntVarP(p, PositionFlag, "p", 0, "Position index within the company (required when it has several)")
}

// Target builds the lead address from the company argument. The index is
// only set when --position was given.
func Target(cmd *cobra.Command, company string, position int) service.Target {
	t := service.Target{Company: models.NewCompanyName(company)}
	if cmd.Flags().Changed(PositionFlag) {
		p := position
		t.Index = &p
	}
	return t
}

// Text joins free-text arguments so quoting is optional.
func Text(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Item parses a todo/wait item number.
func Item(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("item must be a number, got %q", s)
	}
	return n, nil
}

// Run opens the service, resolves --when, builds the command with build and
// prints the result message.
func (c *Context) Run(cmd *cobra.Command, build func(svc *service.Service, at time.Time) (service.Command, error)) error {
	svc, err := c.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	at, err := c.At(svc)
	if err != nil {
		return err
	}
	command, err := build(svc, at)
	if err != nil {
		return err
	}
	res, err := svc.Run(cmd.Context(), command)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
