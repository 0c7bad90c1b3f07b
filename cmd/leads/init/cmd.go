// Package initcmd implements the `leads init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/persist"
)

// Command implements `leads init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Create the leads home and empty lead documents",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer svc.Close()

	// Existing documents are loaded and written back unchanged.
	for _, path := range []string{svc.ActivePath, svc.ArchivePath} {
		st, err := persist.Load(path)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := persist.Save(path, st); err != nil {
			return fmt.Errorf("init: %w", err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Leads initialized at %s\n", svc.Home)
	return nil
}
