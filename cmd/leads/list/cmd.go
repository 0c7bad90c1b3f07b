// Package listcmd implements the `leads list` command.
package listcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
)

// Command implements `leads list`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	archived bool
}

// New creates the list command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "list",
		Short: "List open leads with their latest status",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.archived, "archive", false, "List closed leads instead")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	entries, err := svc.List(c.archived)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No leads found.")
		return nil
	}

	title := "Open leads"
	if c.archived {
		title = "Closed leads"
	}
	fmt.Fprintf(out, "%s (%d):\n", title, len(entries))
	for _, e := range entries {
		status := ""
		if last, ok := e.Lead.LastStatus(); ok {
			status = fmt.Sprintf("%s (%s)", last.Message, last.At.In(svc.Location()).Format("2006-01-02"))
		}
		fmt.Fprintf(out, "  %s #%d  %s | %s | todo %d, waiting %d\n",
			e.Company, e.Index, e.Lead.Position, status, len(e.Lead.Todo), len(e.Lead.Wait))
	}
	return nil
}
