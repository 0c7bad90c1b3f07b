// Package searchcmd implements the `leads search` command.
package searchcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
)

// Command implements `leads search`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	limit int
}

// New creates the search command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over open and closed leads",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().IntVar(&c.limit, "limit", 10, "Maximum number of results")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.Search(cmd.Context(), shared.Text(args), c.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}

	fmt.Fprintf(out, "\n Results (%d found) \n", len(hits))
	for i, h := range hits {
		closed := ""
		if h.Archived {
			closed = " | closed"
		}
		label := h.Kind
		if h.Label != "" {
			label += ": " + h.Label
		}
		fmt.Fprintf(out, "\n [%d] %s #%d %s (score: %.2f)\n", i+1, h.Company, h.Index, h.Position, h.Score)
		fmt.Fprintf(out, "     %s%s\n", label, closed)
		fmt.Fprintf(out, "     %s\n", h.Snippet)
	}
	return nil
}
