// Package exportcmd implements the `leads export` command.
package exportcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
)

// Command implements `leads export`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	archived bool
}

// New creates the export command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "export <dir>",
		Short: "Write one markdown file per company into dir",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}
	c.cmd.Flags().BoolVar(&c.archived, "archive", false, "Export closed leads instead")
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

	paths, err := svc.Export(args[0], c.archived)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintf(out, "Wrote %s\n", p)
	}
	fmt.Fprintf(out, "Exported %d companies.\n", len(paths))
	return nil
}
