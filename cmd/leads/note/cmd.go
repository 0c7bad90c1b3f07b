// Package notecmd implements the `leads note` command.
package notecmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads note`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	position int
}

// New creates the note command. `leads detail` is the same command; a
// detail is a note whose category is its kind, e.g. "salary".
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:     "note <company> <category> <text>",
		Aliases: []string{"detail"},
		Short:   "File a note on a lead under a category",
		Args:    cobra.MinimumNArgs(3),
		RunE:    c.run,
	}
	shared.AddPositionFlag(c.cmd, &c.position)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return c.ctx.Run(cmd, func(*service.Service, time.Time) (service.Command, error) {
		return service.Note{
			Target:   shared.Target(cmd, args[0], c.position),
			Category: args[1],
			Text:     shared.Text(args[2:]),
		}, nil
	})
}
