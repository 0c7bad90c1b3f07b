// Package statuscmd implements the `leads status` command.
package statuscmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads status`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	position int
}

// New creates the status command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "status <company> <text>",
		Short: "Record a status update on a lead's timeline",
		Long: "Record a status update on a lead's timeline at --when (default: now).\n" +
			"An update at an instant that already has one replaces it.",
		Args: cobra.MinimumNArgs(2),
		RunE: c.run,
	}
	shared.AddPositionFlag(c.cmd, &c.position)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return c.ctx.Run(cmd, func(_ *service.Service, at time.Time) (service.Command, error) {
		return service.Status{
			Target: shared.Target(cmd, args[0], c.position),
			At:     at,
			Text:   shared.Text(args[1:]),
		}, nil
	})
}
