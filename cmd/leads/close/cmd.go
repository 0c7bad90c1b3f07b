// Package closecmd implements the `leads close` command.
package closecmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads close`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	position int
}

// New creates the close command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "close <company> <reason>",
		Short: "Close a lead and move it to the archive",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.run,
	}
	shared.AddPositionFlag(c.cmd, &c.position)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return c.ctx.Run(cmd, func(_ *service.Service, at time.Time) (service.Command, error) {
		return service.Close{
			Target: shared.Target(cmd, args[0], c.position),
			At:     at,
			Reason: shared.Text(args[1:]),
		}, nil
	})
}
