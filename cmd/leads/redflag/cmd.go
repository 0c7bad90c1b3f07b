// Package redflagcmd implements the `leads redflag` command.
package redflagcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads redflag`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	position int
}

// New creates the redflag command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "redflag <company> <comment>",
		Short: "Record a warning sign about a lead",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.run,
	}
	shared.AddPositionFlag(c.cmd, &c.position)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return c.ctx.Run(cmd, func(*service.Service, time.Time) (service.Command, error) {
		return service.RedFlag{
			Target: shared.Target(cmd, args[0], c.position),
			Text:   shared.Text(args[1:]),
		}, nil
	})
}
