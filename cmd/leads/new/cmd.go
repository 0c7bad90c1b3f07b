// Package newcmd implements the `leads new` command.
package newcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads new`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	source string
}

// New creates the new command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "new <company> <position>",
		Short: "Track a new position at a company",
		Args:  cobra.MinimumNArgs(2),
		RunE:  c.run,
	}

	c.cmd.Flags().StringVar(&c.source, "source", "", "Where the lead came from, e.g. a job posting URL (required)")
	_ = c.cmd.MarkFlagRequired("source")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	return c.ctx.Run(cmd, func(*service.Service, time.Time) (service.Command, error) {
		return service.NewLead{
			Company:  models.NewCompanyName(args[0]),
			Position: shared.Text(args[1:]),
			Source:   c.source,
		}, nil
	})
}
