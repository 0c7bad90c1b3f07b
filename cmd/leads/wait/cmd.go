// Package waitcmd implements the `leads wait` command group.
package waitcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads wait`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the wait command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "wait",
		Short: "Track what a company owes you",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newAdd(ctx),
		newReceived(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newAdd(ctx *shared.Context) *cobra.Command {
	var position int
	var expected string
	cmd := &cobra.Command{
		Use:   "add <company> <action>",
		Short: "Wait for something from a company",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(svc *service.Service, at time.Time) (service.Command, error) {
				e, err := ctx.Date(svc, "expected", expected)
				if err != nil {
					return nil, err
				}
				return service.AddWait{
					Target:   shared.Target(cmd, args[0], position),
					At:       at,
					Action:   shared.Text(args[1:]),
					Expected: e,
				}, nil
			})
		},
	}
	shared.AddPositionFlag(cmd, &position)
	cmd.Flags().StringVar(&expected, "expected", "", "When it is expected")
	return cmd
}

func newReceived(ctx *shared.Context) *cobra.Command {
	var position int
	cmd := &cobra.Command{
		Use:   "received <company> <item>",
		Short: "Mark a wait received",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(_ *service.Service, at time.Time) (service.Command, error) {
				item, err := shared.Item(args[1])
				if err != nil {
					return nil, err
				}
				return service.CompleteWait{
					Target: shared.Target(cmd, args[0], position),
					At:     at,
					Item:   item,
				}, nil
			})
		},
	}
	shared.AddPositionFlag(cmd, &position)
	return cmd
}
