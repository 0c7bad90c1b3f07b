// Package todocmd implements the `leads todo` command group.
package todocmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads todo`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the todo command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "todo",
		Short: "Track actions you owe a company",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newAdd(ctx),
		newDone(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newAdd(ctx *shared.Context) *cobra.Command {
	var position int
	var deadline string
	cmd := &cobra.Command{
		Use:   "add <company> <action>",
		Short: "Add a todo with a deadline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(svc *service.Service, at time.Time) (service.Command, error) {
				d, err := ctx.Date(svc, "deadline", deadline)
				if err != nil {
					return nil, err
				}
				if d == nil {
					return nil, errors.New("--deadline is required")
				}
				return service.AddTodo{
					Target:   shared.Target(cmd, args[0], position),
					At:       at,
					Action:   shared.Text(args[1:]),
					Deadline: *d,
				}, nil
			})
		},
	}
	shared.AddPositionFlag(cmd, &position)
	cmd.Flags().StringVar(&deadline, "deadline", "", `Due date, e.g. "2024-03-01" or "+3d" (required)`)
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func newDone(ctx *shared.Context) *cobra.Command {
	var position int
	cmd := &cobra.Command{
		Use:   "done <company> <item>",
		Short: "Mark a todo done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(_ *service.Service, at time.Time) (service.Command, error) {
				item, err := shared.Item(args[1])
				if err != nil {
					return nil, err
				}
				return service.CompleteTodo{
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
