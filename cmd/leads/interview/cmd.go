// Package interviewcmd implements the `leads interview` command group.
package interviewcmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/service"
)

// Command implements `leads interview`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the interview command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "interview",
		Short: "Prepare for or debrief an interview",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newPre(ctx),
		newPost(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// ---------------------------------------------------------------------------
// interview pre
// ---------------------------------------------------------------------------

func newPre(ctx *shared.Context) *cobra.Command {
	var position int
	var planned string
	cmd := &cobra.Command{
		Use:   "pre <company> <interview> [notes]",
		Short: "Add things to know before an interview",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(svc *service.Service, at time.Time) (service.Command, error) {
				p, err := ctx.Date(svc, "planned", planned)
				if err != nil {
					return nil, err
				}
				return service.PreInterview{
					Target:  shared.Target(cmd, args[0], position),
					At:      at,
					Name:    models.NewInterviewName(args[1]),
					Text:    shared.Text(args[2:]),
					Planned: p,
				}, nil
			})
		},
	}
	shared.AddPositionFlag(cmd, &position)
	cmd.Flags().StringVar(&planned, "planned", "", "When the interview is scheduled")
	return cmd
}

// ---------------------------------------------------------------------------
// interview post
// ---------------------------------------------------------------------------

func newPost(ctx *shared.Context) *cobra.Command {
	var position int
	var heldOn string
	cmd := &cobra.Command{
		Use:   "post <company> <interview> [notes]",
		Short: "Debrief an interview and mark it held",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Run(cmd, func(svc *service.Service, at time.Time) (service.Command, error) {
				h, err := ctx.Date(svc, "held-on", heldOn)
				if err != nil {
					return nil, err
				}
				return service.PostInterview{
					Target: shared.Target(cmd, args[0], position),
					At:     at,
					Name:   models.NewInterviewName(args[1]),
					Text:   shared.Text(args[2:]),
					HeldOn: h,
				}, nil
			})
		},
	}
	shared.AddPositionFlag(cmd, &position)
	cmd.Flags().StringVar(&heldOn, "held-on", "", "When the interview took place (default: --when)")
	return cmd
}
