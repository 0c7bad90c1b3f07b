// Package mcpcmd implements the `leads mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	internalmcp "github.com/go-ports/leads/internal/mcp"
)

// Command implements `leads mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the leads MCP server (stdio transport)",
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	return internalmcp.Serve(cmd.Context(), c.ctx.Home)
}
