// Package uninstallcmd implements `leads uninstall`, the inverse of
// `leads setup`.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	setupcmd "github.com/go-ports/leads/cmd/leads/setup"
	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/setup"
)

// agent describes where one MCP client keeps its config and how to drop the
// leads entry from it.
type agent struct {
	use    string
	label  string
	dotDir string
	remove func(dir string, project bool) setup.Result
}

var agents = []agent{
	{
		use:    "claude-code",
		label:  "Claude Code",
		dotDir: ".claude",
		remove: setup.UninstallClaudeCode,
	},
	{
		use:    "cursor",
		label:  "Cursor",
		dotDir: ".cursor",
		remove: func(dir string, _ bool) setup.Result { return setup.UninstallCursor(dir) },
	},
}

// Command implements `leads uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group with one subcommand per agent.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the leads MCP server from an agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	for _, a := range agents {
		c.cmd.AddCommand(a.command())
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (a agent) command() *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   a.use,
		Short: "Remove the leads MCP server from " + a.label,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := setupcmd.ResolveConfigDir(a.dotDir, configDir, project)
			fmt.Fprintln(cmd.OutOrStdout(), a.remove(dir, project).Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to the "+a.dotDir+" directory")
	cmd.Flags().BoolVar(&project, "project", false, "Remove from the current project instead of globally")
	return cmd
}
