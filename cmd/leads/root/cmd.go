// Package rootcmd wires the root cobra.Command for the leads CLI binary.
package rootcmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	closecmd "github.com/go-ports/leads/cmd/leads/close"
	configcmd "github.com/go-ports/leads/cmd/leads/config"
	exportcmd "github.com/go-ports/leads/cmd/leads/export"
	initcmd "github.com/go-ports/leads/cmd/leads/init"
	interviewcmd "github.com/go-ports/leads/cmd/leads/interview"
	listcmd "github.com/go-ports/leads/cmd/leads/list"
	mcpcmd "github.com/go-ports/leads/cmd/leads/mcp"
	newcmd "github.com/go-ports/leads/cmd/leads/new"
	notecmd "github.com/go-ports/leads/cmd/leads/note"
	redflagcmd "github.com/go-ports/leads/cmd/leads/redflag"
	reindexcmd "github.com/go-ports/leads/cmd/leads/reindex"
	searchcmd "github.com/go-ports/leads/cmd/leads/search"
	setupcmd "github.com/go-ports/leads/cmd/leads/setup"
	"github.com/go-ports/leads/cmd/leads/shared"
	showcmd "github.com/go-ports/leads/cmd/leads/show"
	statuscmd "github.com/go-ports/leads/cmd/leads/status"
	todocmd "github.com/go-ports/leads/cmd/leads/todo"
	uninstallcmd "github.com/go-ports/leads/cmd/leads/uninstall"
	versioncmd "github.com/go-ports/leads/cmd/leads/version"
	waitcmd "github.com/go-ports/leads/cmd/leads/wait"
)

// New creates and returns the root cobra.Command for the leads CLI.
func New() *cobra.Command {
	ctx := &shared.Context{Start: time.Now()}

	root := &cobra.Command{
		Use:           "leads",
		Short:         "leads: track job-search leads from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if ctx.Verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(
		&ctx.Home, "home", "",
		"Override leads home directory (default: $LEADS_HOME env → persisted config → ~/.leads)",
	)
	pf.StringVar(
		&ctx.When, "when", "",
		`When it happened: YYYY-MM-DD [HH:MM:SS], "today", or an offset like "-2h" (default: now)`,
	)
	pf.BoolVarP(&ctx.Verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		newcmd.New(ctx).Cmd(),
		closecmd.New(ctx).Cmd(),
		notecmd.New(ctx).Cmd(),
		statuscmd.New(ctx).Cmd(),
		redflagcmd.New(ctx).Cmd(),
		interviewcmd.New(ctx).Cmd(),
		todocmd.New(ctx).Cmd(),
		waitcmd.New(ctx).Cmd(),
		listcmd.New(ctx).Cmd(),
		showcmd.New(ctx).Cmd(),
		searchcmd.New(ctx).Cmd(),
		reindexcmd.New(ctx).Cmd(),
		exportcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}
