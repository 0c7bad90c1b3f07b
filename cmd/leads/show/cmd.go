// Package showcmd implements the `leads show` command.
package showcmd

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-ports/leads/cmd/leads/shared"
	"github.com/go-ports/leads/internal/markdown"
	"github.com/go-ports/leads/internal/service"
)

const dateLayout = "2006-01-02 15:04"

// Command implements `leads show`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	position int
	archived bool
	format   string
}

// New creates the show command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "show <company>",
		Short: "Show everything recorded for a company",
		Long: "Show notes, interviews, red flags, the status timeline and tasks of a\n" +
			"company's positions. Without --position every position is shown.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	f := c.cmd.Flags()
	shared.AddPositionFlag(c.cmd, &c.position)
	f.BoolVar(&c.archived, "archive", false, "Look in the archive")
	f.StringVar(&c.format, "format", "text", "Output format: text | markdown")

	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if c.format != "text" && c.format != "markdown" {
		return fmt.Errorf("unknown format %q (want text or markdown)", c.format)
	}

	svc, err := c.ctx.Service()
	if err != nil {
		return err
	}
	defer svc.Close()

	entries, err := svc.Show(shared.Target(cmd, args[0], c.position), c.archived)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.format == "markdown" {
		fmt.Fprintf(out, "# %s\n", entries[0].Company)
		for _, e := range entries {
			fmt.Fprintf(out, "\n%s\n", markdown.RenderLead(e.Index, &e.Lead))
		}
		return nil
	}
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeText(out, e, svc.Location())
	}
	return nil
}

func writeText(out io.Writer, e service.Entry, loc *time.Location) {
	l := e.Lead
	stamp := func(t time.Time) string { return t.In(loc).Format(dateLayout) }

	fmt.Fprintf(out, "%s #%d: %s\n", e.Company, e.Index, l.Position)
	fmt.Fprintf(out, "  Source: %s\n", l.Source)

	if len(l.Notes) > 0 {
		fmt.Fprintln(out, "  Notes:")
		categories := make([]string, 0, len(l.Notes))
		for k := range l.Notes {
			categories = append(categories, k)
		}
		slices.Sort(categories)
		for _, cat := range categories {
			for _, n := range l.Notes[cat] {
				fmt.Fprintf(out, "    [%s] %s\n", cat, n)
			}
		}
	}

	if len(l.Interviews) > 0 {
		fmt.Fprintln(out, "  Interviews:")
		for _, iv := range l.Interviews {
			fmt.Fprintf(out, "    %s\n", iv.Name)
			for _, n := range iv.Interview.PreNotes {
				fmt.Fprintf(out, "      before: %s\n", n)
			}
			for _, n := range iv.Interview.PostNotes {
				fmt.Fprintf(out, "      after: %s\n", n)
			}
		}
	}

	if len(l.RedFlags) > 0 {
		fmt.Fprintln(out, "  Red flags:")
		for _, f := range l.RedFlags {
			fmt.Fprintf(out, "    ! %s\n", f)
		}
	}

	fmt.Fprintln(out, "  Timeline:")
	for _, u := range l.StatusUpdates.Entries() {
		fmt.Fprintf(out, "    %s  %s\n", stamp(u.At), u.Message)
	}

	if len(l.Todo) > 0 {
		fmt.Fprintln(out, "  Todo:")
		for i, t := range l.Todo {
			fmt.Fprintf(out, "    %d. %s (due %s)\n", i, t.Action, stamp(t.Deadline))
		}
	}

	if len(l.Wait) > 0 {
		fmt.Fprintln(out, "  Waiting on:")
		for i, w := range l.Wait {
			if w.Expected != nil {
				fmt.Fprintf(out, "    %d. %s (expected %s)\n", i, w.Action, stamp(*w.Expected))
			} else {
				fmt.Fprintf(out, "    %d. %s\n", i, w.Action)
			}
		}
	}
}
