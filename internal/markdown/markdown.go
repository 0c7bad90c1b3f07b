// Package markdown renders leads as Obsidian-compatible markdown.
package markdown

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-ports/leads/internal/models"
)

const stampLayout = "2006-01-02 15:04 MST"

func stamp(t time.Time) string { return t.UTC().Format(stampLayout) }

// RenderLead produces a single ## block for the lead at index. Sections are
// separated by one blank line whichever of them are present.
func RenderLead(index int, lead *models.Lead) string {
	var head strings.Builder
	head.WriteString("## ")
	head.WriteString(strconv.Itoa(index))
	head.WriteString(". ")
	head.WriteString(lead.Position)
	if lead.Source != "" {
		head.WriteString("\n**Source:** ")
		head.WriteString(lead.Source)
	}
	blocks := []string{head.String()}

	if lead.StatusUpdates.Len() > 0 {
		blocks = append(blocks, section("Status", func(sb *strings.Builder) {
			for _, u := range lead.StatusUpdates.Entries() {
				sb.WriteString("- ")
				sb.WriteString(stamp(u.At))
				sb.WriteString(" ")
				sb.WriteString(u.Message)
				sb.WriteString("\n")
			}
		}))
	}

	if len(lead.Notes) > 0 {
		blocks = append(blocks, section("Notes", func(sb *strings.Builder) {
			for _, cat := range sortedKeys(lead.Notes) {
				sb.WriteString("#### ")
				sb.WriteString(cat)
				sb.WriteString("\n")
				writeList(sb, lead.Notes[cat])
			}
		}))
	}

	if len(lead.Interviews) > 0 {
		blocks = append(blocks, section("Interviews", func(sb *strings.Builder) {
			for _, e := range lead.Interviews {
				sb.WriteString("#### ")
				sb.WriteString(e.Name.String())
				sb.WriteString("\n")
				if len(e.Interview.PreNotes) > 0 {
					sb.WriteString("Before:\n")
					writeList(sb, e.Interview.PreNotes)
				}
				if len(e.Interview.PostNotes) > 0 {
					sb.WriteString("After:\n")
					writeList(sb, e.Interview.PostNotes)
				}
			}
		}))
	}

	if len(lead.RedFlags) > 0 {
		blocks = append(blocks, section("Red flags", func(sb *strings.Builder) {
			writeList(sb, lead.RedFlags)
		}))
	}

	if len(lead.Todo) > 0 {
		blocks = append(blocks, section("Todo", func(sb *strings.Builder) {
			for i, t := range lead.Todo {
				fmt.Fprintf(sb, "- [ ] %d. %s (due %s)\n", i, t.Action, stamp(t.Deadline))
			}
		}))
	}

	if len(lead.Wait) > 0 {
		blocks = append(blocks, section("Waiting on", func(sb *strings.Builder) {
			for i, w := range lead.Wait {
				fmt.Fprintf(sb, "- %d. %s", i, w.Action)
				if w.Expected != nil {
					fmt.Fprintf(sb, " (expected %s)", stamp(*w.Expected))
				}
				sb.WriteString("\n")
			}
		}))
	}

	return strings.Join(blocks, "\n\n")
}

// RenderCompany produces a full document for every position at company,
// with front-matter listing the positions and their sources.
func RenderCompany(company models.CompanyName, leads []models.Lead, exported time.Time) string {
	positions := make([]string, 0, len(leads))
	var sources []string
	for i := range leads {
		positions = append(positions, leads[i].Position)
		sources = append(sources, leads[i].Source)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString("company: ")
	sb.WriteString(company.String())
	sb.WriteString("\n")
	sb.WriteString("positions: [")
	sb.WriteString(strings.Join(positions, ", "))
	sb.WriteString("]\n")
	sb.WriteString("sources: [")
	sb.WriteString(strings.Join(sortedUniq(sources), ", "))
	sb.WriteString("]\n")
	sb.WriteString("exported: ")
	sb.WriteString(exported.UTC().Format(time.RFC3339))
	sb.WriteString("\n")
	sb.WriteString("---\n")
	sb.WriteString("\n# ")
	sb.WriteString(company.String())
	sb.WriteString("\n")

	for i := range leads {
		sb.WriteString("\n")
		sb.WriteString(RenderLead(i, &leads[i]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteCompany writes RenderCompany's output to <dir>/<company>.md, creating
// dir when needed, and returns the file path.
func WriteCompany(dir string, company models.CompanyName, leads []models.Lead, exported time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(company))
	content := RenderCompany(company, leads, exported)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- exported notes are meant to be shared with a vault
		return "", err
	}
	return path, nil
}

// FileName maps a company to a file name, replacing characters that are not
// safe in paths with '_'.
func FileName(company models.CompanyName) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r < ' ':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(company.String()))
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return name + ".md"
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// section renders a ### block without its trailing newline.
func section(title string, body func(sb *strings.Builder)) string {
	var sb strings.Builder
	sb.WriteString("### ")
	sb.WriteString(title)
	sb.WriteString("\n")
	body(&sb)
	return strings.TrimRight(sb.String(), "\n")
}

func writeList(sb *strings.Builder, items []string) {
	for _, it := range items {
		sb.WriteString("- ")
		sb.WriteString(it)
		sb.WriteString("\n")
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedUniq(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
