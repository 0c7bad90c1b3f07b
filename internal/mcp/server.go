// Package mcp provides the stdio MCP server exposing lead tools for agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/leads/internal/buildinfo"
	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/service"
	"github.com/go-ports/leads/internal/when"
)

const listDescription = `List tracked job leads: every open position per company with its latest status and pending todos/waits. Set archived to list closed leads instead. Call this first to learn which companies and position indices exist.` //nolint:lll

const showDescription = `Show everything recorded for a company: notes, interviews, red flags, the status timeline, todos and waits. Give index to select one position when the company has several.` //nolint:lll

const searchDescription = `Full-text search over notes, statuses, interview notes, red flags and tasks of both open and closed leads. Returns matches ranked by relevance.` //nolint:lll

const noteDescription = `Add a note to a lead under a category (e.g. "salary", "stack", "contacts"). Secrets such as passwords are redacted before saving.` //nolint:lll

const statusDescription = `Record a status update on a lead's timeline, e.g. "Applied", "Recruiter call". when accepts YYYY-MM-DD [HH:MM:SS], "today", or offsets like "-2h"; it defaults to now. An update at an instant that already has one replaces it.` //nolint:lll

// NewServer creates and registers all lead tools on a new MCP server.
// It is separate from Serve so tests can obtain a configured server without
// the stdio transport.
func NewServer(svc *service.Service) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("leads", buildinfo.Version)
	registerTools(s, svc)
	return s
}

// Serve starts the stdio MCP server for the leads home, blocking until stdin
// closes.
func Serve(_ context.Context, home string) error {
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("mcp: init service: %w", err)
	}
	defer svc.Close()

	return mcpserver.ServeStdio(NewServer(svc))
}

// registerTools wires all MCP tools into the server.
func registerTools(s *mcpserver.MCPServer, svc *service.Service) {
	s.AddTool(mcp.NewTool("leads_list",
		mcp.WithDescription(listDescription),
		mcp.WithBoolean("archived",
			mcp.Description("List closed leads from the archive."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("leads_show",
		mcp.WithDescription(showDescription),
		mcp.WithString("company",
			mcp.Description("Company name, exactly as listed."),
			mcp.Required(),
		),
		mcp.WithNumber("index",
			mcp.Description("Position index within the company. Omit to show all positions."),
		),
		mcp.WithBoolean("archived",
			mcp.Description("Look in the archive."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleShow(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("leads_search",
		mcp.WithDescription(searchDescription),
		mcp.WithString("query",
			mcp.Description("Search terms"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default 10)"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearch(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("leads_note",
		mcp.WithDescription(noteDescription),
		mcp.WithString("company", mcp.Description("Company name."), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Position index; required when the company has several.")),
		mcp.WithString("category", mcp.Description("Note category."), mcp.Required()),
		mcp.WithString("text", mcp.Description("Note text."), mcp.Required()),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNote(ctx, svc, req)
	})

	s.AddTool(mcp.NewTool("leads_status",
		mcp.WithDescription(statusDescription),
		mcp.WithString("company", mcp.Description("Company name."), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Position index; required when the company has several.")),
		mcp.WithString("text", mcp.Description("Status text."), mcp.Required()),
		mcp.WithString("when", mcp.Description("When it happened (default: now).")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleStatus(ctx, svc, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleList(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := svc.List(req.GetBool("archived", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	leads := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		item := map[string]any{
			"company":  e.Company,
			"index":    e.Index,
			"position": e.Lead.Position,
			"todo":     len(e.Lead.Todo),
			"wait":     len(e.Lead.Wait),
		}
		if last, ok := e.Lead.LastStatus(); ok {
			item["status"] = truncate(last.Message, 80)
			item["updated"] = formatDate(last.At)
		}
		leads = append(leads, item)
	}
	return jsonResult(map[string]any{
		"total": len(leads),
		"leads": leads,
	})
}

func handleShow(_ context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := targetFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entries, err := svc.Show(target, req.GetBool("archived", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"company": e.Company,
			"index":   e.Index,
			"lead":    e.Lead,
		})
	}
	return jsonResult(out)
}

func handleSearch(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	hits, err := svc.Search(ctx, req.GetString("query", ""), limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	clean := make([]map[string]any, 0, len(hits))
	for _, h := range hits {
		clean = append(clean, map[string]any{
			"company":  h.Company,
			"index":    h.Index,
			"position": h.Position,
			"archived": h.Archived,
			"kind":     h.Kind,
			"label":    h.Label,
			"snippet":  h.Snippet,
			"score":    roundTwo(h.Score),
		})
	}
	return jsonResult(clean)
}

func handleNote(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := targetFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := svc.Run(ctx, service.Note{
		Target:   target,
		Category: req.GetString("category", ""),
		Text:     req.GetString("text", ""),
	})
	return runResult(res, err)
}

func handleStatus(ctx context.Context, svc *service.Service, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := targetFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	at, err := when.Parse(req.GetString("when", ""), time.Now(), svc.Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := svc.Run(ctx, service.Status{
		Target: target,
		At:     at,
		Text:   req.GetString("text", ""),
	})
	return runResult(res, err)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// targetFrom reads company and the optional index argument.
func targetFrom(req mcp.CallToolRequest) (service.Target, error) {
	company := req.GetString("company", "")
	if company == "" {
		return service.Target{}, errors.New("company is required")
	}
	index, err := optionalIndex(req.GetArguments()["index"])
	if err != nil {
		return service.Target{}, err
	}
	return service.Target{Company: models.NewCompanyName(company), Index: index}, nil
}

// optionalIndex converts a JSON number argument into an index. nil stays nil.
func optionalIndex(v any) (*int, error) {
	var i int
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("index must be a whole number, got %v", n)
		}
		i = int(n)
	case int:
		i = n
	default:
		return nil, fmt.Errorf("index must be a number, got %T", v)
	}
	return &i, nil
}

func runResult(res *service.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"company":  res.Company,
		"index":    res.Index,
		"archived": res.Archived,
		"message":  res.Message,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return s
}

func formatDate(t time.Time) string {
	return t.UTC().Format("Jan 02")
}

// roundTwo rounds f to 2 decimal places.
func roundTwo(f float64) float64 {
	return math.Round(f*100) / 100
}
