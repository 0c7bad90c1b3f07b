// Package setup registers and unregisters the leads MCP server with
// supported agents (Claude Code, Cursor).
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/leads/internal/config"
)

// ServerName is the key the MCP server is registered under.
const ServerName = "leads"

// Result is the return value from all Setup/Uninstall functions.
type Result struct {
	Status  string // always "ok"
	Message string
}

func ok(msg string) Result          { return Result{Status: "ok", Message: msg} }
func okf(f string, a ...any) Result { return ok(fmt.Sprintf(f, a...)) }

// mcpEntry is the mcpServers entry launching `leads mcp`. A non-empty
// leadsHome is pinned through the environment so the agent reads the same
// store as the shell.
func mcpEntry(leadsHome string) map[string]any {
	entry := map[string]any{
		"command": "leads",
		"args":    []any{"mcp"},
		"type":    "stdio",
	}
	if leadsHome != "" {
		entry["env"] = map[string]any{config.HomeEnv: leadsHome}
	}
	return entry
}

// ---------------------------------------------------------------------------
// Default path helpers
// ---------------------------------------------------------------------------

// DefaultClaudeHome returns the default ~/.claude directory.
func DefaultClaudeHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// DefaultCursorHome returns the default ~/.cursor directory.
func DefaultCursorHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cursor")
}

//revive:disable:flag-parameter
func claudeMCPPath(claudeHome string, project bool) string {
	if project {
		return filepath.Join(filepath.Dir(claudeHome), ".mcp.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude.json")
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func readJSON(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]any)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]any)
	}
	return m
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent config files (MCP server entries) do not contain secrets
}

// installMCPServer adds the leads entry to the mcpServers map in path.
// An existing entry is left alone.
func installMCPServer(path, leadsHome string) (bool, error) {
	data := readJSON(path)
	servers, _ := data["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data["mcpServers"] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = mcpEntry(leadsHome)
	return true, writeJSON(path, data)
}

// uninstallMCPServer removes the leads entry, deleting the file when nothing
// else is left in it.
func uninstallMCPServer(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data := readJSON(path)
	servers, _ := data["mcpServers"].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, "mcpServers")
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// Claude Code
// ---------------------------------------------------------------------------

// SetupClaudeCode registers the MCP server with Claude Code, in the project's
// .mcp.json when project is set and in ~/.claude.json otherwise.
// claudeHome defaults to ~/.claude when empty.
//
//revive:disable:flag-parameter
func SetupClaudeCode(claudeHome string, project bool, leadsHome string) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	added, err := installMCPServer(path, leadsHome)
	if err != nil {
		return okf("Could not update %s: %v", path, err)
	}
	if !added {
		return ok("Already installed")
	}
	scope := ".mcp.json"
	if !project {
		scope = "~/.claude.json"
	}
	return okf("Installed: mcpServers in %s", scope)
}

// UninstallClaudeCode removes the MCP server from Claude Code.
func UninstallClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	if done, err := uninstallMCPServer(path); err == nil && done {
		return okf("Removed: mcpServers from %s", filepath.Base(path))
	}
	return ok("Nothing to remove")
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// Cursor
// ---------------------------------------------------------------------------

// SetupCursor registers the MCP server in <cursorHome>/mcp.json.
// cursorHome defaults to ~/.cursor when empty.
func SetupCursor(cursorHome, leadsHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	path := filepath.Join(cursorHome, "mcp.json")
	added, err := installMCPServer(path, leadsHome)
	if err != nil {
		return okf("Could not update %s: %v", path, err)
	}
	if !added {
		return ok("Already installed")
	}
	return ok("Installed: mcpServers")
}

// UninstallCursor removes the MCP server from Cursor.
func UninstallCursor(cursorHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	if done, err := uninstallMCPServer(filepath.Join(cursorHome, "mcp.json")); err == nil && done {
		return ok("Removed: mcpServers")
	}
	return ok("Nothing to remove")
}
