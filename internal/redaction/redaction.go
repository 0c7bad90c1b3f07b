// Package redaction scrubs secrets from the free text attached to leads.
package redaction

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// IgnoreFile is the per-home file holding extra patterns, one per line.
const IgnoreFile = ".leadsignore"

const replacement = "[REDACTED]"

// builtin covers credentials that tend to get pasted from application
// portals and onboarding emails.
var builtin = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)passcode\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)token\s*[:=]\s*\S+`),
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                // US SSN
	regexp.MustCompile(`ghp_[a-zA-Z0-9]+`),                     // GitHub PATs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),                     // AWS access key IDs
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+`), // JWTs in magic links
}

// secretTagRe matches explicit <secret>...</secret> pairs, across lines.
var secretTagRe = regexp.MustCompile(`(?s)<secret>.*?</secret>`)

// Redactor applies the built-in patterns plus any user-supplied ones.
// A nil *Redactor returns text unchanged.
type Redactor struct {
	extra []*regexp.Regexp
}

// New returns a Redactor with the given extra patterns.
func New(extra ...*regexp.Regexp) *Redactor {
	return &Redactor{extra: extra}
}

// Load builds a Redactor from the ignore file at path. A missing file yields
// a Redactor with only the built-in patterns.
func Load(path string) (*Redactor, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var extra []*regexp.Regexp
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		re, err := regexp.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		extra = append(extra, re)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(extra...), nil
}

// Redact returns text with explicit <secret> spans, built-in patterns and
// extra patterns replaced by [REDACTED]. Unpaired tags are dropped.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	text = secretTagRe.ReplaceAllString(text, replacement)
	text = strings.ReplaceAll(text, "<secret>", "")
	text = strings.ReplaceAll(text, "</secret>", "")

	for _, re := range builtin {
		text = re.ReplaceAllString(text, replacement)
	}
	for _, re := range r.extra {
		text = re.ReplaceAllString(text, replacement)
	}
	return text
}
