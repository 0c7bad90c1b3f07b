// Package persist loads and saves lead stores as whole documents.
//
// A document maps company names to arrays of leads. Files ending in .yaml or
// .yml are YAML; anything else is JSON. Saving overwrites the file in place:
// there is no temporary file, no rename, and no lock, so concurrent writers
// race and the last one wins.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/store"
)

// ErrPersistence is matched by every error returned from Load and Save.
var ErrPersistence = errors.New("persistence failure")

// errEmptyDocument rejects a file that exists but holds nothing. Save always
// writes at least "{}", so a blank file is a truncated one.
var errEmptyDocument = errors.New("empty document")

// PersistenceError records the operation and path that failed.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type document = map[models.CompanyName][]models.Lead

// Load reads the store at path. A missing file yields an empty store; a blank
// one is an error.
func Load(path string) (*store.Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.New(), nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &PersistenceError{Op: "load", Path: path, Err: errEmptyDocument}
	}

	var doc document
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return store.FromMap(doc), nil
}

// Encode renders s in the given format.
func Encode(s *store.Store, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(s.Map())
	}
	data, err := json.MarshalIndent(s.Map(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save overwrites the file at path with s, creating parent directories.
func Save(path string, s *store.Store) error {
	data, err := Encode(s, FormatFor(path))
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}
