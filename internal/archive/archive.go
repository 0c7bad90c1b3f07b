// Package archive moves closed leads from the active store to the archive
// store and persists both.
//
// The two documents are written one after the other with no transaction
// spanning them. If the process stops after the archive write but before the
// active write, the lead appears in both stores. If the archive write fails,
// the active document is left as it was and the close is lost from memory.
package archive

import (
	"fmt"
	"time"

	"github.com/go-ports/leads/internal/models"
	"github.com/go-ports/leads/internal/persist"
	"github.com/go-ports/leads/internal/store"
)

// Transfer closes the selected lead in active and appends it, with its closing
// status entry, to archive under the same company. It returns the lead's index
// in the archive.
func Transfer(
	active, archived *store.Store,
	at time.Time,
	company models.CompanyName,
	index *int,
	reason string,
) (int, error) {
	lead, err := active.CloseLead(at, company, index, reason)
	if err != nil {
		return 0, err
	}
	return archived.Append(company, lead), nil
}

// Commit writes the archive document first, then the active one.
func Commit(active, archived *store.Store, activePath, archivePath string) error {
	if err := persist.Save(archivePath, archived); err != nil {
		return fmt.Errorf("archive.Commit: %w", err)
	}
	if err := persist.Save(activePath, active); err != nil {
		return fmt.Errorf("archive.Commit: %w", err)
	}
	return nil
}
