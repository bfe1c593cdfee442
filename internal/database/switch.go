package database

import (
	"fmt"
	"log"
	"sync"

	"github.com/blackeyes972/budget-familiare/internal/catalog"
)

// switchMu serializes whole migrations. Two concurrent switches against
// the same destination would interleave category upserts and id
// mapping; one at a time is cheap and correct.
var switchMu sync.Mutex

// Switch migrates all data from the source store into the store
// described by toType/toParams and returns a manager for the new store.
//
// The protocol is single-pass with no rollback: export everything from
// the source, open and prepare the destination (schema + default
// catalog), upsert categories by natural key, then import transactions
// with ids remapped through the natural-key join. Partial success is an
// accepted outcome; the returned stats say exactly what was imported
// and what was skipped. If the destination cannot be opened or prepared
// nothing has been touched and the source stays authoritative.
func Switch(from *Manager, toType string, toParams Params, dataDir string, logMode bool) (*Manager, *ImportStats, error) {
	switchMu.Lock()
	defer switchMu.Unlock()

	data, err := from.ExportAll()
	if err != nil {
		return nil, nil, fmt.Errorf("export source data: %w", err)
	}
	log.Printf("migration: exported %d categories, %d transactions from %s",
		len(data.Categories), len(data.Transactions), from.Type())

	// Open also creates the schema; a failure here aborts before any
	// pointer change, leaving the previous store authoritative.
	to, err := Open(toType, toParams, dataDir, logMode)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare destination store: %w", err)
	}

	if err := to.CheckSchema(); err != nil {
		if repairErr := to.RepairSchema(); repairErr != nil {
			_ = to.Close()
			return nil, nil, fmt.Errorf("destination schema outdated: %w", repairErr)
		}
	}

	// The default catalog is ensured unconditionally, even when user
	// data follows; a destination never starts without it.
	if err := catalog.EnsureDefaults(to.DB()); err != nil {
		_ = to.Close()
		return nil, nil, fmt.Errorf("ensure default categories: %w", err)
	}

	stats := &ImportStats{}
	if len(data.Categories) > 0 || len(data.Transactions) > 0 {
		stats, err = to.Import(data)
		if err != nil {
			// Partial imports are reported, not rolled back.
			log.Printf("migration: import finished with error: %v", err)
		}
	}
	log.Printf("migration: %d categories created, %d updated; %d transactions imported, %d updated, %d skipped",
		stats.CategoriesCreated, stats.CategoriesUpdated,
		stats.TransactionsImported, stats.TransactionsUpdated, stats.TransactionsSkipped)

	return to, stats, nil
}
