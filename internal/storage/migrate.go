// ABOUTME: Data migration between local storage backends
// ABOUTME: Copies every row, including extra columns, from a source store to a destination store

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated rows.
type MigrateSummary struct {
	Entries int
	Extra   []string
}

// MigrateData copies all rows from src to dst in order. The destination
// must be empty; existing rows would otherwise be replaced.
func MigrateData(src, dst LocalStore) (*MigrateSummary, error) {
	if n := dst.Load().Len(); n > 0 {
		return nil, fmt.Errorf("destination %s already holds %d entries", dst.Location(), n)
	}

	t := src.Load()
	if err := dst.Overwrite(t); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{Entries: t.Len(), Extra: t.Extra}, nil
}

// IsFileNonEmpty reports whether path exists and has content.
// Returns false if the file does not exist.
func IsFileNonEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.Size() > 0, nil
}
