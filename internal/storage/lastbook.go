// ABOUTME: Sidecar file remembering the most recently logged book title
// ABOUTME: Used to prefill the book on the next entry; read failures are silent

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultLastBookFile is the sidecar file name inside the data directory.
const DefaultLastBookFile = "last_book.json"

type lastBookFile struct {
	Book string `json:"book"`
}

// LastBook persists the last-used book title next to the local store.
type LastBook struct {
	path string
}

// NewLastBook returns a sidecar stored at path.
func NewLastBook(path string) *LastBook {
	return &LastBook{path: path}
}

// Get returns the remembered title, or "" when the file is absent or unreadable.
func (l *LastBook) Get() string {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return ""
	}
	var f lastBookFile
	if err := json.Unmarshal(data, &f); err != nil {
		return ""
	}
	return strings.TrimSpace(f.Book)
}

// Set remembers book. Blank titles are ignored.
func (l *LastBook) Set(book string) error {
	book = strings.TrimSpace(book)
	if book == "" {
		return nil
	}
	data, err := json.Marshal(lastBookFile{Book: book})
	if err != nil {
		return fmt.Errorf("marshal last book: %w", err)
	}
	return AtomicWrite(l.path, data)
}
