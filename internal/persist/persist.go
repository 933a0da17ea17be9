// ABOUTME: Persistence coordinator that writes through prioritized stores with fallback
// ABOUTME: Reports every attempt and loads one unified view from the first store holding data

package persist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/storage"
)

// Attempt outcome labels.
const (
	OutcomeSaved   = "saved"
	OutcomeSkipped = "skipped (unconfigured)"
	OutcomeFailed  = "failed"
)

// Attempt records what happened at one store during a save.
type Attempt struct {
	Store   string
	Outcome string
	Err     error
}

// SaveResult describes a completed save walk.
type SaveResult struct {
	Entry    models.Entry
	SavedTo  string
	Attempts []Attempt
}

// Saved reports whether any store accepted the entry.
func (r *SaveResult) Saved() bool {
	return r.SavedTo != ""
}

// FellBack reports whether the entry landed somewhere other than the first
// configured store.
func (r *SaveResult) FellBack() bool {
	for _, a := range r.Attempts {
		if a.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Message renders the outcome for the user, e.g.
// "notion: error 400: invalid; saved to local csv".
func (r *SaveResult) Message() string {
	var parts []string
	for _, a := range r.Attempts {
		if a.Outcome == OutcomeFailed {
			parts = append(parts, a.Err.Error())
		}
	}
	if r.Saved() {
		parts = append(parts, "saved to "+r.SavedTo)
	} else {
		parts = append(parts, "not saved")
	}
	return strings.Join(parts, "; ")
}

// View is the unified set of entries and the store it came from.
type View struct {
	Source  string
	Entries []models.Entry
}

// Coordinator walks stores in priority order. The last store is the
// authoritative local fallback.
type Coordinator struct {
	stores   []storage.Store
	local    storage.LocalStore
	lastBook *storage.LastBook
	logger   *zap.Logger
}

// New builds a coordinator that tries remotes in order, then local.
func New(local storage.LocalStore, lastBook *storage.LastBook, logger *zap.Logger, remotes ...storage.Store) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	stores := make([]storage.Store, 0, len(remotes)+1)
	stores = append(stores, remotes...)
	stores = append(stores, local)

	return &Coordinator{
		stores:   stores,
		local:    local,
		lastBook: lastBook,
		logger:   logger.Named("persist"),
	}
}

// Stores returns the stores in priority order.
func (c *Coordinator) Stores() []storage.Store {
	return c.stores
}

// Local returns the authoritative local store.
func (c *Coordinator) Local() storage.LocalStore {
	return c.local
}

// LastBook returns the remembered book title, or "".
func (c *Coordinator) LastBook() string {
	if c.lastBook == nil {
		return ""
	}
	return c.lastBook.Get()
}

// Save persists e to the first store that accepts it. New entries receive an
// identifier. An error is returned only when every store failed.
func (c *Coordinator) Save(ctx context.Context, e models.Entry) (*SaveResult, error) {
	e.EnsureID()
	result := &SaveResult{Entry: e}

	for _, s := range c.stores {
		if !s.Configured() {
			result.Attempts = append(result.Attempts, Attempt{Store: s.Name(), Outcome: OutcomeSkipped})
			continue
		}

		err := s.Write(ctx, e)
		if errors.Is(err, storage.ErrUnconfigured) {
			result.Attempts = append(result.Attempts, Attempt{Store: s.Name(), Outcome: OutcomeSkipped})
			continue
		}
		if err != nil {
			c.logger.Warn("store write failed", zap.String("store", s.Name()), zap.Error(err))
			result.Attempts = append(result.Attempts, Attempt{Store: s.Name(), Outcome: OutcomeFailed, Err: err})
			continue
		}

		result.Attempts = append(result.Attempts, Attempt{Store: s.Name(), Outcome: OutcomeSaved})
		result.SavedTo = s.Name()
		break
	}

	if !result.Saved() {
		var errs []error
		for _, a := range result.Attempts {
			if a.Err != nil {
				errs = append(errs, a.Err)
			}
		}
		if len(errs) == 0 {
			return result, errors.New("save entry: no store is configured")
		}
		return result, fmt.Errorf("save entry: %w", errors.Join(errs...))
	}

	if c.lastBook != nil {
		if err := c.lastBook.Set(e.Book); err != nil {
			c.logger.Warn("remember last book", zap.Error(err))
		}
	}
	return result, nil
}

// LoadUnified returns the entries of the first configured store that holds
// at least one record, else the local table. Stores are never merged.
func (c *Coordinator) LoadUnified(ctx context.Context) View {
	for _, s := range c.stores[:len(c.stores)-1] {
		if !s.Configured() {
			continue
		}
		entries, err := s.Read(ctx)
		if err != nil {
			c.logger.Debug("store read failed", zap.String("store", s.Name()), zap.Error(err))
			continue
		}
		if len(entries) > 0 {
			return View{Source: s.Name(), Entries: entries}
		}
	}
	return View{Source: c.local.Name(), Entries: c.local.Load().Entries()}
}
