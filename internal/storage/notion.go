// ABOUTME: Remote store adapter writing entries to and reading entries from a Notion database
// ABOUTME: Reports unconfigured state without I/O and turns transport failures into RemoteError

package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/notion"
)

// DefaultQueryLimit caps how many remote pages a read fetches.
const DefaultQueryLimit = 200

// NotionStore is the remote backend.
type NotionStore struct {
	client     *notion.Client
	schema     notion.Schema
	queryLimit int
	configured bool
	logger     *zap.Logger
}

// NotionOptions configures a NotionStore.
type NotionOptions struct {
	Client     notion.Config
	Schema     notion.Schema
	QueryLimit int
}

// NewNotionStore builds the remote store. It is unconfigured when the token or
// database id is empty.
func NewNotionStore(ctx context.Context, opts NotionOptions, logger *zap.Logger) *NotionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = DefaultQueryLimit
	}
	if opts.Schema == (notion.Schema{}) {
		opts.Schema = notion.DefaultSchema()
	}

	return &NotionStore{
		client:     notion.NewClient(ctx, opts.Client),
		schema:     opts.Schema,
		queryLimit: opts.QueryLimit,
		configured: opts.Client.Token != "" && opts.Client.DatabaseID != "",
		logger:     logger.Named("notion"),
	}
}

func (s *NotionStore) Name() string { return "notion" }

func (s *NotionStore) Configured() bool { return s.configured }

// Write creates one page for e.
func (s *NotionStore) Write(ctx context.Context, e models.Entry) error {
	if !s.configured {
		return ErrUnconfigured
	}
	if err := s.client.CreatePage(ctx, notion.BuildPage(e, s.schema)); err != nil {
		return &RemoteError{Backend: s.Name(), Msg: remoteMessage(err), Err: err}
	}
	return nil
}

// Read queries the database. Failures are logged and read as no records so
// the caller falls back to the local store.
func (s *NotionStore) Read(ctx context.Context) ([]models.Entry, error) {
	if !s.configured {
		return nil, ErrUnconfigured
	}

	pages, err := s.client.QueryDatabase(ctx, s.queryLimit)
	if err != nil {
		s.logger.Warn("remote read failed", zap.Error(&RemoteError{Backend: s.Name(), Msg: remoteMessage(err), Err: err}))
		return []models.Entry{}, nil
	}

	entries := make([]models.Entry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, notion.EntryFromPage(p, s.schema))
	}
	return entries, nil
}

// remoteMessage produces the short diagnostic shown to the user.
func remoteMessage(err error) string {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out"
	}
	return err.Error()
}
