// ABOUTME: MCP resource providers for readlog
// ABOUTME: Exposes read-only views of logged sessions and reading statistics

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/readlog/internal/stats"
)

const (
	entriesURI = "readlog://entries"
	statsURI   = "readlog://stats"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
	Source      string    `json:"source"`
}

func (s *Server) registerResources() {
	s.registerEntriesResource()
	s.registerStatsResource()
}

func (s *Server) registerEntriesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         entriesURI,
			Name:        "Reading Sessions",
			Description: "Every logged reading session in the unified view, oldest first",
			MIMEType:    "application/json",
		},
		s.handleEntriesResource,
	)
}

func (s *Server) handleEntriesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	view := s.coord.LoadUnified(ctx)
	s.mu.Unlock()

	return resourceContents(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   s.now(),
			Count:       len(view.Entries),
			ResourceURI: entriesURI,
			Source:      view.Source,
		},
		Data:  view.Entries,
		Links: map[string]string{"stats": statsURI},
	})
}

func (s *Server) registerStatsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         statsURI,
			Name:        "Reading Statistics",
			Description: "Totals, streaks, daily series, mood by time-of-day and per-book totals for all sessions",
			MIMEType:    "application/json",
		},
		s.handleStatsResource,
	)
}

func (s *Server) handleStatsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	view := s.coord.LoadUnified(ctx)
	s.mu.Unlock()

	return resourceContents(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   s.now(),
			Count:       len(view.Entries),
			ResourceURI: statsURI,
			Source:      view.Source,
		},
		Data:  stats.Build(view.Entries, s.now()),
		Links: map[string]string{"entries": entriesURI},
	})
}

func resourceContents(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
