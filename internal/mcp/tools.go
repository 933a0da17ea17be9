// ABOUTME: MCP tool definitions and handlers for reading-session operations
// ABOUTME: Provides tools for logging, listing, editing and summarizing sessions

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/readlog/internal/edit"
	"github.com/harper/readlog/internal/models"
	"github.com/harper/readlog/internal/persist"
	"github.com/harper/readlog/internal/stats"
	"github.com/harper/readlog/internal/timeutil"
)

// Type definitions for input/output structures

type LogEntryInput struct {
	Book      string `json:"book,omitempty"`
	Date      string `json:"date,omitempty"`
	Pages     any    `json:"pages,omitempty"`
	Minutes   any    `json:"minutes,omitempty"`
	Mood      string `json:"mood,omitempty"`
	TimeOfDay string `json:"time_of_day"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"`
}

type AttemptOutput struct {
	Store   string  `json:"store"`
	Outcome string  `json:"outcome"`
	Error   *string `json:"error,omitempty"`
}

type LogEntryOutput struct {
	Entry    models.Entry    `json:"entry"`
	SavedTo  string          `json:"saved_to"`
	FellBack bool            `json:"fell_back"`
	Message  string          `json:"message"`
	Attempts []AttemptOutput `json:"attempts"`
}

type ListEntriesInput struct {
	Period *string `json:"period,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
	Local  *bool   `json:"local,omitempty"`
}

type EntryOutput struct {
	models.Entry
	Selector string `json:"selector,omitempty"`
}

type ListEntriesOutput struct {
	Source  string         `json:"source"`
	Entries []EntryOutput  `json:"entries"`
	Count   int            `json:"count"`
	Filters map[string]any `json:"filters"`
}

type EditEntryInput struct {
	Selector  string  `json:"selector"`
	Date      *string `json:"date,omitempty"`
	Book      *string `json:"book,omitempty"`
	Pages     any     `json:"pages,omitempty"`
	Minutes   any     `json:"minutes,omitempty"`
	Mood      *string `json:"mood,omitempty"`
	TimeOfDay *string `json:"time_of_day,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type EditEntryOutput struct {
	Entry    models.Entry `json:"entry"`
	Selector string       `json:"selector"`
	Message  string       `json:"message"`
}

type GetStatsInput struct {
	Period *string `json:"period,omitempty"`
}

type GetStatsOutput struct {
	Source string       `json:"source"`
	Period string       `json:"period,omitempty"`
	Report stats.Report `json:"report"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerLogEntryTool()
	s.registerListEntriesTool()
	s.registerEditEntryTool()
	s.registerGetStatsTool()
}

func (s *Server) registerLogEntryTool() {
	tool := mcp.Tool{
		Name:        "log_entry",
		Description: "Log one reading session. The entry is written to Notion when configured and falls back to the local store otherwise. Book defaults to the last logged title and date defaults to today. Returns the saved entry and where it landed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"book": map[string]interface{}{
					"type":        "string",
					"description": "Book title. Defaults to the most recently logged book. Example: 'Dune'",
				},
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Session date: 'today', 'yesterday', or YYYY-MM-DD. Defaults to today.",
				},
				"pages": map[string]interface{}{
					"type":        "integer",
					"description": "Pages read (non-negative)",
				},
				"minutes": map[string]interface{}{
					"type":        "integer",
					"description": "Minutes read (non-negative)",
				},
				"mood": map[string]interface{}{
					"type":        "string",
					"description": "Mood label such as Focused, Relaxed, Tired. Defaults to Neutral.",
				},
				"time_of_day": map[string]interface{}{
					"type":        "string",
					"enum":        []string{models.AM, models.PM},
					"description": "AM or PM",
				},
				"notes": map[string]interface{}{
					"type":        "string",
					"description": "Optional free-text notes",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"enum":        models.Statuses,
					"description": "Optional reading status",
				},
			},
			Required: []string{"time_of_day"},
		},
	}
	s.mcpServer.AddTool(tool, s.serialized(tool.Name, s.handleLogEntry))
}

func (s *Server) registerListEntriesTool() {
	tool := mcp.Tool{
		Name:        "list_entries",
		Description: "List logged reading sessions, newest last. Reads Notion when it holds entries and the local store otherwise. Local rows carry a selector that edit_entry accepts; set local=true to list the editable local store.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"period": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"today", "yesterday", "week", "month"},
					"description": "Only include sessions on or after the start of this period",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Return at most this many of the most recent sessions",
				},
				"local": map[string]interface{}{
					"type":        "boolean",
					"description": "List the local store even when Notion is configured",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.serialized(tool.Name, s.handleListEntries))
}

func (s *Server) registerEditEntryTool() {
	tool := mcp.Tool{
		Name:        "edit_entry",
		Description: "Edit one session in the local store. Address it with the selector from list_entries (position:date:book) or an id prefix of at least 6 characters. Only the provided fields change. Fails if the row changed since it was listed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"selector": map[string]interface{}{
					"type":        "string",
					"description": "Row selector from list_entries. Example: '3:2024-01-02:Dune'",
				},
				"date":        map[string]interface{}{"type": "string", "description": "New date"},
				"book":        map[string]interface{}{"type": "string", "description": "New book title"},
				"pages":       map[string]interface{}{"type": "integer", "description": "New page count"},
				"minutes":     map[string]interface{}{"type": "integer", "description": "New minute count"},
				"mood":        map[string]interface{}{"type": "string", "description": "New mood"},
				"time_of_day": map[string]interface{}{"type": "string", "enum": []string{models.AM, models.PM}},
				"notes":       map[string]interface{}{"type": "string", "description": "New notes"},
				"status":      map[string]interface{}{"type": "string", "description": "New reading status, empty to clear"},
			},
			Required: []string{"selector"},
		},
	}
	s.mcpServer.AddTool(tool, s.serialized(tool.Name, s.handleEditEntry))
}

func (s *Server) registerGetStatsTool() {
	tool := mcp.Tool{
		Name:        "get_stats",
		Description: "Compute reading statistics over the unified view: totals, averages per habit day, daily series, per time-of-day series, mood by time-of-day cross tab, streaks and per-book totals.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"period": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"today", "yesterday", "week", "month"},
					"description": "Only include sessions on or after the start of this period",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.serialized(tool.Name, s.handleGetStats))
}

// Tool handlers

func (s *Server) handleLogEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input LogEntryInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	raw := models.RawEntry{
		Date:      input.Date,
		Book:      input.Book,
		Pages:     input.Pages,
		Minutes:   input.Minutes,
		Mood:      input.Mood,
		TimeOfDay: input.TimeOfDay,
		Notes:     input.Notes,
		Status:    input.Status,
	}
	if raw.Book == "" {
		raw.Book = s.coord.LastBook()
	}
	if raw.Date == "" {
		raw.Date = timeutil.FormatDate(s.now())
	}

	entry, err := models.Validate(raw, s.opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.coord.Save(ctx, models.NewEntry(entry))
	if err != nil {
		return nil, fmt.Errorf("failed to log entry: %w", err)
	}

	output := LogEntryOutput{
		Entry:    result.Entry,
		SavedTo:  result.SavedTo,
		FellBack: result.FellBack(),
		Message:  result.Message(),
		Attempts: attemptOutputs(result.Attempts),
	}
	return jsonResult(output)
}

func (s *Server) handleListEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListEntriesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Limit != nil && *input.Limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", *input.Limit)
	}

	keep, err := periodFilter(input.Period)
	if err != nil {
		return nil, err
	}

	view := s.view(ctx, input.Local != nil && *input.Local)
	numbered := edit.Number(view.Entries, keep)
	if input.Limit != nil && len(numbered) > *input.Limit {
		numbered = numbered[len(numbered)-*input.Limit:]
	}

	editable := view.Source == s.coord.Local().Name()
	entryOutputs := make([]EntryOutput, 0, len(numbered))
	for _, n := range numbered {
		out := EntryOutput{Entry: n.Entry}
		if editable {
			out.Selector = n.Selector.String()
		}
		entryOutputs = append(entryOutputs, out)
	}

	filters := make(map[string]any)
	if input.Period != nil {
		filters["period"] = *input.Period
	}
	if input.Limit != nil {
		filters["limit"] = *input.Limit
	}
	if input.Local != nil {
		filters["local"] = *input.Local
	}

	return jsonResult(ListEntriesOutput{
		Source:  view.Source,
		Entries: entryOutputs,
		Count:   len(entryOutputs),
		Filters: filters,
	})
}

func (s *Server) handleEditEntry(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input EditEntryInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	sel, err := edit.ParseSelector(input.Selector)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	updated, err := edit.Update(s.coord.Local(), sel, s.opts, func(e *models.Entry) {
		if input.Date != nil {
			e.Date = *input.Date
		}
		if input.Book != nil {
			e.Book = *input.Book
		}
		if input.Pages != nil {
			e.Pages = models.Count(input.Pages)
		}
		if input.Minutes != nil {
			e.Minutes = models.Count(input.Minutes)
		}
		if input.Mood != nil {
			e.Mood = *input.Mood
		}
		if input.TimeOfDay != nil {
			e.TimeOfDay = *input.TimeOfDay
		}
		if input.Notes != nil {
			e.Notes = *input.Notes
		}
		if input.Status != nil {
			e.Status = *input.Status
		}
	})

	var verr *models.ValidationError
	var rerr *edit.ResolveError
	switch {
	case errors.As(err, &verr), errors.As(err, &rerr):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		return nil, fmt.Errorf("failed to edit entry: %w", err)
	}

	pos := sel.Position
	if pos < 0 {
		pos, _ = edit.Resolve(s.coord.Local().Load().Entries(), edit.Selector{Position: -1, ID: updated.ID})
	}
	return jsonResult(EditEntryOutput{
		Entry:    updated,
		Selector: edit.SelectorFor(pos, updated).String(),
		Message:  "record updated",
	})
}

func (s *Server) handleGetStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetStatsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	keep, err := periodFilter(input.Period)
	if err != nil {
		return nil, err
	}

	view := s.view(ctx, false)
	entries := view.Entries
	if keep != nil {
		entries = filterEntries(entries, keep)
	}

	output := GetStatsOutput{
		Source: view.Source,
		Report: stats.Build(entries, s.now()),
	}
	if input.Period != nil {
		output.Period = *input.Period
	}
	return jsonResult(output)
}

// Helpers

func (s *Server) view(ctx context.Context, localOnly bool) persist.View {
	if localOnly {
		local := s.coord.Local()
		return persist.View{Source: local.Name(), Entries: local.Load().Entries()}
	}
	return s.coord.LoadUnified(ctx)
}

// periodFilter returns nil when no period is requested.
func periodFilter(period *string) (func(models.Entry) bool, error) {
	if period == nil || *period == "" {
		return nil, nil
	}
	cutoff, ok := timeutil.ParsePeriod(*period)
	if !ok {
		return nil, fmt.Errorf("invalid period %q: use today, yesterday, week, or month", *period)
	}
	return func(e models.Entry) bool {
		return timeutil.OnOrAfter(e.Date, cutoff)
	}, nil
}

func filterEntries(entries []models.Entry, keep func(models.Entry) bool) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func attemptOutputs(attempts []persist.Attempt) []AttemptOutput {
	out := make([]AttemptOutput, 0, len(attempts))
	for _, a := range attempts {
		ao := AttemptOutput{Store: a.Store, Outcome: a.Outcome}
		if a.Err != nil {
			msg := a.Err.Error()
			ao.Error = &msg
		}
		out = append(out, ao)
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
