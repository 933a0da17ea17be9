// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for logging sessions and reviewing reading habits

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerLogSessionPrompt()
	s.registerReadingReviewPrompt()
}

func (s *Server) registerLogSessionPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "log-session",
			Description: "Record a reading session you just finished, asking only for what is missing",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleLogSession,
	)
}

func (s *Server) handleLogSession(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Log a Reading Session

## Workflow Steps

### Step 1: Gather the session
Ask for anything not already mentioned:
- Book title (skip if it is the same book as last time; log_entry remembers it)
- Pages and/or minutes read
- Time of day: AM or PM
- Mood (Focused, Relaxed, Tired, Rushed, Neutral, Anxious, Angry, Sad)
- Optional notes

### Step 2: Save it
Call **log_entry** with the collected fields. Leave date empty for today.

### Step 3: Report
Tell the user where the entry landed (saved_to). If fell_back is true,
explain that Notion rejected the write and the entry is safe in the local store.

## Tips
- Both pages and minutes at zero is rejected; ask for at least one.
- To fix a mistake, call list_entries with local=true and then edit_entry
  with the row's selector.
`

	return &mcp.GetPromptResult{
		Description: "Workflow for logging one reading session",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerReadingReviewPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "reading-review",
			Description: "Review recent reading habits: progress, streaks, and when reading goes best",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "period",
					Description: "today, yesterday, week or month (default: week)",
					Required:    false,
				},
			},
		},
		s.handleReadingReview,
	)
}

func (s *Server) handleReadingReview(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	period := "week"
	if req.Params.Arguments != nil {
		if p, ok := req.Params.Arguments["period"]; ok && p != "" {
			period = p
		}
	}

	template := fmt.Sprintf(`# Reading Review (%[1]s)

## Workflow Steps

### Step 1: Pull the numbers
Call **get_stats** with period=%[1]q. Note total pages, minutes, habit days and
the average pages and minutes per habit day.

### Step 2: Check consistency
Read streaks.current and streaks.longest. Celebrate a streak that is still
running; if current is 0, suggest a short session today.

### Step 3: Find the best conditions
Use cross_tab (mood by time of day) and by_time_of_day to say whether AM or PM
sessions go further, and which moods go with the longest sessions.

### Step 4: Books
Summarize the books table: what is in progress and how much time each got.

### Step 5: Look at the sessions
Call **list_entries** with period=%[1]q and quote any notes worth remembering.

## Output Format
A short summary, three observations, and one suggestion for next %[1]s.
`, period)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reading review workflow for the current %s", period),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
