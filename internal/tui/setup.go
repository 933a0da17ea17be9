// ABOUTME: Interactive TUI wizard for configuring readlog storage.
// ABOUTME: 4-step bubbletea model collecting local backend, data directory and Notion credentials.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Step represents the current wizard step.
type Step int

const (
	StepBackend Step = iota
	StepDataDir
	StepNotionToken
	StepNotionDB
	StepDone
)

const stepCount = int(StepDone)

// SetupResult holds the values the wizard collected.
type SetupResult struct {
	Backend          string
	DataDir          string
	NotionToken      string
	NotionDatabaseID string
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [stepCount]textinput.Model
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// defaultDataDir returns the default XDG data directory for readlog.
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "readlog")
}

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(existing SetupResult) SetupModel {
	backendInput := textinput.New()
	backendInput.Placeholder = "csv"
	backendInput.Focus()
	backendInput.Width = 50
	backendInput.SetValue(existing.Backend)

	dataDirInput := textinput.New()
	dataDirInput.Placeholder = defaultDataDir()
	dataDirInput.Width = 50
	dataDirInput.SetValue(existing.DataDir)

	tokenInput := textinput.New()
	tokenInput.Placeholder = "secret_..."
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.Width = 50
	tokenInput.SetValue(existing.NotionToken)

	dbInput := textinput.New()
	dbInput.Placeholder = "database id"
	dbInput.Width = 50
	dbInput.SetValue(existing.NotionDatabaseID)

	return SetupModel{
		step:   StepBackend,
		inputs: [stepCount]textinput.Model{backendInput, dataDirInput, tokenInput, dbInput},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step < StepDone {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step < StepDone {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)
	val := strings.TrimSpace(m.inputs[idx].Value())

	switch m.step {
	case StepBackend:
		if val == "" {
			val = "csv"
		}
		val = strings.ToLower(val)
		if val != "csv" && val != "sqlite" {
			return m, nil
		}
	case StepDataDir:
		if val == "" {
			val = defaultDataDir()
		}
	}
	m.inputs[idx].SetValue(val)
	m.inputs[idx].Blur()

	m.step++
	if m.step == StepDone {
		return m, tea.Quit
	}
	m.inputs[m.step].Focus()
	return m, textinput.Blink
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   READLOG"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure where reading sessions are stored.\n\n")

	switch m.step {
	case StepBackend:
		b.WriteString(stepStyle.Render("Step 1 of 4: Local Backend"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(csv or sqlite, press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepBackend].View())
		b.WriteString("\n")

	case StepDataDir:
		b.WriteString(fmt.Sprintf("  Backend: %s\n\n", m.inputs[StepBackend].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 4: Data Directory"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", defaultDataDir())))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepDataDir].View())
		b.WriteString("\n")

	case StepNotionToken:
		b.WriteString(stepStyle.Render("Step 3 of 4: Notion Integration Token"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to keep entries local only)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepNotionToken].View())
		b.WriteString("\n")

	case StepNotionDB:
		b.WriteString(stepStyle.Render("Step 4 of 4: Notion Database ID"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to keep entries local only)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[StepNotionDB].View())
		b.WriteString("\n")

	case StepDone:
		r := m.Result()
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Backend:         %s\n", r.Backend))
		b.WriteString(fmt.Sprintf("  Data directory:  %s\n", r.DataDir))
		b.WriteString(fmt.Sprintf("  Notion:          %s\n", notionSummary(r)))
		b.WriteString("\n")
	}

	return b.String()
}

func notionSummary(r SetupResult) string {
	if r.NotionToken == "" || r.NotionDatabaseID == "" {
		return "not configured"
	}
	return "configured"
}

// Result returns the entered values.
func (m SetupModel) Result() SetupResult {
	return SetupResult{
		Backend:          m.inputs[StepBackend].Value(),
		DataDir:          m.inputs[StepDataDir].Value(),
		NotionToken:      m.inputs[StepNotionToken].Value(),
		NotionDatabaseID: m.inputs[StepNotionDB].Value(),
	}
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
