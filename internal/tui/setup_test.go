// ABOUTME: Unit tests for the readlog setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func enter(t *testing.T, m SetupModel) SetupModel {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(SetupModel)
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if m.step != StepBackend {
		t.Errorf("expected initial step StepBackend, got %d", m.step)
	}
	for i, in := range m.inputs {
		if in.Value() != "" {
			t.Errorf("expected empty input %d for new config, got %q", i, in.Value())
		}
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "sqlite", DataDir: "/custom/path", NotionToken: "tok", NotionDatabaseID: "db"})
	r := m.Result()
	if r.Backend != "sqlite" {
		t.Errorf("expected pre-filled backend, got %q", r.Backend)
	}
	if r.DataDir != "/custom/path" {
		t.Errorf("expected pre-filled data dir, got %q", r.DataDir)
	}
	if r.NotionToken != "tok" || r.NotionDatabaseID != "db" {
		t.Errorf("expected pre-filled notion credentials, got %+v", r)
	}
}

func TestSetupModel_StepTransitions(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	m := NewSetupModel(SetupResult{})

	m = enter(t, m)
	if m.step != StepDataDir {
		t.Errorf("expected StepDataDir after Enter on backend, got %d", m.step)
	}
	if m.inputs[StepBackend].Value() != "csv" {
		t.Errorf("expected default backend 'csv', got %q", m.inputs[StepBackend].Value())
	}

	m = enter(t, m)
	if m.step != StepNotionToken {
		t.Errorf("expected StepNotionToken, got %d", m.step)
	}
	if m.inputs[StepDataDir].Value() != "/xdg/readlog" {
		t.Errorf("expected default data dir, got %q", m.inputs[StepDataDir].Value())
	}

	m = enter(t, m)
	if m.step != StepNotionDB {
		t.Errorf("expected StepNotionDB, got %d", m.step)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(SetupModel)
	if m.step != StepDone {
		t.Errorf("expected StepDone after Enter on database id, got %d", m.step)
	}
	if cmd == nil {
		t.Error("expected quit cmd when done")
	}
	if r := m.Result(); r.NotionToken != "" || r.NotionDatabaseID != "" {
		t.Errorf("expected empty notion credentials, got %+v", r)
	}
}

func TestSetupModel_InvalidBackend(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[StepBackend].SetValue("markdown")

	m = enter(t, m)
	if m.step != StepBackend {
		t.Errorf("expected to stay on StepBackend with invalid backend, got %d", m.step)
	}
}

func TestSetupModel_BackendCaseInsensitive(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[StepBackend].SetValue(" SQLite ")

	m = enter(t, m)
	if m.inputs[StepBackend].Value() != "sqlite" {
		t.Errorf("expected lowercased backend, got %q", m.inputs[StepBackend].Value())
	}
}

func TestSetupModel_TrimsCredentials(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "csv", DataDir: "/d"})
	m = enter(t, m)
	m = enter(t, m)
	m.inputs[StepNotionToken].SetValue("  secret_abc  ")
	m = enter(t, m)
	m.inputs[StepNotionDB].SetValue(" db123 ")
	m = enter(t, m)

	r := m.Result()
	if r.NotionToken != "secret_abc" || r.NotionDatabaseID != "db123" {
		t.Errorf("expected trimmed credentials, got %+v", r)
	}
}

func TestSetupModel_QuitOnCtrlC(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on ctrl+c")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
	if m.ShouldSave() {
		t.Error("expected ShouldSave false after ctrl+c")
	}
}

func TestSetupModel_QuitOnEsc(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on escape")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
}

func TestSetupModel_ShouldSave(t *testing.T) {
	t.Run("done means save", func(t *testing.T) {
		m := NewSetupModel(SetupResult{})
		m.step = StepDone
		if !m.ShouldSave() {
			t.Error("expected ShouldSave true when done")
		}
	})

	t.Run("quit means no save", func(t *testing.T) {
		m := NewSetupModel(SetupResult{})
		m.quitting = true
		if m.ShouldSave() {
			t.Error("expected ShouldSave false when quitting")
		}
	})
}

func TestSetupModel_ViewContainsBranding(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if !strings.Contains(m.View(), "READLOG") {
		t.Error("expected view to contain READLOG branding")
	}
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel(SetupResult{})

	steps := map[Step]string{
		StepBackend:     "Local Backend",
		StepDataDir:     "Data Directory",
		StepNotionToken: "Integration Token",
		StepNotionDB:    "Database ID",
	}
	for step, want := range steps {
		m.step = step
		if !strings.Contains(m.View(), want) {
			t.Errorf("expected step %d view to mention %q", step, want)
		}
	}
}

func TestSetupModel_ViewDone(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "sqlite", DataDir: "/data/readlog", NotionToken: "tok", NotionDatabaseID: "db"})
	m.step = StepDone
	view := m.View()
	if !strings.Contains(view, "Setup complete") {
		t.Error("expected StepDone view to report completion")
	}
	if !strings.Contains(view, "/data/readlog") {
		t.Error("expected StepDone view to show data dir")
	}
	if strings.Contains(view, "tok") {
		t.Error("token must not be shown")
	}
}

func TestSetupModel_FullPrefilledFlow(t *testing.T) {
	m := NewSetupModel(SetupResult{Backend: "sqlite", DataDir: "/data/readlog"})

	for i := 0; i < stepCount; i++ {
		m = enter(t, m)
	}
	if m.step != StepDone {
		t.Fatalf("expected StepDone, got %d", m.step)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave true after completing flow")
	}
	if r := m.Result(); r.Backend != "sqlite" || r.DataDir != "/data/readlog" {
		t.Errorf("unexpected result %+v", r)
	}
}
