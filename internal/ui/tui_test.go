package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/buildcfg/internal/buildconfig"
)

func resolveSnapshot(t *testing.T, input buildconfig.Input, env map[string]string) Snapshot {
	t.Helper()
	r, err := buildconfig.Resolve(input, buildconfig.NewEnvSnapshot(env))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fp, err := buildconfig.Fingerprint(r)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return Snapshot{Record: r, Fingerprint: fp, ConfigFile: "buildcfg.toml"}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewerShowsRecord(t *testing.T) {
	snap := resolveSnapshot(t, buildconfig.Input{
		"output": "standalone",
		"images": map[string]any{"domains": []any{"cdn.example.com"}},
		"env":    map[string]any{"API_URL": nil, "SITE": "${SITE_NAME}"},
		"experimental": map[string]any{
			"appDir": true,
		},
	}, map[string]string{"SITE_NAME": "literal"})

	m := newViewerModel(func() Snapshot { return snap }, 0)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() with no refresh interval should not schedule a tick")
	}
	out := m.View()

	for _, want := range []string{
		"Mode: standalone",
		"cdn.example.com",
		"API_URL",
		"(undefined)",
		"SITE=literal",
		"appDir: true",
		"Fail on type errors: true",
		snap.Fingerprint,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestViewerSections(t *testing.T) {
	snap := resolveSnapshot(t, buildconfig.Input{"output": "standalone"}, nil)
	m := newViewerModel(func() Snapshot { return snap }, 0)
	m.Init()

	m.Update(keyMsg("3"))
	if m.section != SectionEnv {
		t.Fatalf("section = %v, want %v", m.section, SectionEnv)
	}
	out := m.View()
	if strings.Contains(out, "Mode: standalone") {
		t.Errorf("env section should hide output mode:\n%s", out)
	}
	if !strings.Contains(out, "No public env declared.") {
		t.Errorf("env section missing:\n%s", out)
	}

	m.Update(keyMsg("0"))
	if !strings.Contains(m.View(), "Mode: standalone") {
		t.Error("0 should show every section again")
	}
}

func TestViewerReloadDetectsChange(t *testing.T) {
	first := resolveSnapshot(t, buildconfig.Input{}, nil)
	second := resolveSnapshot(t, buildconfig.Input{"output": "standalone"}, nil)

	calls := 0
	m := newViewerModel(func() Snapshot {
		calls++
		if calls == 1 {
			return first
		}
		return second
	}, 0)
	m.Init()
	if m.changed {
		t.Error("first load should not be marked changed")
	}

	m.Update(keyMsg("r"))
	if calls != 2 {
		t.Fatalf("reload calls = %d, want 2", calls)
	}
	if !m.changed {
		t.Error("different fingerprint should be marked changed")
	}
	if !strings.Contains(m.View(), "Configuration changed") {
		t.Error("View() should show change banner")
	}
}

func TestViewerShowsError(t *testing.T) {
	m := newViewerModel(func() Snapshot {
		return Snapshot{Err: errors.New(`invalid config: unrecognized key "foo"`)}
	}, 0)
	m.Init()

	out := m.View()
	if !strings.Contains(out, `unrecognized key "foo"`) {
		t.Errorf("View() missing error:\n%s", out)
	}
	if !strings.Contains(out, "(none, defaults)") {
		t.Errorf("View() should note missing config file:\n%s", out)
	}
}

func TestViewerHelpAndQuit(t *testing.T) {
	snap := resolveSnapshot(t, buildconfig.Input{}, nil)
	m := newViewerModel(func() Snapshot { return snap }, 0)
	m.Init()

	m.Update(keyMsg("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help screen not shown")
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewerConfig(t *testing.T) {
	if c := newViewerConfig(); c.refresh != 0 {
		t.Errorf("default refresh: got %v, want 0 (manual reload only)", c.refresh)
	}
	if c := newViewerConfig(WithRefresh(5 * time.Second)); c.refresh != 5*time.Second {
		t.Errorf("WithRefresh: got %v, want 5s", c.refresh)
	}

	calls := 0
	m := newViewerModel(func() Snapshot {
		calls++
		return Snapshot{Record: buildconfig.Defaults()}
	}, newViewerConfig().refresh)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init() should not schedule a tick by default")
	}
	m.Update(keyMsg("r"))
	if calls != 2 {
		t.Errorf("reload calls: got %d, want 2 (init and r)", calls)
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}
