// Package ui provides an optional terminal viewer for resolved records.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/buildcfg/internal/buildconfig"
)

// Snapshot is one resolution result shown by the viewer.
type Snapshot struct {
	Record      *buildconfig.Record
	Fingerprint string
	ConfigFile  string
	EnvFiles    []string
	Err         error
}

// ReloadFunc re-runs resolution and returns the new snapshot.
type ReloadFunc func() Snapshot

// Section selects which part of the record the viewer shows.
type Section int

const (
	SectionAll Section = iota
	SectionOutput
	SectionImages
	SectionEnv
	SectionExperimental
	SectionStrictness
)

var sectionNames = map[Section]string{
	SectionAll:          "all",
	SectionOutput:       "output",
	SectionImages:       "images",
	SectionEnv:          "public env",
	SectionExperimental: "experimental",
	SectionStrictness:   "strictness",
}

func (s Section) String() string {
	return sectionNames[s]
}

// ViewerOption configures the viewer.
type ViewerOption func(*viewerConfig)

type viewerConfig struct {
	refresh time.Duration
}

// WithRefresh re-resolves on a timer; zero disables it.
func WithRefresh(d time.Duration) ViewerOption {
	return func(c *viewerConfig) {
		c.refresh = d
	}
}

func newViewerConfig(opts ...ViewerOption) *viewerConfig {
	c := &viewerConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunViewer starts the viewer on the terminal. The record is resolved once
// on start and again only when the user presses r, unless WithRefresh sets
// an interval.
func RunViewer(ctx context.Context, reload ReloadFunc, opts ...ViewerOption) error {
	c := newViewerConfig(opts...)

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("view requires a TTY")
	}

	model := newViewerModel(reload, c.refresh)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type viewerModel struct {
	reload   ReloadFunc
	snap     Snapshot
	prevHash string
	changed  bool
	section  Section
	showHelp bool
	interval time.Duration
	reloads  int
}

type tickMsg time.Time

func newViewerModel(reload ReloadFunc, interval time.Duration) *viewerModel {
	return &viewerModel{
		reload:   reload,
		interval: interval,
	}
}

func (m *viewerModel) Init() tea.Cmd {
	m.refresh()
	if m.interval <= 0 {
		return nil
	}
	return tickCmd(m.interval)
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "0":
			m.section = SectionAll
		case "1":
			m.section = SectionOutput
		case "2":
			m.section = SectionImages
		case "3":
			m.section = SectionEnv
		case "4":
			m.section = SectionExperimental
		case "5":
			m.section = SectionStrictness
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.interval)
	}
	return m, nil
}

func (m *viewerModel) refresh() {
	snap := m.reload()
	m.reloads++
	m.changed = m.reloads > 1 && snap.Err == nil && m.prevHash != "" && snap.Fingerprint != m.prevHash
	if snap.Err == nil {
		m.prevHash = snap.Fingerprint
	}
	m.snap = snap
}

func (m *viewerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("buildcfg") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.interval)
		return b.String()
	}

	writeSource(&b, m.snap)
	if m.snap.Err != nil {
		b.WriteString(errorStyle.Render("Error") + "\n\n")
		b.WriteString("  " + m.snap.Err.Error() + "\n\n")
		writeFooter(&b, m.interval)
		return b.String()
	}
	if m.snap.Record == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.interval)
		return b.String()
	}

	if m.changed {
		b.WriteString(changedStyle.Render("Configuration changed since last reload") + "\n\n")
	}
	if m.section != SectionAll {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Showing %s (0 for all)", m.section)) + "\n\n")
	}
	writeRecord(&b, m.snap.Record, m.section)
	writeFooter(&b, m.interval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeSource(b *strings.Builder, snap Snapshot) {
	configFile := snap.ConfigFile
	if configFile == "" {
		configFile = "(none, defaults)"
	}
	b.WriteString(dimStyle.Render("Config file: "+configFile) + "\n")
	if len(snap.EnvFiles) > 0 {
		b.WriteString(dimStyle.Render("Env files:   "+strings.Join(snap.EnvFiles, ", ")) + "\n")
	}
	if snap.Fingerprint != "" {
		b.WriteString(dimStyle.Render("Fingerprint: "+snap.Fingerprint) + "\n")
	}
	b.WriteString("\n")
}

func writeRecord(b *strings.Builder, r *buildconfig.Record, section Section) {
	show := func(s Section) bool {
		return section == SectionAll || section == s
	}

	if show(SectionOutput) {
		b.WriteString(headerStyle.Render("Output") + "\n\n")
		fmt.Fprintf(b, "  Mode: %s\n\n", r.OutputMode())
	}

	if show(SectionImages) {
		b.WriteString(headerStyle.Render("Images") + "\n\n")
		fmt.Fprintf(b, "  Unoptimized: %t\n", r.UnoptimizedImages())
		hosts := r.AllowedHosts()
		if len(hosts) == 0 {
			b.WriteString("  Allowed hosts: none\n\n")
		} else {
			b.WriteString("  Allowed hosts:\n")
			for _, host := range hosts {
				b.WriteString("    " + host + "\n")
			}
			b.WriteString("\n")
		}
	}

	if show(SectionEnv) {
		b.WriteString(headerStyle.Render("Public Env") + "\n\n")
		names := r.PublicEnvNames()
		if len(names) == 0 {
			b.WriteString("  No public env declared.\n\n")
		} else {
			for _, name := range names {
				b.WriteString("  " + formatEnv(r, name) + "\n")
			}
			b.WriteString("\n")
		}
	}

	if show(SectionExperimental) {
		b.WriteString(headerStyle.Render("Experimental") + "\n\n")
		flags := r.ExperimentalFlags()
		if len(flags) == 0 {
			b.WriteString("  No experimental flags.\n\n")
		} else {
			for _, name := range sortedFlagNames(flags) {
				fmt.Fprintf(b, "  %s: %t\n", name, flags[name])
			}
			b.WriteString("\n")
		}
	}

	if show(SectionStrictness) {
		b.WriteString(headerStyle.Render("Build Strictness") + "\n\n")
		fmt.Fprintf(b, "  Fail on type errors: %t\n", r.FailOnTypeErrors())
		fmt.Fprintf(b, "  Fail on lint errors: %t\n\n", r.FailOnLintErrors())
	}
}

func formatEnv(r *buildconfig.Record, name string) string {
	value, ok := r.LookupPublicEnv(name)
	if !ok {
		return name + " " + dimStyle.Render("(undefined)")
	}
	return name + "=" + value
}

func sortedFlagNames(flags map[string]bool) []string {
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Re-resolve now\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show output mode\n")
	b.WriteString("  2            Show images\n")
	b.WriteString("  3            Show public env\n")
	b.WriteString("  4            Show experimental flags\n")
	b.WriteString("  5            Show build strictness\n")
	b.WriteString("  0            Show everything\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	if interval <= 0 {
		b.WriteString(dimStyle.Render("Press h for help | q to quit") + "\n")
		return
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Re-resolving every %s", interval)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
