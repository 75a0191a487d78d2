package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
	"github.com/f3rmion/gtb/internal/theme"
)

// Settings view styles
var (
	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#a8dadc"))

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))
)

// MaxRevealCount bounds the hint length offered in the settings view.
const MaxRevealCount = 9

// SettingsChangedMsg announces new round settings.
type SettingsChangedMsg struct {
	Settings game.Settings
}

type settingsSavedMsg struct {
	err error
}

type historyLoadedMsg struct {
	rounds []store.Round
	err    error
}

const (
	rowDifficulty = iota
	rowRevealCount
	rowLanguage
	rowShortcuts
	rowCount
)

// SettingsModel edits the round settings and shows the custom shortcuts
// and the round history.
type SettingsModel struct {
	store      store.Store
	settings   game.Settings
	shortcuts  *shortcut.Table
	configPath string

	// Tabs: 0=Game, 1=Shortcuts, 2=History
	tab     int
	row     int
	scrollY int

	rounds []store.Round
	saved  bool
	err    error

	// One save runs at a time; changes made meanwhile are written after it.
	saving  bool
	pending *game.Settings

	width  int
	height int
}

// NewSettingsModel creates the settings view. st may be nil.
func NewSettingsModel(st store.Store, settings game.Settings, shortcuts *shortcut.Table, configPath string) SettingsModel {
	return SettingsModel{
		store:      st,
		settings:   settings,
		shortcuts:  shortcuts,
		configPath: configPath,
	}
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			return m.switchTab((m.tab + 1) % 3)
		case "[":
			return m.switchTab((m.tab + 2) % 3)
		case "j", "down":
			if m.tab == 0 {
				m.row = min(m.row+1, rowCount-1)
			} else {
				m.scrollY++
			}
			return m, nil
		case "k", "up":
			if m.tab == 0 {
				m.row = max(m.row-1, 0)
			} else if m.scrollY > 0 {
				m.scrollY--
			}
			return m, nil
		case "l", "right", "enter", " ":
			if m.tab == 0 {
				return m.change(1)
			}
		case "h", "left":
			if m.tab == 0 {
				return m.change(-1)
			}
		}

	case settingsSavedMsg:
		m.saving = false
		m.err = msg.err
		if m.pending != nil {
			next := *m.pending
			m.pending = nil
			return m.queueSave(next)
		}
		m.saved = msg.err == nil
		return m, nil

	case historyLoadedMsg:
		m.err = msg.err
		m.rounds = msg.rounds
		return m, nil
	}
	return m, nil
}

func (m SettingsModel) switchTab(tab int) (SettingsModel, tea.Cmd) {
	m.tab = tab
	m.scrollY = 0
	if tab == 2 {
		return m, m.loadHistory()
	}
	return m, nil
}

// change steps the selected setting by delta and saves the result.
func (m SettingsModel) change(delta int) (SettingsModel, tea.Cmd) {
	s := m.settings
	switch m.row {
	case rowDifficulty:
		d := int(s.Difficulty) + delta
		if d < int(hint.Easy) {
			d = int(hint.Hard)
		} else if d > int(hint.Hard) {
			d = int(hint.Easy)
		}
		s.Difficulty = hint.Difficulty(d)
	case rowRevealCount:
		s.RevealCount = min(max(s.RevealCount+delta, 1), MaxRevealCount)
	case rowLanguage:
		if delta > 0 {
			s.Language = nextLanguage(s.Language)
		} else {
			s.Language = prevLanguage(s.Language)
		}
	case rowShortcuts:
		s.ShortcutsEnabled = !s.ShortcutsEnabled
	}

	m.settings = s
	m.saved = false
	changed := func() tea.Msg { return SettingsChangedMsg{Settings: s} }
	m, save := m.queueSave(s)
	return m, tea.Batch(changed, save)
}

// queueSave starts saving s, or holds it until the running save finishes.
func (m SettingsModel) queueSave(s game.Settings) (SettingsModel, tea.Cmd) {
	if m.saving {
		m.pending = &s
		return m, nil
	}
	cmd := m.save(s)
	m.saving = cmd != nil
	return m, cmd
}

func prevLanguage(l theme.Language) theme.Language {
	prev, cur := l, nextLanguage(l)
	for range len(theme.Languages) + 1 {
		if cur == l {
			return prev
		}
		prev, cur = cur, nextLanguage(cur)
	}
	return theme.LangDefault
}

func (m SettingsModel) save(s game.Settings) tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return settingsSavedMsg{err: store.SaveSettings(ctx, st, s)}
	}
}

func (m SettingsModel) loadHistory() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rounds, err := st.RecentRounds(ctx, 100)
		return historyLoadedMsg{rounds: rounds, err: err}
	}
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")
	if m.configPath != "" {
		b.WriteString(settingsPathStyle.Render("Config: " + m.configPath))
	}
	b.WriteString("\n\n")

	tabs := []string{"Game", "Shortcuts", "History"}
	var tabViews []string
	for i, t := range tabs {
		if i == m.tab {
			tabViews = append(tabViews, tabActiveStyle.Render(t))
		} else {
			tabViews = append(tabViews, tabStyle.Render(t))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabViews...))
	b.WriteString("\n")
	b.WriteString(divider(m.width))
	b.WriteString("\n\n")

	switch m.tab {
	case 0:
		b.WriteString(m.renderGame())
	case 1:
		b.WriteString(m.renderShortcuts())
	case 2:
		b.WriteString(m.renderHistory())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	help := "[/]: switch tabs • j/k: scroll"
	if m.tab == 0 {
		help = "[/]: switch tabs • j/k: select • h/l: change"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func (m SettingsModel) renderGame() string {
	s := m.settings
	rows := []struct {
		label string
		value string
	}{
		{"Difficulty", s.Difficulty.String()},
		{"Hint length", fmt.Sprintf("%d letters", s.RevealCount)},
		{"Language", fmt.Sprintf("%s (%s)", s.Language.Name(), s.Language)},
		{"Shortcuts", onOff(s.ShortcutsEnabled)},
	}

	var lines []string
	for i, r := range rows {
		line := labelStyle.Render(r.label) + "  " + settingsRowStyle.Render("◀ "+r.value+" ▶")
		if i == m.row {
			line = selectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	out := strings.Join(lines, "\n") + "\n"
	if m.saved {
		out += "\n" + successStyle.Render("Saved") + "\n"
	}
	return out
}

func (m SettingsModel) renderShortcuts() string {
	if m.shortcuts.Len() == 0 {
		return mutedStyle.Render("No custom shortcuts") + "\n" +
			mutedStyle.Render("Run 'gtb shortcuts set <file>' to add some") + "\n"
	}

	var b strings.Builder
	b.WriteString(settingsHeaderStyle.Render(fmt.Sprintf("Custom shortcuts (%d)", m.shortcuts.Len())))
	b.WriteString("\n\n")

	lines := strings.Split(strings.TrimRight(m.shortcuts.String(), "\n"), "\n")
	b.WriteString(m.scrolled(lines))
	return b.String()
}

func (m SettingsModel) renderHistory() string {
	if len(m.rounds) == 0 {
		return mutedStyle.Render("No rounds played yet") + "\n"
	}

	var b strings.Builder
	b.WriteString(settingsHeaderStyle.Render(fmt.Sprintf("Recent rounds (%d)", len(m.rounds))))
	b.WriteString("\n\n")
	header := fmt.Sprintf("%-16s %-8s %-6s %-7s %-6s %s", "Started", "Status", "Lang", "Found", "Points", "Mask")
	b.WriteString(mutedStyle.Render(header))
	b.WriteString("\n")

	lines := make([]string, len(m.rounds))
	for i, r := range m.rounds {
		lines[i] = fmt.Sprintf("%-16s %-8s %-6s %-7s %-6d %s",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Status,
			r.Language,
			fmt.Sprintf("%d/%d", len(r.Found), len(r.Answers)),
			r.Points,
			r.Mask,
		)
	}
	b.WriteString(m.scrolled(lines))
	return b.String()
}

// scrolled renders the visible window of lines with a position indicator.
func (m SettingsModel) scrolled(lines []string) string {
	var b strings.Builder

	visible := max(m.height-14, 5)
	start := min(m.scrollY, max(len(lines)-1, 0))
	end := min(start+visible, len(lines))

	for _, l := range lines[start:end] {
		b.WriteString(settingsRowStyle.Render(l))
		b.WriteString("\n")
	}
	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Showing %d-%d of %d", start+1, end, len(lines))))
		b.WriteString("\n")
	}
	return b.String()
}
