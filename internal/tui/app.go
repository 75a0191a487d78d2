package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/f3rmion/gtb/internal/clipboard"
	"github.com/f3rmion/gtb/internal/corpus"
	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/romanize"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/store"
	"github.com/f3rmion/gtb/internal/theme"
	"github.com/f3rmion/gtb/internal/tui/views"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewPlay ViewType = iota
	ViewSearch
	ViewLearn
	ViewSettings
	ViewData
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// ViewSwitchMsg requests a view change
type ViewSwitchMsg struct {
	View ViewType
}

// Deps are the services the UI works on.
type Deps struct {
	Corpus    *corpus.Corpus
	Store     store.Store // may be nil
	Settings  game.Settings
	Score     int
	Shortcuts *shortcut.Table // custom shortcuts, for display
	Clipboard clipboard.Writer
	PageSize  int

	// NewSession and NewIndex build the services over a dataset. They are
	// called again when another dataset is loaded.
	NewSession func(items []theme.Item, score int) *game.Session
	NewIndex   func(items []theme.Item) *search.Index

	// ConfigPath is shown in the settings view.
	ConfigPath string
	// DataDir is where the dataset picker starts, DataFile the loaded
	// dataset (empty for the built-in one).
	DataDir  string
	DataFile string

	Log zerolog.Logger
}

// AppModel is the main TUI model
type AppModel struct {
	session    *game.Session
	newSession func([]theme.Item, int) *game.Session
	newIndex   func([]theme.Item) *search.Index
	log        zerolog.Logger

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	playView     views.PlayModel
	searchView   views.SearchModel
	learnView    views.LearnModel
	settingsView views.SettingsModel
	dataView     views.DatasetModel

	// Help overlay
	showHelp bool
}

// NewApp creates the TUI application.
func NewApp(d Deps) AppModel {
	r := romanize.New()

	menuItems := []MenuItem{
		{Label: "Play", View: ViewPlay, Shortcut: "1"},
		{Label: "Search", View: ViewSearch, Shortcut: "2"},
		{Label: "Learn", View: ViewLearn, Shortcut: "3"},
		{Label: "Settings", View: ViewSettings, Shortcut: "4"},
		{Label: "Dataset", View: ViewData, Shortcut: "5"},
	}

	items := d.Corpus.Items()
	session := d.NewSession(items, d.Score)

	return AppModel{
		session:      session,
		newSession:   d.NewSession,
		newIndex:     d.NewIndex,
		log:          d.Log,
		sidebarWidth: 18,
		currentView:  ViewPlay,
		menuItems:    menuItems,

		playView:     views.NewPlayModel(session, d.Store, d.Settings, d.Log),
		searchView:   views.NewSearchModel(d.NewIndex(items), r, d.Clipboard, d.PageSize),
		learnView:    views.NewLearnModel(items, r, d.Clipboard, d.Settings.Language),
		settingsView: views.NewSettingsModel(d.Store, d.Settings, d.Shortcuts, d.ConfigPath),
		dataView:     views.NewDatasetModel(d.DataDir, d.DataFile, d.Corpus.Stats()),
	}
}

// Run starts the full-screen program and blocks until it exits.
func Run(d Deps) error {
	p := tea.NewProgram(NewApp(d), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// typing reports whether the active view owns plain key presses.
func (m AppModel) typing() bool {
	if m.sidebarActive {
		return false
	}
	switch m.currentView {
	case ViewPlay:
		return m.playView.Typing()
	case ViewSearch:
		return m.searchView.Typing()
	}
	return false
}

func (m AppModel) switchTo(v ViewType) AppModel {
	m.currentView = v
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	m.sidebarActive = false
	return m
}

// useDataset rebuilds every dataset-bound service over c. The score is
// carried over; a round in progress is dropped.
func (m AppModel) useDataset(path string, c *corpus.Corpus) AppModel {
	items := c.Items()
	m.session = m.newSession(items, m.session.Score())

	m.playView.SetSession(m.session)
	m.searchView.SetIndex(m.newIndex(items))
	m.learnView.SetItems(items)
	m.dataView.SetDataset(path, c.Stats())

	m.log.Info().Str("path", path).Int("themes", len(items)).Msg("dataset loaded")
	return m
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		// Keys handled regardless of focus
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Esc goes back to sidebar or quits
			if m.sidebarActive {
				return m, tea.Quit
			}
			m.sidebarActive = true
			return m, nil
		case "tab":
			m.sidebarActive = !m.sidebarActive
			return m, nil
		}

		if !m.typing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				m.showHelp = true
				return m, nil
			case "1":
				return m.switchTo(ViewPlay), nil
			case "2":
				return m.switchTo(ViewSearch), nil
			case "3":
				return m.switchTo(ViewLearn), nil
			case "4":
				return m.switchTo(ViewSettings), nil
			case "5":
				return m.switchTo(ViewData), nil
			}
		}

		// Sidebar navigation when active
		if m.sidebarActive {
			switch msg.String() {
			case "j", "down":
				if m.selectedMenu < len(m.menuItems)-1 {
					m.selectedMenu++
				}
			case "k", "up":
				if m.selectedMenu > 0 {
					m.selectedMenu--
				}
			case "enter", "l", "right":
				m = m.switchTo(m.menuItems[m.selectedMenu].View)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		contentWidth := m.width - m.sidebarWidth - 4
		contentHeight := m.height - 2

		m.playView.SetSize(contentWidth, contentHeight)
		m.searchView.SetSize(contentWidth, contentHeight)
		m.learnView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.dataView.SetSize(contentWidth, contentHeight)
		return m, nil

	case ViewSwitchMsg:
		return m.switchTo(msg.View), nil

	case views.SettingsChangedMsg:
		m.playView.SetSettings(msg.Settings)
		m.learnView.SetLanguage(msg.Settings.Language)
		return m, nil

	case views.DatasetLoadedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Str("path", msg.Path).Msg("loading dataset")
			break
		}
		m = m.useDataset(msg.Path, msg.Corpus)
		return m, nil
	}

	// Timer and persistence messages belong to the play view even when
	// another view is showing.
	var cmd tea.Cmd
	switch msg.(type) {
	case tea.KeyMsg:
		switch m.currentView {
		case ViewPlay:
			m.playView, cmd = m.playView.Update(msg)
		case ViewSearch:
			m.searchView, cmd = m.searchView.Update(msg)
		case ViewLearn:
			m.learnView, cmd = m.learnView.Update(msg)
		case ViewSettings:
			m.settingsView, cmd = m.settingsView.Update(msg)
		case ViewData:
			m.dataView, cmd = m.dataView.Update(msg)
		}
		cmds = append(cmds, cmd)
	default:
		m.playView, cmd = m.playView.Update(msg)
		cmds = append(cmds, cmd)
		m.searchView, cmd = m.searchView.Update(msg)
		cmds = append(cmds, cmd)
		m.learnView, cmd = m.learnView.Update(msg)
		cmds = append(cmds, cmd)
		m.settingsView, cmd = m.settingsView.Update(msg)
		cmds = append(cmds, cmd)
		m.dataView, cmd = m.dataView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewPlay:
		content = m.playView.View()
	case ViewSearch:
		content = m.searchView.View()
	case ViewLearn:
		content = m.learnView.View()
	case ViewSettings:
		content = m.settingsView.View()
	case ViewData:
		content = m.dataView.View()
	}

	contentWidth := m.width - m.sidebarWidth - 4
	mainContent := ContentStyle.
		Width(contentWidth).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, SidebarTitleStyle.Render("  GTB  "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		if i == m.selectedMenu {
			if m.sidebarActive {
				style = SidebarItemActiveStyle
			} else {
				// Indicate current view but not focused
				style = SidebarItemStyle.Bold(true).Foreground(ColorSecondary)
			}
		} else {
			style = SidebarItemStyle
		}
		items = append(items, style.Render(label))
	}

	items = append(items, "")
	items = append(items, SidebarScoreStyle.Render(fmt.Sprintf("Score: %d", m.session.Score())))

	// Spacer
	usedHeight := len(items) + 4
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}

	items = append(items, SidebarHelpStyle.Render("? Help  esc Menu"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)
	return SidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(key, desc string) string {
		return HelpKeyStyle.Render(key) + HelpDescStyle.Render(desc) + "\n"
	}

	helpText := HelpTitleStyle.Render("GTB - Guess The Build trainer") + "\n\n"

	helpText += HelpSectionStyle.Render("Global Keys") + "\n"
	helpText += row("1-5", "Switch views (outside text input)")
	helpText += row("tab / esc", "Focus the sidebar")
	helpText += row("?", "Show this help")
	helpText += row("q", "Quit (outside text input)")

	helpText += HelpSectionStyle.Render("Play") + "\n"
	helpText += row("enter", "Guess, or start a round")
	helpText += row("↑/↓", "Select an answer")
	helpText += row("ctrl+r", "Reveal a letter of it")
	helpText += row("ctrl+a", "Reveal a letter of all")
	helpText += row("ctrl+g", "Give up")
	helpText += row("ctrl+n", "New round")

	helpText += HelpSectionStyle.Render("Search") + "\n"
	helpText += row("ctrl+t", "Partial / exact / pattern")
	helpText += row("pgup/pgdn", "Change page")
	helpText += row("ctrl+y", "Copy selected item")
	helpText += row("ctrl+a", "Copy all themes")

	helpText += HelpSectionStyle.Render("Learn") + "\n"
	helpText += row("space", "Flip card")
	helpText += row("←/→", "Prev/next card")
	helpText += row("s / l", "Shuffle / next language")

	helpText += HelpSectionStyle.Render("Dataset") + "\n"
	helpText += row("enter", "Open folder or load .json/.apkg")
	helpText += row("backspace", "Parent folder")

	helpText += "\n" + lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true).
		Render("Press any key to close")

	helpBox := HelpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
