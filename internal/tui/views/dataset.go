package views

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/gtb/internal/corpus"
)

// DatasetExtensions are the file types the dataset picker offers.
var DatasetExtensions = []string{".json", ".apkg"}

// DatasetLoadedMsg carries a dataset picked in the dataset view.
type DatasetLoadedMsg struct {
	Path   string
	Corpus *corpus.Corpus
	Err    error
}

// Dataset view styles
var (
	dsPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	dsDirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	dsFileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	dsSelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436"))
)

type dirEntry struct {
	name  string
	path  string
	isDir bool
	size  int64
}

// DatasetModel browses the file system for a theme dataset and loads it.
type DatasetModel struct {
	dir      string
	entries  []dirEntry
	selected int
	offset   int

	current string // path of the loaded dataset, empty for the built-in one
	stats   corpus.Stats
	loading bool
	err     error

	width  int
	height int
}

// NewDatasetModel starts browsing in dir. current names the loaded
// dataset.
func NewDatasetModel(dir, current string, stats corpus.Stats) DatasetModel {
	if _, err := os.Stat(dir); err != nil {
		dir, _ = os.UserHomeDir()
	}
	if dir == "" {
		dir = "/"
	}

	m := DatasetModel{dir: dir, current: current, stats: stats}
	m.readDir()
	return m
}

// SetSize updates the view dimensions.
func (m *DatasetModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *DatasetModel) readDir() {
	m.entries = nil
	m.selected = 0
	m.offset = 0
	m.err = nil

	list, err := os.ReadDir(m.dir)
	if err != nil {
		m.err = err
		return
	}

	if parent := filepath.Dir(m.dir); parent != m.dir {
		m.entries = append(m.entries, dirEntry{name: "..", path: parent, isDir: true})
	}

	var dirs, files []dirEntry
	for _, de := range list {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		e := dirEntry{name: de.Name(), path: filepath.Join(m.dir, de.Name()), isDir: de.IsDir()}
		if e.isDir {
			dirs = append(dirs, e)
			continue
		}
		if !IsDatasetFile(e.name) {
			continue
		}
		if info, err := de.Info(); err == nil {
			e.size = info.Size()
		}
		files = append(files, e)
	}

	byName := func(a, b dirEntry) int {
		return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	m.entries = append(m.entries, dirs...)
	m.entries = append(m.entries, files...)
}

// IsDatasetFile reports whether name has a dataset extension.
func IsDatasetFile(name string) bool {
	return slices.Contains(DatasetExtensions, strings.ToLower(filepath.Ext(name)))
}

// SetDataset records a successfully loaded dataset.
func (m *DatasetModel) SetDataset(path string, stats corpus.Stats) {
	m.current = path
	m.stats = stats
	m.loading = false
	m.err = nil
}

// Update handles messages.
func (m DatasetModel) Update(msg tea.Msg) (DatasetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.entries)-1 {
				m.selected++
				m.scroll()
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
				m.scroll()
			}
		case "enter", "l", "right":
			if m.selected >= len(m.entries) {
				return m, nil
			}
			e := m.entries[m.selected]
			if e.isDir {
				m.dir = e.path
				m.readDir()
				return m, nil
			}
			m.loading = true
			return m, loadDataset(e.path)
		case "backspace", "h", "left":
			if parent := filepath.Dir(m.dir); parent != m.dir {
				m.dir = parent
				m.readDir()
			}
		case "~":
			if home, _ := os.UserHomeDir(); home != "" {
				m.dir = home
				m.readDir()
			}
		case "g":
			m.selected = 0
			m.offset = 0
		case "G":
			m.selected = max(len(m.entries)-1, 0)
			m.scroll()
		}
		return m, nil

	case DatasetLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil
	}

	return m, nil
}

func loadDataset(path string) tea.Cmd {
	return func() tea.Msg {
		c, err := corpus.LoadFile(path)
		return DatasetLoadedMsg{Path: path, Corpus: c, Err: err}
	}
}

func (m DatasetModel) visible() int {
	return max(m.height-14, 5)
}

func (m *DatasetModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if v := m.visible(); m.selected >= m.offset+v {
		m.offset = m.selected - v + 1
	}
}

// View renders the dataset view.
func (m DatasetModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dataset"))
	b.WriteString("\n\n")

	name := "built-in"
	if m.current != "" {
		name = m.current
	}
	b.WriteString(labelStyle.Render("Loaded"))
	b.WriteString(valueStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Themes"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d (%d translations)", m.stats.Themes, m.stats.Translations)))
	b.WriteString("\n")
	if m.stats.LastUpdated != "" {
		b.WriteString(labelStyle.Render("Updated"))
		b.WriteString(valueStyle.Render(m.stats.LastUpdated))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(dsPathStyle.Render(m.dir))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(divider(m.width))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("  (no .json or .apkg files here)"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visible(), len(m.entries))
	for i := m.offset; i < end; i++ {
		e := m.entries[i]

		line := e.name + "/"
		style := dsDirStyle
		if !e.isDir {
			line = padRight(e.name, 40) + " " + formatSize(e.size)
			style = dsFileStyle
		}

		if i == m.selected {
			b.WriteString("> ")
			b.WriteString(dsSelectedStyle.Render(line))
		} else {
			b.WriteString("  ")
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	if len(m.entries) > m.visible() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.entries))))
		b.WriteString("\n")
	}

	b.WriteString(divider(m.width))
	b.WriteString("\n")
	if m.loading {
		b.WriteString(mutedStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: open/load • backspace: parent • ~: home • g/G: top/bottom"))
	return b.String()
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
