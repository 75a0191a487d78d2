package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/gtb/internal/clipboard"
	"github.com/f3rmion/gtb/internal/romanize"
	"github.com/f3rmion/gtb/internal/search"
	"github.com/f3rmion/gtb/internal/theme"
)

// SearchMode selects how the query is interpreted.
type SearchMode int

const (
	ModePartial SearchMode = iota
	ModeExact
	ModePattern
)

func (m SearchMode) String() string {
	switch m {
	case ModeExact:
		return "Exact"
	case ModePattern:
		return "Pattern"
	}
	return "Partial"
}

var searchModes = []SearchMode{ModePartial, ModeExact, ModePattern}

var langNameStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#a8dadc"))

type searchClearCopiedMsg struct{}

func searchClearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return searchClearCopiedMsg{}
	})
}

// SearchModel is the theme and translation lookup view.
type SearchModel struct {
	index     *search.Index
	romanizer *romanize.Romanizer
	clip      clipboard.Writer
	pageSize  int

	mode    SearchMode
	input   textinput.Model
	conds   []search.Condition
	results []theme.Item
	page    int
	cursor  int // index within the page
	err     error
	copied  string

	width  int
	height int
}

// NewSearchModel creates the search view.
func NewSearchModel(index *search.Index, r *romanize.Romanizer, clip clipboard.Writer, pageSize int) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Theme or translation"
	ti.CharLimit = 100
	ti.Width = 40
	ti.Focus()

	if pageSize < 1 {
		pageSize = search.DefaultPageSize
	}

	return SearchModel{
		index:     index,
		romanizer: r,
		clip:      clip,
		pageSize:  pageSize,
		input:     ti,
		page:      1,
	}
}

// SetSize updates the view dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(min(width-20, 60), 20)
}

// SetIndex replaces the searched index and reruns the query.
func (m *SearchModel) SetIndex(idx *search.Index) {
	m.index = idx
	m.run()
}

// Typing reports whether key presses belong to the query input. The query
// input always has focus.
func (m SearchModel) Typing() bool {
	return true
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+t":
			m.mode = searchModes[(int(m.mode)+1)%len(searchModes)]
			if m.mode == ModePattern {
				m.input.Placeholder = "Pattern, e.g. 3a4 or de=q5 fr=m5"
			} else {
				m.input.Placeholder = "Theme or translation"
			}
			m.run()
			return m, nil
		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.cursor < len(m.pageItems())-1 {
				m.cursor++
			}
			return m, nil
		case "pgdown", "ctrl+f":
			if _, total := search.Paginate(m.results, m.page, m.pageSize); m.page < total {
				m.page++
				m.cursor = 0
			}
			return m, nil
		case "pgup", "ctrl+b":
			if m.page > 1 {
				m.page--
				m.cursor = 0
			}
			return m, nil
		case "ctrl+y":
			if it, ok := m.selectedItem(); ok {
				return m.copy(clipboard.FormatItem(&it), it.Theme)
			}
			return m, nil
		case "ctrl+a":
			if len(m.results) > 0 {
				return m.copy(clipboard.FormatThemes(m.results), fmt.Sprintf("%d themes", len(m.results)))
			}
			return m, nil
		}

	case searchClearCopiedMsg:
		m.copied = ""
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.run()
	}
	return m, cmd
}

func (m SearchModel) copy(text, what string) (SearchModel, tea.Cmd) {
	if m.clip == nil {
		return m, nil
	}
	if err := m.clip.Write(text); err != nil {
		m.err = err
		return m, nil
	}
	m.copied = what
	return m, searchClearCopiedAfter(2 * time.Second)
}

// run executes the query for the current mode.
func (m *SearchModel) run() {
	m.err = nil
	m.page = 1
	m.cursor = 0
	m.conds = nil

	query := m.input.Value()
	switch m.mode {
	case ModePattern:
		for _, field := range strings.Fields(query) {
			c, err := search.ParseCondition(field)
			if err != nil {
				m.err = err
				m.results = nil
				return
			}
			m.conds = append(m.conds, c)
		}
		m.results = m.index.PatternSearch(m.conds)
	default:
		m.results = m.index.Search(query, m.mode == ModeExact)
	}
}

func (m SearchModel) pageItems() []theme.Item {
	items, _ := search.Paginate(m.results, m.page, m.pageSize)
	return items
}

func (m SearchModel) selectedItem() (theme.Item, bool) {
	items := m.pageItems()
	if m.cursor >= len(items) {
		return theme.Item{}, false
	}
	return items[m.cursor], true
}

// View renders the search view.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Search"))
	b.WriteString("\n\n")

	var tabs []string
	for _, mode := range searchModes {
		if mode == m.mode {
			tabs = append(tabs, tabActiveStyle.Render(mode.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(mode.String()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	items, total := search.Paginate(m.results, m.page, m.pageSize)
	switch {
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d themes indexed", m.index.Len())))
		b.WriteString("\n")
	case len(m.results) == 0:
		b.WriteString(mutedStyle.Render("No results"))
		b.WriteString("\n")
	default:
		counter := fmt.Sprintf("%d results", len(m.results))
		if total > 1 {
			counter += fmt.Sprintf(" • page %d/%d", m.page, total)
		}
		if m.copied != "" {
			counter += "  " + copiedStyle.Render("Copied "+m.copied)
		}
		b.WriteString(mutedStyle.Render(counter))
		b.WriteString("\n\n")

		list := m.renderList(items)
		detail := ""
		if it, ok := m.selectedItem(); ok {
			detail = renderTranslations(&it, m.romanizer, m.conds)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("ctrl+t: mode • ↑/↓: select • pgup/pgdn: page • ctrl+y: copy item • ctrl+a: copy all"))
	return b.String()
}

func (m SearchModel) renderList(items []theme.Item) string {
	visible := max(m.height-14, 5)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(items))

	width := 24
	var lines []string
	for i := start; i < end; i++ {
		it := items[i]
		text := it.Theme
		var spans []search.Span
		switch m.mode {
		case ModePattern:
			if len(m.conds) > 0 {
				c := m.conds[0]
				if t, ok := c.Target(&it); ok {
					text = t
				}
				spans = search.Highlight(text, c)
			}
		default:
			spans = search.HighlightQuery(text, m.input.Value())
		}

		fill := strings.Repeat(" ", max(width-lipgloss.Width(text), 0))
		line := renderSpans(spans) + fill
		if i == m.cursor {
			line = selectedStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderTranslations lays out the translations of it in aligned columns.
// Chinese translations get a pinyin line; conditions highlight matching
// languages.
func renderTranslations(it *theme.Item, r *romanize.Romanizer, conds []search.Condition) string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(it.Theme))
	if it.Shortcut != "" {
		b.WriteString(mutedStyle.Render("  [" + it.Shortcut + "]"))
	}
	b.WriteString("\n\n")

	for _, l := range it.SortedLanguages() {
		text := it.Translations[l].Translation
		if text == "" {
			continue
		}

		value := valueStyle.Render(text)
		for _, c := range conds {
			if c.Language == l {
				value = renderSpans(search.Highlight(text, c))
				break
			}
		}

		b.WriteString(mutedStyle.Render(padRight(string(l), 6)))
		b.WriteString(langNameStyle.Render(padRight(l.Name(), 14)))
		b.WriteString(value)
		if r != nil && romanize.Applies(l) {
			b.WriteString("  ")
			b.WriteString(pinyinStyle.Render(r.Pinyin(text)))
		}
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
