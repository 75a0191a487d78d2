package views

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/gtb/internal/clipboard"
	"github.com/f3rmion/gtb/internal/romanize"
	"github.com/f3rmion/gtb/internal/theme"
)

// Learn view styles
var (
	learnBigTextStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#1a1a2e")).
				Padding(2, 8).
				Align(lipgloss.Center)

	learnProgressStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888"))

	learnFlipHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#4ecdc4")).
				Bold(true).
				Align(lipgloss.Center)
)

type learnClearCopiedMsg struct{}

func learnClearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return learnClearCopiedMsg{}
	})
}

// LearnModel is a flashcard view: the front shows a theme in the chosen
// language, the back shows the theme with every translation.
type LearnModel struct {
	all       []theme.Item
	romanizer *romanize.Romanizer
	clip      clipboard.Writer

	lang    theme.Language
	cards   []theme.Item
	current int
	flipped bool
	copied  bool
	err     error

	width  int
	height int
}

// NewLearnModel creates the flashcard view over items.
func NewLearnModel(items []theme.Item, r *romanize.Romanizer, clip clipboard.Writer, lang theme.Language) LearnModel {
	m := LearnModel{
		all:       items,
		romanizer: r,
		clip:      clip,
	}
	m.SetLanguage(lang)
	return m
}

// SetSize updates the view dimensions.
func (m *LearnModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetItems replaces the items the cards are drawn from.
func (m *LearnModel) SetItems(items []theme.Item) {
	m.all = items
	m.SetLanguage(m.lang)
}

// SetLanguage selects the front-side language and restarts the deck with
// the items translated into it.
func (m *LearnModel) SetLanguage(lang theme.Language) {
	m.lang = lang
	m.cards = nil
	for _, it := range m.all {
		if text, ok := it.Translated(lang); ok && text != "" {
			m.cards = append(m.cards, it)
		}
	}
	m.current = 0
	m.flipped = false
}

// Update handles messages.
func (m LearnModel) Update(msg tea.Msg) (LearnModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(m.cards) == 0 && msg.String() != "l" {
			return m, nil
		}
		switch msg.String() {
		case " ", "enter":
			m.flipped = !m.flipped
		case "right", "n":
			if m.current < len(m.cards)-1 {
				m.current++
				m.flipped = false
			}
		case "left", "p":
			if m.current > 0 {
				m.current--
				m.flipped = false
			}
		case "r":
			m.current = 0
			m.flipped = false
		case "s":
			m.cards = slices.Clone(m.cards)
			rand.Shuffle(len(m.cards), func(i, j int) {
				m.cards[i], m.cards[j] = m.cards[j], m.cards[i]
			})
			m.current = 0
			m.flipped = false
		case "l":
			m.SetLanguage(nextLanguage(m.lang))
		case "y":
			it := m.cards[m.current]
			if m.clip == nil {
				return m, nil
			}
			if err := m.clip.Write(clipboard.FormatItem(&it)); err != nil {
				m.err = err
				return m, nil
			}
			m.copied = true
			return m, learnClearCopiedAfter(2 * time.Second)
		}
		return m, nil

	case learnClearCopiedMsg:
		m.copied = false
		return m, nil
	}

	return m, nil
}

// nextLanguage cycles through the playable languages.
func nextLanguage(l theme.Language) theme.Language {
	order := append([]theme.Language{theme.LangDefault}, theme.Languages...)
	for i, cand := range order {
		if cand != l {
			continue
		}
		for j := 1; j < len(order); j++ {
			next := order[(i+j)%len(order)]
			if next.Playable() {
				return next
			}
		}
	}
	return theme.LangDefault
}

// View renders the learn view.
func (m LearnModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Learn"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(m.lang.Name()))
	b.WriteString("\n\n")

	if len(m.cards) == 0 {
		b.WriteString(mutedStyle.Render("No themes are translated into " + m.lang.Name()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("l: next language"))
		return b.String()
	}

	b.WriteString(learnProgressStyle.Render(fmt.Sprintf("Card %d of %d", m.current+1, len(m.cards))))
	if m.copied {
		b.WriteString("  ")
		b.WriteString(copiedStyle.Render("Copied!"))
	}
	b.WriteString("\n\n")

	contentWidth := max(m.width-4, 40)
	it := m.cards[m.current]

	front := it.Text(m.lang)
	block := learnBigTextStyle.Render(front)
	if romanize.Applies(m.lang) && m.romanizer != nil {
		block = lipgloss.JoinVertical(lipgloss.Center, block, pinyinStyle.Render(m.romanizer.Pinyin(front)))
	}
	b.WriteString(lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(block))
	b.WriteString("\n\n")

	if m.flipped {
		b.WriteString(renderTranslations(&it, m.romanizer, nil))
	} else {
		b.WriteString(learnFlipHintStyle.Width(contentWidth).Render("Press SPACE to reveal"))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("space: flip • ←/→: prev/next • s: shuffle • r: reset • l: language • y: copy"))
	return b.String()
}
