package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/f3rmion/gtb/internal/game"
	"github.com/f3rmion/gtb/internal/store"
	"github.com/f3rmion/gtb/internal/theme"
)

// Play view styles
var (
	maskStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(1, 4)

	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	timerLowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	foundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf"))

	missedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b"))
)

// RoundSavedMsg reports the outcome of persisting a finished round.
type RoundSavedMsg struct {
	Err error
}

type tickMsg struct {
	round string
}

type playClearFlashMsg struct{}

func tick(round string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{round: round}
	})
}

func playClearFlashAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return playClearFlashMsg{}
	})
}

// PlayModel is the trainer view: it shows the hint mask, accepts guesses
// and drives the countdown.
type PlayModel struct {
	session  *game.Session
	store    store.Store
	settings game.Settings
	log      zerolog.Logger

	input    textinput.Model
	selected int // answer targeted by ctrl+r

	flash    string
	flashBad bool
	err      error

	width  int
	height int
}

// NewPlayModel creates the play view. st may be nil, in which case rounds
// and the score are not persisted.
func NewPlayModel(session *game.Session, st store.Store, settings game.Settings, log zerolog.Logger) PlayModel {
	ti := textinput.New()
	ti.Placeholder = "Type a guess and press Enter"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return PlayModel{
		session:  session,
		store:    st,
		settings: settings,
		log:      log,
		input:    ti,
	}
}

// SetSize updates the view dimensions.
func (m *PlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(min(width-10, 50), 20)
}

// SetSettings changes the settings used for the next round.
func (m *PlayModel) SetSettings(s game.Settings) {
	m.settings = s
}

// SetSession replaces the session, e.g. after a new dataset was loaded.
// Any round in progress is dropped.
func (m *PlayModel) SetSession(s *game.Session) {
	m.session = s
	m.selected = 0
	m.flash = ""
	m.err = nil
	m.input.SetValue("")
}

// Typing reports whether key presses belong to the guess input.
func (m PlayModel) Typing() bool {
	return m.session.Status() == game.StatusPlaying
}

// Init starts the cursor blink.
func (m PlayModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (PlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.session.Status() != game.StatusPlaying {
				return m.startRound()
			}
			return m.submit()
		case "ctrl+n":
			return m.startRound()
		case "ctrl+r":
			return m.revealSelected(), nil
		case "ctrl+a":
			if err := m.session.RevealAll(); err == nil {
				m.setFlash("Revealed one more letter of every answer", false)
			}
			return m, nil
		case "ctrl+g":
			if m.session.Status() == game.StatusPlaying {
				m.session.Timeout()
				m.setFlash("Gave up", true)
				return m, m.saveRound()
			}
			return m, nil
		case "up", "ctrl+k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.selected < len(m.session.Answers())-1 {
				m.selected++
			}
			return m, nil
		}

	case tickMsg:
		if msg.round != m.session.RoundID() || m.session.Status() != game.StatusPlaying {
			return m, nil
		}
		if m.session.Tick() == game.StatusTimeout {
			found, total := m.session.Progress()
			m.setFlash(fmt.Sprintf("Time's up! %d of %d found", found, total), true)
			return m, m.saveRound()
		}
		return m, tick(msg.round)

	case RoundSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil

	case playClearFlashMsg:
		m.flash = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PlayModel) startRound() (PlayModel, tea.Cmd) {
	m.err = nil
	m.selected = 0
	m.input.Reset()

	if err := m.session.Start(m.settings); err != nil {
		m.err = err
		if errors.Is(err, game.ErrEmptyPool) {
			m.err = fmt.Errorf("no %s themes in %s, pick another difficulty or language",
				m.settings.Difficulty, m.settings.Language.Name())
		}
		return m, nil
	}

	m.setFlash("", false)
	return m, tick(m.session.RoundID())
}

func (m PlayModel) submit() (PlayModel, tea.Cmd) {
	guess := m.input.Value()
	m.input.Reset()

	res, err := m.session.CheckAnswer(guess)
	if err != nil {
		m.err = err
		return m, nil
	}

	switch {
	case res.Complete:
		m.session.ShowAll()
		m.setFlash(fmt.Sprintf("Solved! +%d points", res.Points), false)
		return m, m.saveRound()
	case res.Rejected():
		if strings.TrimSpace(guess) == "" {
			return m, nil
		}
		m.setFlash(fmt.Sprintf("%q is not it", strings.TrimSpace(guess)), true)
	default:
		found, total := m.session.Progress()
		m.setFlash(fmt.Sprintf("Correct: %s (%d/%d)", strings.Join(res.Accepted, ", "), found, total), false)
	}
	return m, playClearFlashAfter(3 * time.Second)
}

func (m PlayModel) revealSelected() PlayModel {
	answers := m.session.Answers()
	if m.selected >= len(answers) {
		return m
	}
	answer := answers[m.selected]
	if m.session.IsFound(answer) {
		return m
	}
	if _, err := m.session.RevealMore(answer); err != nil {
		m.err = err
	}
	return m
}

func (m *PlayModel) setFlash(s string, bad bool) {
	m.flash = s
	m.flashBad = bad
}

// saveRound records the finished round and the score in the background.
func (m PlayModel) saveRound() tea.Cmd {
	if m.store == nil {
		return nil
	}
	st := m.store
	round := store.RoundFrom(m.session)
	score := m.session.Score()
	log := m.log

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := st.RecordRound(ctx, round); err != nil {
			log.Warn().Err(err).Str("round", round.ID).Msg("recording round failed")
			return RoundSavedMsg{Err: err}
		}
		if err := store.SaveScore(ctx, st, score); err != nil {
			log.Warn().Err(err).Msg("saving score failed")
			return RoundSavedMsg{Err: err}
		}
		return RoundSavedMsg{}
	}
}

// View renders the play view.
func (m PlayModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Guess The Build"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Score %d", m.session.Score())))
	b.WriteString("\n\n")

	if m.session.Status() == game.StatusStart {
		b.WriteString(m.renderIdle())
	} else {
		b.WriteString(m.renderRound())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpText()))
	return b.String()
}

func (m PlayModel) renderIdle() string {
	s := m.settings
	lines := []string{
		labelStyle.Render("Difficulty") + valueStyle.Render(s.Difficulty.String()),
		labelStyle.Render("Hint length") + valueStyle.Render(fmt.Sprintf("%d", s.RevealCount)),
		labelStyle.Render("Language") + valueStyle.Render(s.Language.Name()),
		labelStyle.Render("Shortcuts") + valueStyle.Render(onOff(s.ShortcutsEnabled)),
	}
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n\n" +
		subtitleStyle.Render("Press Enter to start a round")
}

func (m PlayModel) renderRound() string {
	var b strings.Builder
	s := m.session

	mask := strings.ToUpper(strings.ReplaceAll(s.Mask(), " ", "  "))
	b.WriteString(maskStyle.Render(strings.Join(strings.Split(mask, ""), " ")))
	b.WriteString("\n")

	found, total := s.Progress()
	status := fmt.Sprintf("%s  •  %d/%d found  •  ", s.Structure(), found, total)
	b.WriteString(mutedStyle.Render(status))
	timer := fmt.Sprintf("%ds", s.TimeLeft())
	if s.TimeLeft() <= 10 {
		b.WriteString(timerLowStyle.Render(timer))
	} else {
		b.WriteString(timerStyle.Render(timer))
	}
	b.WriteString("\n\n")

	if s.Status() == game.StatusPlaying {
		b.WriteString(inputBoxStyle.Render(m.input.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(subtitleStyle.Render(roundOutcome(s.Status())))
		b.WriteString("\n")
	}

	if m.flash != "" {
		if m.flashBad {
			b.WriteString(errorStyle.Render(m.flash))
		} else {
			b.WriteString(successStyle.Render(m.flash))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderAnswers())
	return b.String()
}

func (m PlayModel) renderAnswers() string {
	s := m.session
	answers := s.Answers()
	width := 4
	for _, a := range answers {
		width = max(width, len([]rune(a))+2)
	}

	visible := max(m.height-18, 5)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(answers))

	var lines []string
	for i := start; i < end; i++ {
		a := answers[i]
		cursor := "  "
		if i == m.selected && s.Status() == game.StatusPlaying {
			cursor = "▸ "
		}

		var cell string
		switch {
		case s.IsFound(a):
			cell = foundStyle.Render(padRight(a, width)) + mutedStyle.Render(m.themeNames(a))
		case s.ShowingAll():
			cell = missedStyle.Render(padRight(a, width)) + mutedStyle.Render(m.themeNames(a))
		default:
			cell = valueStyle.Render(padRight(s.MaskFor(a), width))
			if r, ok := s.RevealState(a); ok && r.Exhausted {
				cell += mutedStyle.Render("no more hints")
			}
		}
		lines = append(lines, cursor+cell)
	}
	if len(answers) > visible {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %d-%d of %d answers", start+1, end, len(answers))))
	}
	return strings.Join(lines, "\n")
}

// themeNames lists the canonical themes behind answer when the round is
// played in a translation language.
func (m PlayModel) themeNames(answer string) string {
	lang := m.session.Settings().Language
	if lang.IsDefault() {
		return ""
	}
	var names []string
	for _, it := range m.session.Themes() {
		if theme.AnswerKey(it.Text(lang)) == answer {
			names = append(names, it.Theme)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func (m PlayModel) helpText() string {
	if m.session.Status() == game.StatusPlaying {
		return "enter: guess • ↑/↓: select • ctrl+r: hint • ctrl+a: hint all • ctrl+g: give up • ctrl+n: new round"
	}
	return "enter: new round • 4: settings"
}

func roundOutcome(s game.Status) string {
	switch s {
	case game.StatusWon:
		return "Round complete. Press Enter for the next one."
	case game.StatusTimeout:
		return "Round over. Press Enter to try another."
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
