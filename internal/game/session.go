// Package game runs a single player's trainer rounds: it starts a round from
// the hint engine, accepts guesses, reveals per-answer hints and keeps the
// countdown and score.
//
// A Session is owned by one player and is not safe for concurrent use.
package game

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/f3rmion/gtb/internal/hint"
	"github.com/f3rmion/gtb/internal/normalize"
	"github.com/f3rmion/gtb/internal/shortcut"
	"github.com/f3rmion/gtb/internal/theme"
)

// DefaultRoundSeconds is the countdown length of a round.
const DefaultRoundSeconds = 90

var (
	// ErrEmptyPool means no item of the corpus fits the chosen settings.
	ErrEmptyPool = errors.New("no themes for these settings")
	// ErrNotPlaying is returned for round actions outside a running round.
	ErrNotPlaying = errors.New("no round in progress")
	// ErrUnknownAnswer is returned when a hint is requested for an answer
	// that is not part of the round.
	ErrUnknownAnswer = errors.New("not an answer of this round")
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusStart   Status = "start"
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusTimeout Status = "timeout"
)

// Reveal is the progressive hint state of one answer. A missing entry means
// no hint was requested for that answer yet.
type Reveal struct {
	Mask      string
	Exhausted bool // nothing more can be revealed
}

// Result describes the outcome of a guess.
type Result struct {
	Accepted []string // answers newly found by the guess
	Complete bool     // every answer is now found
	Points   int      // points awarded when Complete
}

// Rejected reports whether the guess found nothing.
func (r Result) Rejected() bool {
	return len(r.Accepted) == 0
}

// Session holds the state of the current round and the running score.
type Session struct {
	engine    *hint.Engine
	shortcuts shortcut.Provider
	roundTime int
	now       func() time.Time
	log       zerolog.Logger

	settings  Settings
	status    Status
	roundID   string
	startedAt time.Time
	hint      hint.Hint
	found     []string
	reveals   map[string]*Reveal
	showAll   bool
	timeLeft  int
	score     int
}

// Option configures a Session.
type Option func(*Session)

// WithShortcuts sets the shortcut provider consulted when shortcuts are
// enabled.
func WithShortcuts(p shortcut.Provider) Option {
	return func(s *Session) {
		s.shortcuts = p
	}
}

// WithRoundTime sets the countdown length in seconds.
func WithRoundTime(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.roundTime = seconds
		}
	}
}

// WithScore restores a previously saved score.
func WithScore(score int) Option {
	return func(s *Session) {
		s.score = score
	}
}

// WithClock overrides the time source used for round timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession creates an idle session drawing hints from engine.
func NewSession(engine *hint.Engine, opts ...Option) *Session {
	s := &Session{
		engine:    engine,
		roundTime: DefaultRoundSeconds,
		now:       time.Now,
		log:       zerolog.Nop(),
		settings:  DefaultSettings(),
		status:    StatusStart,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timeLeft = s.roundTime
	return s
}

// Start begins a new round with settings, discarding any round in progress.
func (s *Session) Start(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if s.engine.PoolSize(settings.Difficulty, settings.Language) == 0 {
		return fmt.Errorf("start round: %w", ErrEmptyPool)
	}

	h := s.engine.Generate(settings.Difficulty, settings.RevealCount, settings.Language)

	s.settings = settings
	s.status = StatusPlaying
	s.roundID = uuid.NewString()
	s.startedAt = s.now()
	s.hint = h
	s.found = nil
	s.reveals = make(map[string]*Reveal)
	s.showAll = false
	s.timeLeft = s.roundTime

	s.log.Debug().
		Str("round", s.roundID).
		Str("mask", h.Mask).
		Int("answers", len(h.Answers)).
		Int("regenerations", h.Regenerations).
		Msg("round started")
	return nil
}

// CheckAnswer matches a guess against the answers not found yet. A wrong or
// empty guess returns a rejected Result and changes nothing.
func (s *Session) CheckAnswer(raw string) (Result, error) {
	if s.status != StatusPlaying {
		return Result{}, ErrNotPlaying
	}

	input := theme.AnswerKey(raw)
	if input == "" {
		return Result{}, nil
	}

	var targets []string
	if s.settings.ShortcutsEnabled && s.shortcuts != nil {
		targets = s.shortcuts.Lookup(input)
	}

	var accepted []string
	for _, answer := range s.Remaining() {
		if s.accepts(answer, input, targets) {
			accepted = append(accepted, answer)
		}
	}
	if len(accepted) == 0 {
		s.log.Debug().Str("guess", input).Msg("guess rejected")
		return Result{}, nil
	}

	s.found = append(s.found, accepted...)
	res := Result{Accepted: accepted}
	if len(s.found) == len(s.hint.Answers) {
		res.Complete = true
		res.Points = s.settings.Difficulty.Points()
		s.score += res.Points
		s.status = StatusWon
	}

	s.log.Debug().
		Str("guess", input).
		Strs("accepted", accepted).
		Bool("complete", res.Complete).
		Msg("guess accepted")
	return res, nil
}

func (s *Session) accepts(answer, input string, targets []string) bool {
	if normalize.StripSpaces(answer) == normalize.StripSpaces(input) {
		return true
	}
	if slices.Contains(targets, answer) {
		return true
	}
	for _, it := range s.hint.Themes {
		if theme.AnswerKey(it.Text(s.settings.Language)) != answer {
			continue
		}
		if it.IsWorkTheme(input) {
			return true
		}
	}
	return false
}

// RevealMore uncovers one more character of answer's own mask and returns
// the new mask.
func (s *Session) RevealMore(answer string) (string, error) {
	if s.status != StatusPlaying {
		return "", ErrNotPlaying
	}
	if !slices.Contains(s.hint.Answers, answer) {
		return "", fmt.Errorf("reveal %q: %w", answer, ErrUnknownAnswer)
	}
	return s.reveal(answer), nil
}

// RevealAll advances the mask of every answer not found yet.
func (s *Session) RevealAll() error {
	if s.status != StatusPlaying {
		return ErrNotPlaying
	}
	for _, answer := range s.Remaining() {
		s.reveal(answer)
	}
	return nil
}

func (s *Session) reveal(answer string) string {
	next := s.engine.RevealMore(answer, s.MaskFor(answer))
	s.reveals[answer] = &Reveal{
		Mask:      next,
		Exhausted: hint.HiddenCount(next) <= 1,
	}
	return next
}

// MaskFor returns the progressive mask of answer, or the round mask when no
// hint was requested for it.
func (s *Session) MaskFor(answer string) string {
	if r, ok := s.reveals[answer]; ok {
		return r.Mask
	}
	return s.hint.Mask
}

// RevealState returns the progressive hint state of answer.
func (s *Session) RevealState(answer string) (Reveal, bool) {
	r, ok := s.reveals[answer]
	if !ok {
		return Reveal{}, false
	}
	return *r, true
}

// Tick advances the countdown by one second. The round times out when the
// last second elapses.
func (s *Session) Tick() Status {
	if s.status != StatusPlaying {
		return s.status
	}
	if s.timeLeft <= 1 {
		s.timeLeft = 0
		s.expire()
		return s.status
	}
	s.timeLeft--
	return s.status
}

// Timeout ends the running round immediately.
func (s *Session) Timeout() {
	if s.status == StatusPlaying {
		s.expire()
	}
}

func (s *Session) expire() {
	s.status = StatusTimeout
	s.showAll = true
	s.log.Debug().
		Str("round", s.roundID).
		Int("found", len(s.found)).
		Int("answers", len(s.hint.Answers)).
		Msg("round timed out")
}

// ShowAll marks every answer as visible.
func (s *Session) ShowAll() {
	s.showAll = true
}

// Reset discards the round and returns to the start state. The score is
// kept.
func (s *Session) Reset() {
	s.status = StatusStart
	s.roundID = ""
	s.startedAt = time.Time{}
	s.hint = hint.Hint{}
	s.found = nil
	s.reveals = nil
	s.showAll = false
	s.timeLeft = s.roundTime
}

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Settings returns the settings of the current or last round.
func (s *Session) Settings() Settings { return s.settings }

// Score returns the accumulated score.
func (s *Session) Score() int { return s.score }

// TimeLeft returns the remaining seconds of the round.
func (s *Session) TimeLeft() int { return s.timeLeft }

// ShowingAll reports whether all answers should be displayed.
func (s *Session) ShowingAll() bool { return s.showAll }

// RoundID identifies the current round. It is empty before Start.
func (s *Session) RoundID() string { return s.roundID }

// StartedAt returns when the current round began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Mask returns the shared hint mask.
func (s *Session) Mask() string { return s.hint.Mask }

// Structure describes the word lengths of the mask, e.g. "3-4".
func (s *Session) Structure() string { return hint.Structure(s.hint.Mask) }

// Answers returns every acceptable answer of the round.
func (s *Session) Answers() []string { return slices.Clone(s.hint.Answers) }

// Themes returns the corpus items behind the answers.
func (s *Session) Themes() []*theme.Item { return slices.Clone(s.hint.Themes) }

// Found returns the answers guessed so far, in the order they were found.
func (s *Session) Found() []string { return slices.Clone(s.found) }

// IsFound reports whether answer was guessed.
func (s *Session) IsFound(answer string) bool { return slices.Contains(s.found, answer) }

// Remaining returns the answers not found yet, in answer order.
func (s *Session) Remaining() []string {
	out := make([]string, 0, len(s.hint.Answers)-len(s.found))
	for _, a := range s.hint.Answers {
		if !s.IsFound(a) {
			out = append(out, a)
		}
	}
	return out
}

// Progress returns the number of found answers and the total.
func (s *Session) Progress() (found, total int) {
	return len(s.found), len(s.hint.Answers)
}
