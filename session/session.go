// Package session holds the editable display of a calculator and drives the
// expression engine as the display changes.
package session

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zephyrtronium/scicalc"
)

// HistoryRecord is a committed calculation.
type HistoryRecord struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Calculation string    `json:"calculation" yaml:"calculation"`
	Result      string    `json:"result" yaml:"result"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Session is the state of one calculator display. A Session is safe for
// concurrent use, but its methods are normally called in sequence by a single
// input loop.
type Session struct {
	mu sync.Mutex

	ctx     scicalc.Context
	display scicalc.DisplayOptions
	log     *slog.Logger
	now     func() time.Time

	text string
	// ans is the last committed result, and ansText is how it was shown.
	// While the display begins with ansText, evaluation continues from the
	// exact value.
	ans     *scicalc.Result
	ansText string
	// fresh is set right after a commit, when typing a new operand replaces
	// the display instead of extending it.
	fresh bool

	history []HistoryRecord
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for evaluations and commits.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithSeparators sets the separators used for input and display.
func WithSeparators(sep scicalc.Separators) Option {
	return func(s *Session) {
		s.display.Separators = sep
	}
}

// WithDisplay sets the display options for results.
func WithDisplay(opts scicalc.DisplayOptions) Option {
	return func(s *Session) {
		s.display = opts
	}
}

// New creates an empty session evaluating under ctx.
func New(ctx scicalc.Context, opts ...Option) *Session {
	s := &Session{
		ctx:     ctx,
		display: scicalc.DefaultDisplay(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.display.Separators.Decimal == 0 {
		s.display.Separators = scicalc.DefaultSeparators
	}
	return s
}

// Text returns the current display text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetText replaces the display text.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = scicalc.FormatNumbers(text, s.display.Separators)
	s.fresh = false
}

// Clear empties the display and forgets the last result.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = ""
	s.ans, s.ansText, s.fresh = nil, "", false
}

// Context returns the evaluation settings.
func (s *Session) Context() scicalc.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// SetAngle sets the angle mode.
func (s *Session) SetAngle(m scicalc.AngleMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Angle = m
	s.log.Debug("angle mode", slog.String("mode", m.String()))
}

// ToggleInverse switches function keys between their normal and inverse
// meanings and returns the new state.
func (s *Session) ToggleInverse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.Inverse = !s.ctx.Inverse
	return s.ctx.Inverse
}

// Result returns the last committed result, if any.
func (s *Session) Result() (scicalc.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ans == nil {
		return scicalc.Result{}, false
	}
	return *s.ans, true
}

// History returns the committed calculations, oldest first.
func (s *Session) History() []HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := make([]HistoryRecord, len(s.history))
	copy(r, s.history)
	return r
}

// Preview evaluates the display for live feedback. The result is empty if the
// display has no operation to perform or does not evaluate.
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fresh || !hasOperation(s.text, s.display.Separators, s.ctx) {
		return ""
	}
	r, err := s.eval()
	if err != nil {
		return ""
	}
	return scicalc.FormatResult(r, s.display)
}

// Equals commits the display. On success, the display shows the result and
// the returned record is added to the history. On failure, the error is a
// *scicalc.Error whose Message is suitable to show in place of a result, and
// the display is unchanged.
func (s *Session) Equals() (HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.eval()
	if err != nil {
		s.log.Info("calculation failed",
			slog.String("calculation", s.text),
			slog.String("kind", scicalc.KindOf(err).String()),
		)
		return HistoryRecord{}, err
	}
	res := scicalc.FormatResult(r, s.display)
	rec := HistoryRecord{
		ID:          uuid.New(),
		Calculation: s.text,
		Result:      res,
		Timestamp:   s.now(),
	}
	s.history = append(s.history, rec)
	s.log.Info("calculation committed",
		slog.String("id", rec.ID.String()),
		slog.String("calculation", rec.Calculation),
		slog.String("result", rec.Result),
	)
	s.text = res
	s.ans, s.ansText, s.fresh = &r, res, true
	return rec, nil
}

// eval evaluates the display. Evaluation continues from the exact value of
// the last result while the display still begins with it.
func (s *Session) eval() (scicalc.Result, error) {
	raw := s.text
	if s.continuesAnswer() {
		exact := s.ans.Exact.String()
		if d := s.display.Separators.Decimal; d != '.' {
			exact = strings.Replace(exact, ".", string(d), 1)
		}
		raw = "(" + exact + ")" + raw[len(s.ansText):]
	}
	// Inverse keys insert explicit inverse glyphs, so the text already says
	// which function it means.
	ctx := s.ctx
	ctx.Inverse = false
	r, err := scicalc.Calculate(raw, s.display.Separators, ctx)
	s.log.Debug("evaluated",
		slog.String("text", s.text),
		slog.String("canonical", scicalc.Normalize(raw, s.display.Separators, ctx)),
		slog.Any("err", err),
	)
	return r, err
}

// continuesAnswer reports whether the display begins with the last result as
// a whole number, not as the start of a longer one.
func (s *Session) continuesAnswer() bool {
	if s.ans == nil || s.ansText == "" || !strings.HasPrefix(s.text, s.ansText) {
		return false
	}
	rest := s.text[len(s.ansText):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	sep := s.display.Separators
	return !('0' <= r && r <= '9' || r == sep.Decimal || r == sep.Grouping || r == 'E')
}

// hasOperation reports whether text does anything beyond stating a number.
func hasOperation(text string, sep scicalc.Separators, ctx scicalc.Context) bool {
	toks := scicalc.Tokenize(text, sep, ctx)
	for i, tok := range toks {
		switch tok.Kind {
		case scicalc.Number, scicalc.LeftParen, scicalc.RightParen:
		case scicalc.Operator:
			// A leading sign alone is still just a number.
			if i > 0 || len(toks) > 2 {
				return true
			}
		default:
			return true
		}
	}
	return false
}
