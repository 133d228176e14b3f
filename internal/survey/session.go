// =============================================================================
// Herbarium Atlas - Survey Session
// =============================================================================
//
// A Session folds the rows of one survey spreadsheet into a State. It is the
// only mutable part of the pipeline and lives for exactly one input file.
//
// PROCESSING:
//   1. NewSession seeds the date and location from the file name
//   2. Fold / FoldRow tokenize each row and fold every token into State
//   3. The validation package turns the final State into a SessionRecord
//
// No validation happens while folding, so every invalid taxon in the sheet
// is collected before anything is reported.
//
// =============================================================================

package survey

import (
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/herbarium-atlas/internal/reference"
	"github.com/ginjaninja78/herbarium-atlas/internal/types"
)

// =============================================================================
// STATE
// =============================================================================

// Entry is one recognised sighting.
type Entry struct {
	// Binomial is "Genus species".
	Binomial string

	// Sequence is 1-based and follows recognition order, not row numbers.
	Sequence int
}

// State is the working memory of a session. Optional values are nil when
// unset.
type State struct {
	Entries     []Entry
	Observers   []string
	Date        *time.Time
	Location    *string
	ManualTotal *int
	InvalidTaxa []TaxonName
}

// clone returns a deep copy so callers cannot mutate a session's state.
func (s State) clone() State {
	out := State{
		Entries:     append([]Entry(nil), s.Entries...),
		Observers:   append([]string(nil), s.Observers...),
		InvalidTaxa: append([]TaxonName(nil), s.InvalidTaxa...),
	}
	if s.Date != nil {
		date := *s.Date
		out.Date = &date
	}
	if s.Location != nil {
		location := *s.Location
		out.Location = &location
	}
	if s.ManualTotal != nil {
		total := *s.ManualTotal
		out.ManualTotal = &total
	}
	return out
}

// =============================================================================
// OPTIONS
// =============================================================================

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*options)

// WithLogger sets the logger used for per-token debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used for the future-date check.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session accumulates one survey file.
type Session struct {
	filename  string
	tokenizer *Tokenizer
	logger    *zap.Logger
	state     State
	rowsRead  int
}

// NewSession starts a session for filename. The file name supplies the
// fallback date and location; a filename date that is too early or in the
// future is returned as an error.
func NewSession(filename string, catalog *reference.Catalog, opts ...Option) (*Session, error) {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		filename:  filename,
		tokenizer: NewTokenizer(catalog),
		logger:    o.logger.With(zap.String("survey", filename)),
	}

	date, ok, err := DateFromFilename(filename, o.now())
	if err != nil {
		return nil, err
	}
	if ok {
		s.state.Date = &date
		s.logger.Debug("Date from filename", zap.String("date", FormatDate(date)))
	}

	if candidate := LocationCandidate(filename); catalog.IsLocation(candidate) {
		s.state.Location = &candidate
		s.logger.Debug("Location from filename", zap.String("location", candidate))
	}

	return s, nil
}

// Fold processes every row of grid, top to bottom.
func (s *Session) Fold(grid types.Grid) {
	for _, row := range grid {
		s.FoldRow(row)
	}
}

// FoldRow tokenizes one row and folds its tokens into the state.
func (s *Session) FoldRow(row types.Row) {
	s.rowsRead++
	for _, token := range s.tokenizer.Tokenize(row) {
		token.foldInto(&s.state)
		s.logger.Debug("Folded token",
			zap.Int("row", s.rowsRead),
			zap.Stringer("kind", token.Kind()))
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.clone()
}

// InvalidTaxa returns the partially matching names seen so far.
func (s *Session) InvalidTaxa() []TaxonName {
	return append([]TaxonName(nil), s.state.InvalidTaxa...)
}

// RowsRead is the number of rows passed to FoldRow, empty ones included.
func (s *Session) RowsRead() int {
	return s.rowsRead
}

// Filename is the survey file this session was started for.
func (s *Session) Filename() string {
	return s.filename
}
