package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

const defaultLookupTimeout = 10 * time.Second

// FieldState is what a host needs to render one airport input
type FieldState struct {
	Field       entity.Field             `json:"field"`
	Text        string                   `json:"text"`
	Loading     bool                     `json:"loading"`
	Suggestions []entity.SuggestionGroup `json:"suggestions"`
	Selected    *entity.Airport          `json:"selected,omitempty"`
}

// SuggestionFetcher debounces the input of one airport field and applies
// lookup results only while they still match the current input.
type SuggestionFetcher struct {
	field    entity.Field
	service  *SuggestionService
	debounce time.Duration
	timeout  time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	text        string
	generation  uint64
	timer       *time.Timer
	loading     bool
	suggestions []entity.SuggestionGroup
	selected    *entity.Airport
}

// NewSuggestionFetcher creates the fetcher of one input field
func NewSuggestionFetcher(
	field entity.Field,
	service *SuggestionService,
	debounce time.Duration,
	timeout time.Duration,
	logger logger.Logger,
	m *metrics.Metrics,
) *SuggestionFetcher {
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &SuggestionFetcher{
		field:       field,
		service:     service,
		debounce:    debounce,
		timeout:     timeout,
		logger:      logger.With("field", string(field)),
		metrics:     m,
		ctx:         ctx,
		cancel:      cancel,
		suggestions: []entity.SuggestionGroup{},
	}
}

// Input records an edit of the field text. It clears the selection and
// re-arms the debounce timer; short text clears the suggestions at once.
func (f *SuggestionFetcher) Input(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.text = text
	f.selected = nil
	f.generation++
	f.stopTimerLocked()

	if !f.service.Qualifies(text) {
		f.loading = false
		f.suggestions = []entity.SuggestionGroup{}
		return
	}

	generation := f.generation
	f.timer = time.AfterFunc(f.debounce, func() {
		f.fetch(generation, text)
	})
}

// Select picks an airport out of the current suggestions. The field text
// becomes the airport label and the suggestions are cleared.
func (f *SuggestionFetcher) Select(airportID int64) (entity.Airport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, group := range f.suggestions {
		for _, airport := range group.Airports {
			if airport.ID != airportID {
				continue
			}
			selected := airport
			f.selected = &selected
			f.text = selected.Label()
			f.generation++
			f.stopTimerLocked()
			f.loading = false
			f.suggestions = []entity.SuggestionGroup{}
			return selected, nil
		}
	}
	return entity.Airport{}, entity.ErrUnknownAirport
}

// Dismiss clears the suggestion list and drops any pending lookup.
// A selection already made is kept.
func (f *SuggestionFetcher) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.stopTimerLocked()
	f.loading = false
	f.suggestions = []entity.SuggestionGroup{}
}

// Reset returns the field to its empty state
func (f *SuggestionFetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.stopTimerLocked()
	f.text = ""
	f.loading = false
	f.selected = nil
	f.suggestions = []entity.SuggestionGroup{}
}

// Selected returns a copy of the selected airport, or nil
func (f *SuggestionFetcher) Selected() *entity.Airport {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.selected == nil {
		return nil
	}
	selected := *f.selected
	return &selected
}

// Snapshot returns the current state of the field
func (f *SuggestionFetcher) Snapshot() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := FieldState{
		Field:       f.field,
		Text:        f.text,
		Loading:     f.loading,
		Suggestions: append([]entity.SuggestionGroup{}, f.suggestions...),
	}
	if f.selected != nil {
		selected := *f.selected
		state.Selected = &selected
	}
	return state
}

// Close stops the timer and abandons any lookup in flight
func (f *SuggestionFetcher) Close() {
	f.mu.Lock()
	f.generation++
	f.stopTimerLocked()
	f.mu.Unlock()
	f.cancel()
}

func (f *SuggestionFetcher) fetch(generation uint64, query string) {
	f.mu.Lock()
	if generation != f.generation {
		f.mu.Unlock()
		return
	}
	f.loading = true
	f.mu.Unlock()

	f.metrics.LookupsTotal.WithLabelValues(string(f.field)).Inc()

	ctx, cancel := context.WithTimeout(f.ctx, f.timeout)
	groups, err := f.service.Lookup(ctx, query)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation || query != f.text {
		f.metrics.LookupsStale.WithLabelValues(string(f.field)).Inc()
		f.logger.Debug("Dropping stale lookup result", "query", query)
		return
	}

	f.loading = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			f.metrics.LookupFailures.WithLabelValues(string(f.field)).Inc()
			f.logger.Warn("Airport lookup failed", "query", query, "error", err)
		}
		f.suggestions = []entity.SuggestionGroup{}
		return
	}
	f.suggestions = groups
}

func (f *SuggestionFetcher) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
