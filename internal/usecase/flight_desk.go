package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// FlightDeskSettings configures a flight desk
type FlightDeskSettings struct {
	LookupDebounce time.Duration
	LookupMinChars int
	LookupTimeout  time.Duration
	PageSize       int
	SearchCurrency string
	Reservation    ReservationSettings
}

// FlightDeskDeps are the collaborators of a flight desk
type FlightDeskDeps struct {
	Catalog      repository.CatalogRepository
	Flights      repository.FlightRepository
	Reservations repository.ReservationRepository
	Session      *SessionStore
	Notifier     Notifier
	Logger       logger.Logger
	Metrics      *metrics.Metrics
}

// FlightDesk is the headless search and reservation screen. It owns both
// airport fields, the search form, the result pager and the reservation
// workflow.
type FlightDesk struct {
	departure *SuggestionFetcher
	arrival   *SuggestionFetcher
	search    *FlightSearch
	pager     *Pager
	workflow  *ReservationWorkflow
	logger    logger.Logger

	mu            sync.Mutex
	passengers    entity.PassengerCounts
	departureTime time.Time
}

// NewFlightDesk wires a flight desk from its settings and collaborators
func NewFlightDesk(settings FlightDeskSettings, deps FlightDeskDeps) *FlightDesk {
	suggestions := NewSuggestionService(deps.Catalog, settings.LookupMinChars, deps.Logger)
	pager := NewPager(settings.PageSize)

	d := &FlightDesk{
		departure: NewSuggestionFetcher(entity.FieldDeparture, suggestions,
			settings.LookupDebounce, settings.LookupTimeout, deps.Logger, deps.Metrics),
		arrival: NewSuggestionFetcher(entity.FieldArrival, suggestions,
			settings.LookupDebounce, settings.LookupTimeout, deps.Logger, deps.Metrics),
		search:     NewFlightSearch(deps.Flights, pager, deps.Notifier, settings.SearchCurrency, deps.Logger, deps.Metrics),
		pager:      pager,
		logger:     deps.Logger,
		passengers: entity.DefaultPassengerCounts(),
	}
	d.workflow = NewReservationWorkflow(deps.Reservations, deps.Session, deps.Notifier,
		ReloaderFunc(d.Reload), settings.Reservation, deps.Logger, deps.Metrics)
	return d
}

// Start loads the persisted ledger
func (d *FlightDesk) Start(ctx context.Context) error {
	return d.workflow.Start(ctx)
}

// Close stops every timer owned by the desk
func (d *FlightDesk) Close() {
	d.departure.Close()
	d.arrival.Close()
	d.workflow.Close()
}

// Field returns the fetcher of one airport input
func (d *FlightDesk) Field(field entity.Field) (*SuggestionFetcher, error) {
	switch field {
	case entity.FieldDeparture:
		return d.departure, nil
	case entity.FieldArrival:
		return d.arrival, nil
	}
	return nil, fmt.Errorf("unknown field %q", field)
}

// SetPassengers updates the passenger counts of the search form
func (d *FlightDesk) SetPassengers(p entity.PassengerCounts) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.passengers = p.Normalize()
}

// SetDepartureTime updates the departure time of the search form
func (d *FlightDesk) SetDepartureTime(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.departureTime = t
}

// Form returns the search form as currently filled in
func (d *FlightDesk) Form() SearchForm {
	d.mu.Lock()
	defer d.mu.Unlock()

	return SearchForm{
		Departure:     d.departure.Selected(),
		Arrival:       d.arrival.Selected(),
		DepartureTime: d.departureTime,
		Passengers:    d.passengers,
	}
}

// Searching reports whether a flight search is in flight
func (d *FlightDesk) Searching() bool {
	return d.search.Loading()
}

// Search runs a flight search with the current form
func (d *FlightDesk) Search(ctx context.Context) (*entity.FlightResultSet, error) {
	return d.search.Search(ctx, d.Form())
}

// Results returns page n of the current results, or the current page when n is 0
func (d *FlightDesk) Results(n int) (Page, error) {
	if n == 0 {
		return d.pager.Current()
	}
	return d.pager.Goto(n)
}

// NextPage advances the result pager
func (d *FlightDesk) NextPage() (Page, error) {
	return d.pager.Next()
}

// PrevPage moves the result pager back
func (d *FlightDesk) PrevPage() (Page, error) {
	return d.pager.Prev()
}

// SelectFlight opens the confirmation for item index of page n
func (d *FlightDesk) SelectFlight(n, index int) (entity.FlightSegment, error) {
	page, err := Paginate(d.pager.Results(), d.pager.pageSize, n)
	if err != nil {
		return entity.FlightSegment{}, err
	}
	if index < 0 || index >= len(page.Items) {
		return entity.FlightSegment{}, fmt.Errorf("%w: item %d of page %d", entity.ErrPageOutOfRange, index, n)
	}

	form := d.Form()
	segment := page.Items[index]
	snapshot := entity.SearchSnapshot{
		Departure:  form.Departure,
		Arrival:    form.Arrival,
		Passengers: form.Passengers,
	}
	if err := d.workflow.Select(segment, snapshot); err != nil {
		return entity.FlightSegment{}, err
	}
	return segment, nil
}

// CancelReservation closes the confirmation
func (d *FlightDesk) CancelReservation() error {
	return d.workflow.Cancel()
}

// ConfirmReservation submits the pending reservation
func (d *FlightDesk) ConfirmReservation(ctx context.Context) (*entity.Reservation, error) {
	return d.workflow.Confirm(ctx)
}

// Reservation exposes the reservation workflow state
func (d *FlightDesk) Reservation() *ReservationWorkflow {
	return d.workflow
}

// Reservations returns the known reservations
func (d *FlightDesk) Reservations() []json.RawMessage {
	return d.workflow.Ledger()
}

// Reload returns the search form and results to a clean state and reloads
// the ledger from the session store
func (d *FlightDesk) Reload(ctx context.Context) {
	d.departure.Reset()
	d.arrival.Reset()
	d.pager.Reset(nil)

	d.mu.Lock()
	d.passengers = entity.DefaultPassengerCounts()
	d.departureTime = time.Time{}
	d.mu.Unlock()

	if err := d.workflow.Start(ctx); err != nil {
		d.logger.Error("Failed to reload reservations", "error", err)
		return
	}
	d.logger.Info("Flight desk reloaded")
}
