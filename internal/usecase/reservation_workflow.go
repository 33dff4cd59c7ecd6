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

// Notice texts shown for reservation outcomes
const (
	MsgReservationCreated = "Reserve made successfully, redirecting..."
	MsgReservationFailed  = "Error making the reservation."
)

// ReservationState is a state of the reservation workflow
type ReservationState string

const (
	StateIdle       ReservationState = "idle"
	StateConfirming ReservationState = "confirming"
	StateSubmitting ReservationState = "submitting"
)

// ReservationSettings holds the pass-through amounts and the reload delay
type ReservationSettings struct {
	TotalAmount float64
	Currency    string
	ReloadDelay time.Duration
}

// BuildReservationRequest freezes the chosen segment and search selection
// into a reservation request. Unknown airports are sent as "N/A".
func BuildReservationRequest(
	segment entity.FlightSegment,
	search entity.SearchSnapshot,
	user entity.User,
	settings ReservationSettings,
) *entity.ReservationRequest {
	passengers := search.Passengers.Normalize()

	departure := entity.NotAvailable
	if search.Departure != nil && search.Departure.Name != "" {
		departure = search.Departure.Name
	}
	arrival := entity.NotAvailable
	if search.Arrival != nil && search.Arrival.Name != "" {
		arrival = search.Arrival.Name
	}

	return &entity.ReservationRequest{
		Name:           user.Name,
		Email:          user.Email,
		PassengerCount: passengers.Total(),
		AdultCount:     passengers.Adults,
		ChildCount:     passengers.Children,
		BabyCount:      passengers.Babies,
		TotalAmount:    settings.TotalAmount,
		Currency:       settings.Currency,
		Itineraries: []entity.ItinerarySnapshot{
			{
				DepartureCity:    departure,
				ArrivalCity:      arrival,
				DepartureDate:    segment.ProductDateTime.DateOfDeparture,
				ArrivalDate:      segment.ProductDateTime.DateOfArrival,
				DepartureTime:    segment.ProductDateTime.TimeOfDeparture,
				ArrivalTime:      segment.ProductDateTime.TimeOfArrival,
				FlightNumber:     segment.FlightNumber,
				MarketingCarrier: segment.CompanyID.MarketingCarrier,
			},
		},
	}
}

// ReservationWorkflow serializes select, confirm, submit and ledger append.
//
//	idle --Select--> confirming --Confirm--> submitting --done--> idle
//	                 confirming --Cancel---> idle
type ReservationWorkflow struct {
	reservations repository.ReservationRepository
	session      *SessionStore
	notifier     Notifier
	reloader     Reloader
	settings     ReservationSettings
	logger       logger.Logger
	metrics      *metrics.Metrics

	mu          sync.Mutex
	state       ReservationState
	segment     *entity.FlightSegment
	search      entity.SearchSnapshot
	ledger      []json.RawMessage
	reloadTimer *time.Timer
}

// NewReservationWorkflow creates a new reservation workflow in the idle state
func NewReservationWorkflow(
	reservations repository.ReservationRepository,
	session *SessionStore,
	notifier Notifier,
	reloader Reloader,
	settings ReservationSettings,
	logger logger.Logger,
	m *metrics.Metrics,
) *ReservationWorkflow {
	return &ReservationWorkflow{
		reservations: reservations,
		session:      session,
		notifier:     notifier,
		reloader:     reloader,
		settings:     settings,
		logger:       logger,
		metrics:      m,
		state:        StateIdle,
		ledger:       []json.RawMessage{},
	}
}

// Start hydrates the ledger view from the session store
func (w *ReservationWorkflow) Start(ctx context.Context) error {
	ledger, err := w.session.Reservations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reservations: %w", err)
	}

	w.mu.Lock()
	w.ledger = ledger
	w.mu.Unlock()

	w.logger.Info("Reservation ledger loaded", "count", len(ledger))
	return nil
}

// Ledger returns a copy of the known reservations, one stored record each
func (w *ReservationWorkflow) Ledger() []json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]json.RawMessage{}, w.ledger...)
}

// State returns the current state
func (w *ReservationWorkflow) State() ReservationState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Busy reports whether a submission is in flight
func (w *ReservationWorkflow) Busy() bool {
	return w.State() == StateSubmitting
}

// Pending returns the segment awaiting confirmation, or nil
func (w *ReservationWorkflow) Pending() *entity.FlightSegment {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.segment == nil {
		return nil
	}
	segment := *w.segment
	return &segment
}

// Select stores the chosen segment and opens the confirmation
func (w *ReservationWorkflow) Select(segment entity.FlightSegment, search entity.SearchSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return fmt.Errorf("%w: select while %s", entity.ErrInvalidTransition, w.state)
	}
	w.segment = &segment
	w.search = search
	w.state = StateConfirming
	return nil
}

// Cancel discards the pending segment
func (w *ReservationWorkflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateConfirming {
		return fmt.Errorf("%w: cancel while %s", entity.ErrInvalidTransition, w.state)
	}
	w.segment = nil
	w.search = entity.SearchSnapshot{}
	w.state = StateIdle
	return nil
}

// Confirm submits the pending segment. A second confirm while the first is
// still submitting is rejected with ErrReservationInProgress and sends
// nothing. The workflow is idle again once Confirm returns. A submission
// cannot be aborted: cancellation of ctx is ignored.
func (w *ReservationWorkflow) Confirm(ctx context.Context) (*entity.Reservation, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		w.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, entity.ErrReservationInProgress
	case StateIdle:
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: confirm while idle", entity.ErrInvalidTransition)
	}
	segment := *w.segment
	search := w.search
	w.state = StateSubmitting
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.segment = nil
		w.search = entity.SearchSnapshot{}
		w.state = StateIdle
		w.mu.Unlock()
	}()

	ctx = context.WithoutCancel(ctx)
	reservation, err := w.submit(ctx, segment, search)
	if err != nil {
		w.logger.Error("Reservation failed",
			"flightNumber", segment.FlightNumber,
			"carrier", segment.CompanyID.MarketingCarrier,
			"error", err)
		w.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		w.notify(ctx, entity.NoticeError, MsgReservationFailed)
		return nil, fmt.Errorf("%w: %w", entity.ErrReservationFailed, err)
	}

	w.metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	w.notify(ctx, entity.NoticeSuccess, MsgReservationCreated)
	w.scheduleReload()
	return reservation, nil
}

// Close stops a pending reload
func (w *ReservationWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reloadTimer != nil {
		w.reloadTimer.Stop()
		w.reloadTimer = nil
	}
}

func (w *ReservationWorkflow) submit(ctx context.Context, segment entity.FlightSegment, search entity.SearchSnapshot) (*entity.Reservation, error) {
	// Read at confirm time so a profile update after selection is honoured.
	user, err := w.session.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrNotAuthenticated
	}

	req := BuildReservationRequest(segment, search, *user, w.settings)
	reservation, err := w.reservations.SubmitReservation(ctx, req)
	if err != nil {
		return nil, err
	}

	record, err := reservation.Record()
	if err != nil {
		return nil, fmt.Errorf("failed to encode reservation: %w", err)
	}
	ledger, err := w.session.AppendReservation(ctx, record)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.ledger = ledger
	w.mu.Unlock()

	w.logger.Info("Reservation stored",
		"reservationId", reservation.ID,
		"ledgerSize", len(ledger))
	return reservation, nil
}

func (w *ReservationWorkflow) scheduleReload() {
	if w.reloader == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reloadTimer != nil {
		w.reloadTimer.Stop()
	}
	w.reloadTimer = time.AfterFunc(w.settings.ReloadDelay, func() {
		w.reloader.Reload(context.Background())
	})
}

func (w *ReservationWorkflow) notify(ctx context.Context, level entity.NoticeLevel, msg string) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(ctx, entity.Notice{Level: level, Message: msg, At: time.Now()})
}
