package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
)

// Notice texts shown for search outcomes
const (
	MsgFlightsFound   = "Flights found."
	MsgNoFlightsFound = "No available flights were found. Please try again."
	MsgSearchFailed   = "Error finding flights. Please try again."
)

// Fixed search parameters sent with every flight search
const (
	searchResultLimit = 100
	searchHourLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// SearchForm is the submitted search form
type SearchForm struct {
	Departure     *entity.Airport
	Arrival       *entity.Airport
	DepartureTime time.Time
	Passengers    entity.PassengerCounts
}

// BuildFlightRequest converts a search form into the API request body
func BuildFlightRequest(form SearchForm, currency string) (*entity.FlightRequest, error) {
	if form.Departure == nil || form.Arrival == nil {
		return nil, entity.ErrMissingSelection
	}
	if form.DepartureTime.IsZero() {
		return nil, entity.ErrMissingDepartureTime
	}

	passengers := form.Passengers.Normalize()
	return &entity.FlightRequest{
		Direct:        false,
		Currency:      currency,
		Searchs:       searchResultLimit,
		Class:         false,
		QtyPassengers: passengers.Total(),
		Adult:         passengers.Adults,
		Child:         passengers.Children,
		Baby:          passengers.Babies,
		Seat:          0,
		Itinerary: []entity.ItineraryQuery{
			{
				DepartureCity: form.Departure.CodeIata,
				ArrivalCity:   form.Arrival.CodeIata,
				Hour:          form.DepartureTime.UTC().Format(searchHourLayout),
			},
		},
	}, nil
}

// FlightSearch runs flight searches and feeds the results to a pager
type FlightSearch struct {
	flights  repository.FlightRepository
	pager    *Pager
	notifier Notifier
	currency string
	logger   logger.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	seq      uint64
	inflight int
}

// NewFlightSearch creates a new flight search usecase
func NewFlightSearch(
	flights repository.FlightRepository,
	pager *Pager,
	notifier Notifier,
	currency string,
	logger logger.Logger,
	m *metrics.Metrics,
) *FlightSearch {
	return &FlightSearch{
		flights:  flights,
		pager:    pager,
		notifier: notifier,
		currency: currency,
		logger:   logger,
		metrics:  m,
	}
}

// Loading reports whether a search is in flight
func (s *FlightSearch) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inflight > 0
}

// Search sends one flight search. On success the pager is reset to the new
// result set. When nothing is found the previous result set stays in place.
// Only the most recent search may replace the results or post a notice.
// A search cannot be aborted once sent; cancellation of ctx is ignored.
func (s *FlightSearch) Search(ctx context.Context, form SearchForm) (*entity.FlightResultSet, error) {
	req, err := BuildFlightRequest(form, s.currency)
	if err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	s.logger.Info("Searching flights",
		"departure", req.Itinerary[0].DepartureCity,
		"arrival", req.Itinerary[0].ArrivalCity,
		"passengers", req.QtyPassengers)

	resp, err := s.flights.SearchFlights(ctx, req)
	if err != nil {
		s.logger.Error("Flight search failed", "error", err)
		s.metrics.SearchesTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		if s.latest(seq) {
			s.notify(ctx, entity.NoticeError, MsgSearchFailed)
		}
		return nil, fmt.Errorf("%w: %w", entity.ErrSearchFailed, err)
	}

	set, err := Aggregate(resp)
	if errors.Is(err, entity.ErrNoFlightsFound) {
		s.logger.Info("No flights found",
			"departure", req.Itinerary[0].DepartureCity,
			"arrival", req.Itinerary[0].ArrivalCity)
		s.metrics.SearchesTotal.WithLabelValues(metrics.OutcomeNoResults).Inc()
		if s.latest(seq) {
			s.notify(ctx, entity.NoticeInfo, MsgNoFlightsFound)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	latest := seq == s.seq
	if latest {
		s.pager.Reset(set)
	}
	s.mu.Unlock()

	if !latest {
		s.logger.Debug("Dropping results of a superseded search", "carriers", len(set.Carriers))
		return set, nil
	}

	s.logger.Info("Flights found", "carriers", len(set.Carriers), "segments", set.Len())
	s.metrics.SearchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.notify(ctx, entity.NoticeSuccess, MsgFlightsFound)
	return set, nil
}

func (s *FlightSearch) latest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return seq == s.seq
}

func (s *FlightSearch) notify(ctx context.Context, level entity.NoticeLevel, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, entity.Notice{Level: level, Message: msg, At: time.Now()})
}
