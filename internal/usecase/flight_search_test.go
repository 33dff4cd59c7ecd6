package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var bogota = time.FixedZone("COT", -5*60*60)

func validSearchForm() SearchForm {
	departure, arrival := elDorado, rionegro
	return SearchForm{
		Departure:     &departure,
		Arrival:       &arrival,
		DepartureTime: time.Date(2024, 5, 1, 5, 0, 0, 0, bogota),
		Passengers:    entity.PassengerCounts{Adults: 2, Children: 1},
	}
}

func TestBuildFlightRequest(t *testing.T) {
	got, err := BuildFlightRequest(validSearchForm(), "COP")
	require.NoError(t, err)

	want := &entity.FlightRequest{
		Direct:        false,
		Currency:      "COP",
		Searchs:       100,
		Class:         false,
		QtyPassengers: 3,
		Adult:         2,
		Child:         1,
		Baby:          0,
		Seat:          0,
		Itinerary: []entity.ItineraryQuery{
			{DepartureCity: "BOG", ArrivalCity: "MDE", Hour: "2024-05-01T10:00:00.000Z"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildFlightRequest (-want,+got)\n%s", diff)
	}
}

func TestBuildFlightRequest_Invalid(t *testing.T) {
	noArrival := validSearchForm()
	noArrival.Arrival = nil
	_, err := BuildFlightRequest(noArrival, "COP")
	assert.ErrorIs(t, err, entity.ErrMissingSelection)

	noTime := validSearchForm()
	noTime.DepartureTime = time.Time{}
	_, err = BuildFlightRequest(noTime, "COP")
	assert.ErrorIs(t, err, entity.ErrMissingDepartureTime)
}

func TestFlightSearch_Search(t *testing.T) {
	previous := &entity.FlightResultSet{
		Carriers:  []string{"P5"},
		ByCarrier: map[string][]entity.FlightSegment{"P5": {segment("P5", "old")}},
	}

	type mocks struct {
		flights *FlightRepositoryMock
	}

	tests := []struct {
		name        string
		form        SearchForm
		mocker      func(m mocks)
		wantErrIs   error
		wantNotices []string
		wantFlights []string
		wantOutcome string
	}{
		{
			name: "flights found",
			form: validSearchForm(),
			mocker: func(m mocks) {
				m.flights.On("SearchFlights", mock.Anything, mock.MatchedBy(func(req *entity.FlightRequest) bool {
					return req.Itinerary[0].DepartureCity == "BOG" && req.QtyPassengers == 3
				})).Return(flightResponse([]entity.FlightSegment{segment("AV", "1"), segment("LA", "2")}), nil).Once()
			},
			wantNotices: []string{"success: Flights found."},
			wantFlights: []string{"1", "2"},
			wantOutcome: metrics.OutcomeSuccess,
		},
		{
			name: "no flights keeps the previous results",
			form: validSearchForm(),
			mocker: func(m mocks) {
				m.flights.On("SearchFlights", mock.Anything, mock.Anything).Return(flightResponse(), nil).Once()
			},
			wantErrIs:   entity.ErrNoFlightsFound,
			wantNotices: []string{"info: No available flights were found. Please try again."},
			wantFlights: []string{"old"},
			wantOutcome: metrics.OutcomeNoResults,
		},
		{
			name: "transport failure",
			form: validSearchForm(),
			mocker: func(m mocks) {
				m.flights.On("SearchFlights", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused")).Once()
			},
			wantErrIs:   entity.ErrSearchFailed,
			wantNotices: []string{"error: Error finding flights. Please try again."},
			wantFlights: []string{"old"},
			wantOutcome: metrics.OutcomeFailure,
		},
		{
			name:        "missing airport is refused before sending",
			form:        SearchForm{DepartureTime: time.Now()},
			mocker:      func(m mocks) {},
			wantErrIs:   entity.ErrMissingSelection,
			wantNotices: []string{},
			wantFlights: []string{"old"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mocks{flights: &FlightRepositoryMock{}}
			tt.mocker(m)

			notifier := &recordingNotifier{}
			met := metrics.NewNop()
			pager := NewPager(5)
			pager.Reset(previous)

			s := NewFlightSearch(m.flights, pager, notifier, "COP", logger.NewNop(), met)
			_, err := s.Search(context.Background(), tt.form)

			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			} else {
				require.NoError(t, err)
			}
			assert.False(t, s.Loading())
			assert.Equal(t, tt.wantNotices, notifier.messages())

			page, err := pager.Current()
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlights, flightNumbers(page.Items))

			if tt.wantOutcome != "" {
				assert.Equal(t, 1.0, testutil.ToFloat64(met.SearchesTotal.WithLabelValues(tt.wantOutcome)))
			}
			m.flights.AssertExpectations(t)
		})
	}
}

func TestFlightSearch_LoadingWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	flights := &FlightRepositoryMock{}
	flights.On("SearchFlights", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(flightResponse([]entity.FlightSegment{segment("AV", "1")}), nil).Once()

	s := NewFlightSearch(flights, NewPager(5), &recordingNotifier{}, "COP", logger.NewNop(), metrics.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), validSearchForm())
		done <- err
	}()

	<-started
	assert.True(t, s.Loading())
	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
}

func TestFlightSearch_SupersededSearchStaysQuiet(t *testing.T) {
	tests := []struct {
		name      string
		stale     func(call *mock.Call)
		wantErrIs error
	}{
		{
			name: "failure",
			stale: func(call *mock.Call) {
				call.Return(nil, errors.New("timeout"))
			},
			wantErrIs: entity.ErrSearchFailed,
		},
		{
			name: "no flights",
			stale: func(call *mock.Call) {
				call.Return(flightResponse(), nil)
			},
			wantErrIs: entity.ErrNoFlightsFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			started := make(chan struct{})
			release := make(chan struct{})

			flights := &FlightRepositoryMock{}
			first := flights.On("SearchFlights", mock.Anything, mock.Anything).
				Run(func(mock.Arguments) {
					close(started)
					<-release
				}).Once()
			tt.stale(first)
			flights.On("SearchFlights", mock.Anything, mock.Anything).
				Return(flightResponse([]entity.FlightSegment{segment("AV", "new")}), nil).Once()

			notifier := &recordingNotifier{}
			pager := NewPager(5)
			s := NewFlightSearch(flights, pager, notifier, "COP", logger.NewNop(), metrics.NewNop())

			done := make(chan error, 1)
			go func() {
				_, err := s.Search(context.Background(), validSearchForm())
				done <- err
			}()
			<-started

			_, err := s.Search(context.Background(), validSearchForm())
			require.NoError(t, err)

			close(release)
			assert.ErrorIs(t, <-done, tt.wantErrIs)

			assert.Equal(t, []string{"success: Flights found."}, notifier.messages())
			page, err := pager.Current()
			require.NoError(t, err)
			assert.Equal(t, []string{"new"}, flightNumbers(page.Items))
			flights.AssertExpectations(t)
		})
	}
}

func TestFlightSearch_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	flights := &FlightRepositoryMock{}
	flights.On("SearchFlights", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(flightResponse([]entity.FlightSegment{segment("AV", "1")}), nil).Once()

	s := NewFlightSearch(flights, NewPager(5), &recordingNotifier{}, "COP", logger.NewNop(), metrics.NewNop())
	_, err := s.Search(ctx, validSearchForm())
	require.NoError(t, err)
	flights.AssertExpectations(t)
}
