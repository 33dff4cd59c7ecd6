package usecase

import (
	"errors"
	"testing"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testDebounce = 20 * time.Millisecond

var (
	bogotaLookup = &entity.AirportLookup{
		Airports: []entity.Airport{},
		Cities:   []entity.City{{ID: 1, CodeIata: "BOG", Name: "Bogota", ChildAirports: []entity.Airport{elDorado}}},
	}
	medellinLookup = &entity.AirportLookup{
		Cities: []entity.City{{ID: 2, CodeIata: "MDE", Name: "Medellin", ChildAirports: []entity.Airport{rionegro}}},
	}
)

func newTestFetcher(t *testing.T, catalog *CatalogRepositoryMock) (*SuggestionFetcher, *metrics.Metrics) {
	m := metrics.NewNop()
	service := NewSuggestionService(catalog, 3, logger.NewNop())
	f := NewSuggestionFetcher(entity.FieldDeparture, service, testDebounce, time.Second, logger.NewNop(), m)
	t.Cleanup(f.Close)
	return f, m
}

func groupKeys(state FieldState) []string {
	keys := []string{}
	for _, g := range state.Suggestions {
		keys = append(keys, g.Key)
	}
	return keys
}

func TestSuggestionFetcher_ShortQueryNeverLooksUp(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	f, _ := newTestFetcher(t, catalog)

	f.Input("B")
	f.Input("Bo")

	state := f.Snapshot()
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.Loading)

	time.Sleep(5 * testDebounce)
	catalog.AssertNotCalled(t, "LookupAirports", mock.Anything, mock.Anything)
}

func TestSuggestionFetcher_DebounceCollapsesKeystrokes(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bogot").Return(bogotaLookup, nil).Once()
	f, m := newTestFetcher(t, catalog)

	for _, text := range []string{"Bog", "Bogo", "Bogot"} {
		f.Input(text)
	}

	require.Eventually(t, func() bool {
		return len(f.Snapshot().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(3 * testDebounce)
	catalog.AssertNumberOfCalls(t, "LookupAirports", 1)
	catalog.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LookupsTotal.WithLabelValues("departure")))
}

func TestSuggestionFetcher_StaleResponseIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bog").
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(bogotaLookup, nil).Once()
	catalog.On("LookupAirports", mock.Anything, "Med").Return(medellinLookup, nil).Once()
	f, m := newTestFetcher(t, catalog)

	f.Input("Bog")
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("lookup for Bog was never sent")
	}

	f.Input("Med")
	require.Eventually(t, func() bool {
		keys := groupKeys(f.Snapshot())
		return len(keys) == 1 && keys[0] == "city-2"
	}, time.Second, 5*time.Millisecond)

	close(release)
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.LookupsStale.WithLabelValues("departure")) == 1
	}, time.Second, 5*time.Millisecond)

	state := f.Snapshot()
	assert.Equal(t, "Med", state.Text)
	assert.Equal(t, []string{"city-2"}, groupKeys(state))
	catalog.AssertExpectations(t)
}

func TestSuggestionFetcher_SelectClearsSuggestions(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bog").Return(bogotaLookup, nil).Once()
	f, _ := newTestFetcher(t, catalog)

	f.Input("Bog")
	require.Eventually(t, func() bool {
		return len(f.Snapshot().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	state := f.Snapshot()
	require.Equal(t, "city-1", state.Suggestions[0].Key)
	require.Len(t, state.Suggestions[0].Airports, 1)

	_, err := f.Select(999)
	assert.ErrorIs(t, err, entity.ErrUnknownAirport)

	selected, err := f.Select(10)
	require.NoError(t, err)
	assert.Equal(t, elDorado, selected)

	state = f.Snapshot()
	assert.Equal(t, "El Dorado (BOG)", state.Text)
	assert.Empty(t, state.Suggestions)
	require.NotNil(t, state.Selected)
	assert.Equal(t, int64(10), state.Selected.ID)

	time.Sleep(3 * testDebounce)
	catalog.AssertNumberOfCalls(t, "LookupAirports", 1)

	f.Input("Bo")
	assert.Nil(t, f.Selected(), "editing the text clears the selection")
}

func TestSuggestionFetcher_DismissDropsPendingLookup(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	service := NewSuggestionService(catalog, 3, logger.NewNop())
	f := NewSuggestionFetcher(entity.FieldDeparture, service, 200*time.Millisecond, time.Second, logger.NewNop(), metrics.NewNop())
	t.Cleanup(f.Close)

	f.Input("Medel")
	f.Dismiss()
	time.Sleep(300 * time.Millisecond)

	catalog.AssertNotCalled(t, "LookupAirports", mock.Anything, mock.Anything)
	state := f.Snapshot()
	assert.Empty(t, state.Suggestions)
	assert.Equal(t, "Medel", state.Text)
}

func TestSuggestionFetcher_DismissAfterSelect(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bog").Return(bogotaLookup, nil).Once()
	f, _ := newTestFetcher(t, catalog)

	f.Input("Bog")
	require.Eventually(t, func() bool {
		return len(f.Snapshot().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)
	_, err := f.Select(10)
	require.NoError(t, err)

	f.Dismiss()
	require.NotNil(t, f.Selected())
	assert.Equal(t, int64(10), f.Selected().ID)
}

func TestSuggestionFetcher_FailureDegradesToEmpty(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bog").Return(nil, errors.New("connection reset")).Once()
	f, m := newTestFetcher(t, catalog)

	f.Input("Bog")
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.LookupFailures.WithLabelValues("departure")) == 1
	}, time.Second, 5*time.Millisecond)

	state := f.Snapshot()
	assert.Empty(t, state.Suggestions)
	assert.False(t, state.Loading)
	assert.Equal(t, "Bog", state.Text)
}

func TestSuggestionFetcher_FieldsAreIndependent(t *testing.T) {
	catalog := &CatalogRepositoryMock{}
	catalog.On("LookupAirports", mock.Anything, "Bog").Return(bogotaLookup, nil).Once()
	catalog.On("LookupAirports", mock.Anything, "Med").Return(medellinLookup, nil).Once()

	service := NewSuggestionService(catalog, 3, logger.NewNop())
	departure := NewSuggestionFetcher(entity.FieldDeparture, service, testDebounce, time.Second, logger.NewNop(), metrics.NewNop())
	arrival := NewSuggestionFetcher(entity.FieldArrival, service, testDebounce, time.Second, logger.NewNop(), metrics.NewNop())
	t.Cleanup(departure.Close)
	t.Cleanup(arrival.Close)

	departure.Input("Bog")
	arrival.Input("Med")

	require.Eventually(t, func() bool {
		return len(departure.Snapshot().Suggestions) == 1 && len(arrival.Snapshot().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"city-1"}, groupKeys(departure.Snapshot()))
	assert.Equal(t, []string{"city-2"}, groupKeys(arrival.Snapshot()))
	catalog.AssertExpectations(t)
}
