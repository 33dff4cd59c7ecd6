package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"flightdesk-service/internal/domain/entity"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type CatalogRepositoryMock struct {
	mock.Mock
}

func (m *CatalogRepositoryMock) LookupAirports(ctx context.Context, query string) (*entity.AirportLookup, error) {
	ret := m.Called(ctx, query)
	lookup, _ := ret.Get(0).(*entity.AirportLookup)
	return lookup, ret.Error(1)
}

type FlightRepositoryMock struct {
	mock.Mock
}

func (m *FlightRepositoryMock) SearchFlights(ctx context.Context, req *entity.FlightRequest) (*entity.FlightResponse, error) {
	ret := m.Called(ctx, req)
	resp, _ := ret.Get(0).(*entity.FlightResponse)
	return resp, ret.Error(1)
}

type ReservationRepositoryMock struct {
	mock.Mock
}

func (m *ReservationRepositoryMock) SubmitReservation(ctx context.Context, req *entity.ReservationRequest) (*entity.Reservation, error) {
	ret := m.Called(ctx, req)
	reservation, _ := ret.Get(0).(*entity.Reservation)
	return reservation, ret.Error(1)
}

type KeyValueStoreMock struct {
	mock.Mock
}

func (m *KeyValueStoreMock) Get(ctx context.Context, key string) (string, error) {
	ret := m.Called(ctx, key)
	return ret.String(0), ret.Error(1)
}

func (m *KeyValueStoreMock) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *KeyValueStoreMock) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// recordingNotifier keeps every notice it receives
type recordingNotifier struct {
	mu      sync.Mutex
	notices []entity.Notice
}

func (n *recordingNotifier) Notify(ctx context.Context, notice entity.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notices))
	for _, notice := range n.notices {
		out = append(out, string(notice.Level)+": "+notice.Message)
	}
	return out
}

func segment(carrier, number string) entity.FlightSegment {
	return entity.FlightSegment{
		ProductDateTime: entity.ProductDateTime{
			DateOfDeparture: "010524",
			TimeOfDeparture: "1000",
			DateOfArrival:   "010524",
			TimeOfArrival:   "1105",
		},
		Location: []entity.SegmentLocation{
			{LocationID: "BOG"},
			{LocationID: "MDE"},
		},
		CompanyID:    entity.CompanyID{MarketingCarrier: carrier, OperatingCarrier: carrier},
		FlightNumber: number,
		Equipment:    "320",
	}
}

func flightResponse(groups ...[]entity.FlightSegment) *entity.FlightResponse {
	data := &entity.FlightSearchData{Seg1: []entity.SegmentGroup{}}
	for _, segments := range groups {
		data.Seg1 = append(data.Seg1, entity.SegmentGroup{Segments: segments})
	}
	return &entity.FlightResponse{Status: 200, Data: data}
}

var (
	elDorado = entity.Airport{ID: 10, CodeIata: "BOG", CodeIataCity: "BOG", Name: "El Dorado", CountryName: "Colombia"}
	rionegro = entity.Airport{ID: 20, CodeIata: "MDE", CodeIataCity: "MDE", Name: "Jose Maria Cordova", CountryName: "Colombia"}
)

// ledgerIDs decodes the numeric id of every ledger entry
func ledgerIDs(t *testing.T, ledger []json.RawMessage) []int64 {
	t.Helper()

	ids := []int64{}
	for _, entry := range ledger {
		var r struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(entry, &r))
		ids = append(ids, r.ID)
	}
	return ids
}
