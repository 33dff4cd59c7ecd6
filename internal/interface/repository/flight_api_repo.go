package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FlightAPIRepository talks to the remote catalog, search and reservation API.
// Authentication is the job of the http.Client transport.
type FlightAPIRepository struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewFlightAPIRepository creates a new flight API repository.
// A nil limiter leaves outgoing calls unthrottled.
func NewFlightAPIRepository(baseURL string, client *http.Client, limiter *rate.Limiter, logger logger.Logger, m *metrics.Metrics) *FlightAPIRepository {
	return &FlightAPIRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: limiter,
		logger:  logger,
		metrics: m,
	}
}

// LookupAirports searches the catalog for airports and cities matching query
func (r *FlightAPIRepository) LookupAirports(ctx context.Context, query string) (*entity.AirportLookup, error) {
	var lookup entity.AirportLookup
	params := url.Values{"code": []string{query}}

	if err := r.post(ctx, "airports", "/airports", params, struct{}{}, &lookup); err != nil {
		return nil, err
	}
	return &lookup, nil
}

// SearchFlights runs a flight search
func (r *FlightAPIRepository) SearchFlights(ctx context.Context, req *entity.FlightRequest) (*entity.FlightResponse, error) {
	if err := validateRequest(flightRequestValidator, req); err != nil {
		return nil, err
	}

	var response entity.FlightResponse
	if err := r.post(ctx, "flights", "/flights", nil, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// SubmitReservation sends a reservation and returns the persisted record
func (r *FlightAPIRepository) SubmitReservation(ctx context.Context, req *entity.ReservationRequest) (*entity.Reservation, error) {
	if err := validateRequest(reservationRequestValidator, req); err != nil {
		return nil, err
	}

	var response struct {
		Data json.RawMessage `json:"data"`
	}
	if err := r.post(ctx, "reserves", "/reserves", nil, req, &response); err != nil {
		return nil, err
	}
	if len(response.Data) == 0 || bytes.Equal(response.Data, []byte("null")) {
		return nil, errors.New("reservation response has no data")
	}

	reservation := &entity.Reservation{}
	if err := json.Unmarshal(response.Data, reservation); err != nil {
		r.logger.Warn("Reservation record has an unexpected shape", "error", err)
		reservation = &entity.Reservation{}
	}
	reservation.Raw = response.Data

	r.logger.Info("Reservation created",
		"reservationId", reservation.ID,
		"flightNumber", req.Itineraries[0].FlightNumber)

	return reservation, nil
}

func (r *FlightAPIRepository) post(ctx context.Context, endpoint, path string, params url.Values, body, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	target := r.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := r.client.Do(req)
	r.metrics.APIRequestTime.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		r.logger.Warn("Flight API returned an error status",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"requestId", requestID)
		return fmt.Errorf("flight API %s returned status %d: %v", endpoint, resp.StatusCode, errorBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	r.logger.Debug("Flight API call completed",
		"endpoint", endpoint,
		"requestId", requestID,
		"duration", time.Since(start))

	return nil
}
