package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// ReservationRepository defines the interface for submitting reservations
type ReservationRepository interface {
	SubmitReservation(ctx context.Context, req *entity.ReservationRequest) (*entity.Reservation, error)
}
