package usecase

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// Notifier shows notices to the traveller
type Notifier interface {
	Notify(ctx context.Context, notice entity.Notice)
}

// Reloader resets the host view after a successful reservation
type Reloader interface {
	Reload(ctx context.Context)
}

// ReloaderFunc adapts a function to the Reloader interface
type ReloaderFunc func(ctx context.Context)

// Reload calls f
func (f ReloaderFunc) Reload(ctx context.Context) {
	f(ctx)
}
