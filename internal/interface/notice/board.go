package notice

import (
	"context"
	"sync"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/logger"
)

// Board keeps the latest notices until a host drains them
type Board struct {
	mu      sync.Mutex
	limit   int
	notices []entity.Notice
	logger  logger.Logger
}

// NewBoard creates a board holding at most limit notices
func NewBoard(limit int, logger logger.Logger) *Board {
	if limit <= 0 {
		limit = 20
	}
	return &Board{limit: limit, logger: logger}
}

// Notify records a notice, dropping the oldest one when the board is full
func (b *Board) Notify(ctx context.Context, n entity.Notice) {
	b.logger.Debug("Notice posted", "level", n.Level, "message", n.Message)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.notices = append(b.notices, n)
	if len(b.notices) > b.limit {
		b.notices = b.notices[len(b.notices)-b.limit:]
	}
}

// Drain returns the pending notices oldest first and empties the board
func (b *Board) Drain() []entity.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.notices
	b.notices = nil
	if out == nil {
		out = []entity.Notice{}
	}
	return out
}
