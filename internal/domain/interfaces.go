package domain

import (
	"context"
	"time"

	"farmrent/internal/models"
)

// Store is the flat-file persistence surface the services build on.
type Store interface {
	ListEquipments(ctx context.Context) ([]models.Equipment, error)
	AppendEquipment(ctx context.Context, equipment models.Equipment) error
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	AppendWorker(ctx context.Context, worker models.Worker) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	AppendBooking(ctx context.Context, booking models.Booking) error
	UpdateBooking(ctx context.Context, id int64, fn func(*models.Booking)) (*models.Booking, error)
	NextID() (int64, error)
}

// StateRepository keeps per-session state (login, cart, filters) with
// an explicit load/save/reset lifecycle, independent of the medium.
type StateRepository interface {
	GetSession(ctx context.Context, token string) (*models.SessionState, error)
	SetSession(ctx context.Context, state *models.SessionState) error
	DeleteSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher publishes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportEnqueuer queues background export tasks.
type ExportEnqueuer interface {
	EnqueueBookingsExport(ctx context.Context) error
}

// Authenticator verifies credentials. The shipped implementation reads
// a static list from config; a real identity backend can be swapped in
// without touching callers.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Farmer, error)
}
