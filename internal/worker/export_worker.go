// Package worker runs the background export loop. Export requests are
// queued through a bounded channel so HTTP handlers never block on
// file IO.
package worker

import (
	"context"
	"errors"
	"time"

	"farmrent/internal/domain"
	"farmrent/internal/models"

	"github.com/rs/zerolog"
)

// BookingWriter renders a booking snapshot to a file.
type BookingWriter interface {
	WriteBookings(bookings []models.Booking) (string, error)
}

type ExportWorker struct {
	store       domain.Store
	writer      BookingWriter
	retryPolicy RetryPolicy
	queue       chan struct{}
	logger      *zerolog.Logger
}

// NewExportWorker builds a worker; unset retry fields get defaults.
func NewExportWorker(store domain.Store, writer BookingWriter, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	return &ExportWorker{
		store:       store,
		writer:      writer,
		retryPolicy: retry.withDefaults(),
		queue:       make(chan struct{}, models.ExportQueueSize),
		logger:      logger,
	}
}

// EnqueueBookingsExport schedules an export run. A full queue is not
// an error: a pending run will already pick up the latest data.
func (w *ExportWorker) EnqueueBookingsExport(ctx context.Context) error {
	select {
	case w.queue <- struct{}{}:
	default:
		w.logger.Debug().Msg("export queue full, request coalesced")
	}
	return nil
}

// Start consumes the queue until ctx is done.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("export worker started")
	defer w.logger.Info().Msg("export worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.queue:
			w.drain()
			if err := w.exportWithRetry(ctx); err != nil {
				w.logger.Error().Err(err).Msg("bookings export failed")
			}
		}
	}
}

// drain collapses queued requests into the run we are about to do.
func (w *ExportWorker) drain() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}

func (w *ExportWorker) exportWithRetry(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if err := w.exportOnce(ctx); err != nil {
			lastErr = err
			delay := w.retryPolicy.NextDelay(attempt)
			w.logger.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", delay).Msg("export attempt failed")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("export retries exhausted")
	}
	return lastErr
}

func (w *ExportWorker) exportOnce(ctx context.Context) error {
	bookings, err := w.store.ListBookings(ctx)
	if err != nil {
		return err
	}

	_, err = w.writer.WriteBookings(bookings)
	return err
}
