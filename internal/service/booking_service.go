package service

import (
	"context"
	"errors"
	"fmt"

	"farmrent/internal/domain"
	"farmrent/internal/events"
	"farmrent/internal/models"

	"github.com/rs/zerolog"
)

var (
	// ErrItemNotFound means the booking references an item that is not
	// in the catalog.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidKind means the booking kind is neither equipment nor worker.
	ErrInvalidKind = errors.New("invalid item kind")
)

type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	exporter domain.ExportEnqueuer
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, exporter domain.ExportEnqueuer, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		eventBus: eventBus,
		exporter: exporter,
		logger:   logger,
	}
}

// CreateBooking checks that the referenced item exists, snapshots its
// name onto the booking and persists it as active. The booking keeps
// the item name it was created with even if the listing is renamed
// later.
func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	itemName, err := s.lookupItemName(ctx, booking.Kind, booking.ItemID)
	if err != nil {
		return err
	}

	id, err := s.store.NextID()
	if err != nil {
		return fmt.Errorf("failed to allocate booking id: %w", err)
	}

	booking.ID = id
	booking.ItemName = itemName
	booking.Status = models.StatusActive

	if err := s.store.AppendBooking(ctx, *booking); err != nil {
		return fmt.Errorf("failed to persist booking: %w", err)
	}

	s.publishEvent(events.EventBookingCreated, *booking)
	s.enqueueExport(ctx)

	return nil
}

// CancelBooking marks the booking canceled. Canceling an already
// canceled booking is a no-op that still succeeds.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.store.UpdateBooking(ctx, id, func(b *models.Booking) {
		b.Status = models.StatusCanceled
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCanceled, *booking)
	s.enqueueExport(ctx)

	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.ListBookings(ctx)
}

func (s *BookingService) lookupItemName(ctx context.Context, kind string, itemID int64) (string, error) {
	switch kind {
	case models.KindEquipment:
		equipments, err := s.store.ListEquipments(ctx)
		if err != nil {
			return "", err
		}
		for _, e := range equipments {
			if e.ID == itemID {
				return e.Name, nil
			}
		}
	case models.KindWorker:
		workers, err := s.store.ListWorkers(ctx)
		if err != nil {
			return "", err
		}
		for _, w := range workers {
			if w.ID == itemID {
				return w.Name, nil
			}
		}
	default:
		return "", ErrInvalidKind
	}

	return "", ErrItemNotFound
}

func (s *BookingService) publishEvent(eventType string, booking models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:      booking.ID,
		Kind:           booking.Kind,
		ItemID:         booking.ItemID,
		ItemName:       booking.ItemName,
		Status:         booking.Status,
		FarmerUsername: booking.FarmerUsername,
		StartDate:      booking.StartDate,
		EndDate:        booking.EndDate,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueExport(ctx context.Context) {
	if s.exporter == nil {
		return
	}

	if err := s.exporter.EnqueueBookingsExport(ctx); err != nil {
		s.logger.Error().Err(err).Msg("export enqueue error")
	}
}
