package service

import (
	"context"
	"fmt"

	"farmrent/internal/catalog"
	"farmrent/internal/domain"
	"farmrent/internal/events"
	"farmrent/internal/models"

	"github.com/rs/zerolog"
)

type CatalogService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewCatalogService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ListEquipments returns equipment listings narrowed by the filters
// and ordered by the sort option. The zero Filters value returns the
// full catalog in insertion order.
func (s *CatalogService) ListEquipments(ctx context.Context, filters models.Filters, sortBy catalog.SortOption) ([]models.Equipment, error) {
	equipments, err := s.store.ListEquipments(ctx)
	if err != nil {
		return nil, err
	}

	equipments = catalog.Filter(equipments, filters)
	catalog.Sort(equipments, sortBy)
	return equipments, nil
}

func (s *CatalogService) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	id, err := s.store.NextID()
	if err != nil {
		return fmt.Errorf("failed to allocate equipment id: %w", err)
	}
	equipment.ID = id

	if err := s.store.AppendEquipment(ctx, *equipment); err != nil {
		return fmt.Errorf("failed to persist equipment: %w", err)
	}

	s.publishListing(events.EventEquipmentCreated, equipment.ID, models.KindEquipment, equipment.Name)
	return nil
}

func (s *CatalogService) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return s.store.ListWorkers(ctx)
}

func (s *CatalogService) CreateWorker(ctx context.Context, worker *models.Worker) error {
	id, err := s.store.NextID()
	if err != nil {
		return fmt.Errorf("failed to allocate worker id: %w", err)
	}
	worker.ID = id

	if err := s.store.AppendWorker(ctx, *worker); err != nil {
		return fmt.Errorf("failed to persist worker: %w", err)
	}

	s.publishListing(events.EventWorkerCreated, worker.ID, models.KindWorker, worker.Name)
	return nil
}

func (s *CatalogService) publishListing(eventType string, id int64, kind, name string) {
	if s.eventBus == nil {
		return
	}

	payload := events.ListingEventPayload{ID: id, Kind: kind, Name: name}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("id", id).Msg("publish event error")
	}
}
