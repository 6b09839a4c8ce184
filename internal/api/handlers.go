package api

import (
	"errors"
	"net/http"
	"strconv"

	"farmrent/internal/catalog"
	"farmrent/internal/models"
	"farmrent/internal/service"
	"farmrent/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "farmrent-backend",
		"storage": "json-files",
	})
}

func (s *Server) handleListEquipments(w http.ResponseWriter, r *http.Request) {
	filters, sortBy, err := parseCatalogQuery(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	equipments, err := s.catalog.ListEquipments(r.Context(), filters, sortBy)
	if err != nil {
		s.logger.Error().Err(err).Msg("list equipments failed")
		respondError(w, r, http.StatusInternalServerError, "failed to list equipments")
		return
	}

	if equipments == nil {
		equipments = []models.Equipment{}
	}
	respondJSON(w, r, http.StatusOK, equipments)
}

type equipmentRequest struct {
	Name           string   `json:"name" validate:"required"`
	Available      *bool    `json:"available"`
	Category       string   `json:"category"`
	PricePerDay    float64  `json:"pricePerDay"`
	Rating         float64  `json:"rating"`
	City           string   `json:"city"`
	Condition      string   `json:"condition"`
	EquipmentAge   string   `json:"equipmentAge"`
	AgeSuitability []string `json:"ageSuitability"`
	Year           int      `json:"year"`
	Brand          string   `json:"brand"`
}

func (s *Server) handleCreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "name (string) is required")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "name (string) is required")
		return
	}

	// Listings are available unless the caller says otherwise.
	available := true
	if req.Available != nil {
		available = *req.Available
	}

	equipment := models.Equipment{
		Name:           req.Name,
		Available:      available,
		Category:       req.Category,
		PricePerDay:    req.PricePerDay,
		Rating:         req.Rating,
		City:           req.City,
		Condition:      req.Condition,
		EquipmentAge:   req.EquipmentAge,
		AgeSuitability: req.AgeSuitability,
		Year:           req.Year,
		Brand:          req.Brand,
	}

	if err := s.catalog.CreateEquipment(r.Context(), &equipment); err != nil {
		s.logger.Error().Err(err).Msg("create equipment failed")
		respondError(w, r, http.StatusInternalServerError, "failed to create equipment")
		return
	}

	respondJSON(w, r, http.StatusCreated, equipment)
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := s.catalog.ListWorkers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list workers failed")
		respondError(w, r, http.StatusInternalServerError, "failed to list workers")
		return
	}

	if workers == nil {
		workers = []models.Worker{}
	}
	respondJSON(w, r, http.StatusOK, workers)
}

type workerRequest struct {
	Name      string `json:"name" validate:"required"`
	Skill     string `json:"skill" validate:"required"`
	Available *bool  `json:"available"`
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var req workerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "name and skill are required")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "name and skill are required")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	worker := models.Worker{Name: req.Name, Skill: req.Skill, Available: available}

	if err := s.catalog.CreateWorker(r.Context(), &worker); err != nil {
		s.logger.Error().Err(err).Msg("create worker failed")
		respondError(w, r, http.StatusInternalServerError, "failed to create worker")
		return
	}

	respondJSON(w, r, http.StatusCreated, worker)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListBookings(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings failed")
		respondError(w, r, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}
	respondJSON(w, r, http.StatusOK, bookings)
}

type bookingRequest struct {
	Kind           string `json:"kind" validate:"required"`
	ItemID         int64  `json:"itemId" validate:"required"`
	StartDate      string `json:"startDate" validate:"required"`
	EndDate        string `json:"endDate" validate:"required"`
	FarmerUsername string `json:"farmerUsername"`
}

const bookingFieldsMsg = "kind, itemId, startDate, endDate, and farmerUsername are required"

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, bookingFieldsMsg)
		return
	}

	// A logged-in session can stand in for the farmerUsername field.
	if req.FarmerUsername == "" {
		if token := sessionToken(r); token != "" {
			if state, err := s.sessions.GetSession(r.Context(), token); err == nil {
				req.FarmerUsername = state.Username
			}
		}
	}

	if err := s.validate.Struct(req); err != nil || req.FarmerUsername == "" {
		respondError(w, r, http.StatusBadRequest, bookingFieldsMsg)
		return
	}

	booking := models.Booking{
		Kind:           req.Kind,
		ItemID:         req.ItemID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		FarmerUsername: req.FarmerUsername,
	}

	if err := s.bookings.CreateBooking(r.Context(), &booking); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			respondError(w, r, http.StatusBadRequest, "Item not found")
		case errors.Is(err, service.ErrInvalidKind):
			respondError(w, r, http.StatusBadRequest, "kind must be equipment or worker")
		default:
			s.logger.Error().Err(err).Msg("create booking failed")
			respondError(w, r, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	respondJSON(w, r, http.StatusCreated, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "Booking not found")
		return
	}

	booking, err := s.bookings.CancelBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "Booking not found")
			return
		}
		s.logger.Error().Err(err).Int64("booking_id", id).Msg("cancel booking failed")
		respondError(w, r, http.StatusInternalServerError, "failed to cancel booking")
		return
	}

	respondJSON(w, r, http.StatusOK, booking)
}

func parseCatalogQuery(r *http.Request) (models.Filters, catalog.SortOption, error) {
	q := r.URL.Query()

	filters := models.Filters{
		SearchQuery:    q.Get("search"),
		Category:       splitCSV(q.Get("category")),
		EquipmentAge:   splitCSV(q.Get("equipmentAge")),
		Condition:      splitCSV(q.Get("condition")),
		City:           splitCSV(q.Get("city")),
		AgeSuitability: splitCSV(q.Get("ageSuitability")),
	}

	var err error
	if filters.PriceMin, err = parseFloat(q.Get("priceMin")); err != nil {
		return models.Filters{}, "", errors.New("priceMin must be a number")
	}
	if filters.PriceMax, err = parseFloat(q.Get("priceMax")); err != nil {
		return models.Filters{}, "", errors.New("priceMax must be a number")
	}
	if filters.MinRating, err = parseFloat(q.Get("minRating")); err != nil {
		return models.Filters{}, "", errors.New("minRating must be a number")
	}

	return filters, catalog.ParseSortOption(q.Get("sort")), nil
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
