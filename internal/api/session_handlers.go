package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"farmrent/internal/auth"
	"farmrent/internal/cart"
	"farmrent/internal/models"
	"farmrent/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// sessionTokenHeader carries the token issued by /login.
const sessionTokenHeader = "X-Session-Token"

func sessionToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(sessionTokenHeader)); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	state, err := s.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, r, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		if errors.Is(err, service.ErrTooManyLoginAttempts) {
			respondError(w, r, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}
		s.logger.Error().Err(err).Msg("login failed")
		respondError(w, r, http.StatusInternalServerError, "failed to log in")
		return
	}

	respondJSON(w, r, http.StatusOK, loginResponse{
		Token:       state.Token,
		Username:    state.Username,
		DisplayName: state.DisplayName,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return
	}

	if err := s.sessions.Logout(r.Context(), token); err != nil {
		s.logger.Error().Err(err).Msg("logout failed")
		respondError(w, r, http.StatusInternalServerError, "failed to log out")
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

type cartResponse struct {
	Items  []models.CartItem `json:"items"`
	Totals cart.Totals       `json:"totals"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	state, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	s.respondCart(w, r, state)
}

type cartItemRequest struct {
	ItemID      int64   `json:"itemId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	PricePerDay float64 `json:"pricePerDay"`
	Quantity    int     `json:"quantity"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     string  `json:"endDate" validate:"required"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return
	}

	var req cartItemRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "itemId, name, startDate and endDate are required")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "itemId, name, startDate and endDate are required")
		return
	}

	item := models.CartItem{
		Item:      models.CartProduct{ID: req.ItemID, Name: req.Name, PricePerDay: req.PricePerDay},
		Quantity:  req.Quantity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	state, err := s.sessions.AddToCart(r.Context(), token, item)
	if err != nil {
		s.respondSessionError(w, r, err, "failed to add cart item")
		return
	}

	s.respondCart(w, r, state)
}

type cartUpdateRequest struct {
	Quantity  *int    `json:"quantity"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "Cart item not found")
		return
	}

	var req cartUpdateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	update := cart.Update{Quantity: req.Quantity, StartDate: req.StartDate, EndDate: req.EndDate}
	state, err := s.sessions.UpdateCartItem(r.Context(), token, itemID, update)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondError(w, r, http.StatusNotFound, "Cart item not found")
			return
		}
		s.respondSessionError(w, r, err, "failed to update cart item")
		return
	}

	s.respondCart(w, r, state)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "Cart item not found")
		return
	}

	state, err := s.sessions.RemoveFromCart(r.Context(), token, itemID)
	if err != nil {
		s.respondSessionError(w, r, err, "failed to remove cart item")
		return
	}

	s.respondCart(w, r, state)
}

func (s *Server) handleSaveFilters(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return
	}

	var filters models.Filters
	if err := render.DecodeJSON(r.Body, &filters); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	state, err := s.sessions.SaveFilters(r.Context(), token, filters)
	if err != nil {
		s.respondSessionError(w, r, err, "failed to save filters")
		return
	}

	respondJSON(w, r, http.StatusOK, state.Filters)
}

func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*models.SessionState, bool) {
	token := sessionToken(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, "session token is required")
		return nil, false
	}

	state, err := s.sessions.GetSession(r.Context(), token)
	if err != nil {
		s.respondSessionError(w, r, err, "failed to load session")
		return nil, false
	}
	return state, true
}

func (s *Server) respondCart(w http.ResponseWriter, r *http.Request, state *models.SessionState) {
	totals, err := s.sessions.Totals(state.Cart)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items := state.Cart
	if items == nil {
		items = []models.CartItem{}
	}
	respondJSON(w, r, http.StatusOK, cartResponse{Items: items, Totals: totals})
}

func (s *Server) respondSessionError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if errors.Is(err, service.ErrSessionNotFound) {
		respondError(w, r, http.StatusUnauthorized, "session not found")
		return
	}
	s.logger.Error().Err(err).Msg(fallback)
	respondError(w, r, http.StatusInternalServerError, fallback)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
