package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmrent/internal/cart"
	"farmrent/internal/domain"
	"farmrent/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrSessionNotFound means the token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCartItemNotFound means the cart has no entry for the item.
	ErrCartItemNotFound = errors.New("cart item not found")

	// ErrTooManyLoginAttempts means the username exceeded the login
	// attempt window.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
)

// SessionService owns the login lifecycle and the per-session cart.
type SessionService struct {
	states        domain.StateRepository
	authenticator domain.Authenticator
	taxRate       float64
	logger        *zerolog.Logger
}

func NewSessionService(states domain.StateRepository, authenticator domain.Authenticator, taxRate float64, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		states:        states,
		authenticator: authenticator,
		taxRate:       taxRate,
		logger:        logger,
	}
}

// Login verifies credentials and opens a fresh session with an empty
// cart. Each login issues a new token; older sessions stay valid until
// they expire or log out.
func (s *SessionService) Login(ctx context.Context, username, password string) (*models.SessionState, error) {
	allowed, err := s.states.CheckRateLimit(ctx, "login:"+username, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		// The limiter is advisory; a broken state store must not lock
		// every farmer out.
		s.logger.Warn().Err(err).Str("username", username).Msg("login rate limit check failed")
	} else if !allowed {
		s.logger.Warn().Str("username", username).Msg("login throttled")
		return nil, ErrTooManyLoginAttempts
	}

	farmer, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	state := &models.SessionState{
		Token:       uuid.NewString(),
		Username:    farmer.Username,
		DisplayName: farmer.DisplayName,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.states.SetSession(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info().Str("username", farmer.Username).Msg("farmer logged in")
	return state, nil
}

func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.states.DeleteSession(ctx, token)
}

func (s *SessionService) GetSession(ctx context.Context, token string) (*models.SessionState, error) {
	state, err := s.states.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrSessionNotFound
	}
	return state, nil
}

// AddToCart merges the item into the session cart and persists the
// updated state.
func (s *SessionService) AddToCart(ctx context.Context, token string, item models.CartItem) (*models.SessionState, error) {
	return s.mutateCart(ctx, token, func(state *models.SessionState) error {
		state.Cart = cart.Add(state.Cart, item)
		return nil
	})
}

func (s *SessionService) RemoveFromCart(ctx context.Context, token string, itemID int64) (*models.SessionState, error) {
	return s.mutateCart(ctx, token, func(state *models.SessionState) error {
		state.Cart = cart.Remove(state.Cart, itemID)
		return nil
	})
}

func (s *SessionService) UpdateCartItem(ctx context.Context, token string, itemID int64, update cart.Update) (*models.SessionState, error) {
	return s.mutateCart(ctx, token, func(state *models.SessionState) error {
		if !cart.Apply(state.Cart, itemID, update) {
			return ErrCartItemNotFound
		}
		return nil
	})
}

// SaveFilters remembers the catalog filters the farmer last applied so
// they survive a page reload.
func (s *SessionService) SaveFilters(ctx context.Context, token string, filters models.Filters) (*models.SessionState, error) {
	return s.mutateCart(ctx, token, func(state *models.SessionState) error {
		state.Filters = filters
		return nil
	})
}

// Totals prices an already loaded cart with the configured tax rate.
func (s *SessionService) Totals(items []models.CartItem) (cart.Totals, error) {
	return cart.ComputeTotals(items, s.taxRate)
}

func (s *SessionService) mutateCart(ctx context.Context, token string, fn func(*models.SessionState) error) (*models.SessionState, error) {
	state, err := s.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := fn(state); err != nil {
		return nil, err
	}

	if err := s.states.SetSession(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return state, nil
}
