package service

import (
	"context"
	"testing"
	"time"

	"farmrent/internal/auth"
	"farmrent/internal/cart"
	"farmrent/internal/config"
	"farmrent/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionService(states *MockStateRepository) *SessionService {
	logger := zerolog.Nop()
	authenticator := auth.NewStaticAuthenticator([]config.Credential{
		{Username: "farmer_mahesh", Password: "Mahesh@123", DisplayName: "Mahesh"},
	})
	return NewSessionService(states, authenticator, 0.08, &logger)
}

func allowLoginAttempts(states *MockStateRepository) {
	states.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 5, time.Minute).Return(true, nil)
}

func TestSessionService_Login(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	allowLoginAttempts(states)
	states.On("SetSession", mock.Anything, mock.Anything).Return(nil)

	state, err := s.Login(context.Background(), "farmer_mahesh", "Mahesh@123")
	require.NoError(t, err)

	assert.NotEmpty(t, state.Token)
	assert.Equal(t, "farmer_mahesh", state.Username)
	assert.Equal(t, "Mahesh", state.DisplayName)
	assert.Empty(t, state.Cart)
	states.AssertExpectations(t)
}

func TestSessionService_LoginBadCredentials(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	allowLoginAttempts(states)

	_, err := s.Login(context.Background(), "farmer_mahesh", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	states.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}

func TestSessionService_LoginThrottled(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("CheckRateLimit", mock.Anything, "login:farmer_mahesh", 5, time.Minute).Return(false, nil)

	_, err := s.Login(context.Background(), "farmer_mahesh", "Mahesh@123")
	assert.ErrorIs(t, err, ErrTooManyLoginAttempts)
	states.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}

func TestSessionService_LoginLimiterErrorFailsOpen(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 5, time.Minute).Return(false, assert.AnError)
	states.On("SetSession", mock.Anything, mock.Anything).Return(nil)

	state, err := s.Login(context.Background(), "farmer_mahesh", "Mahesh@123")
	require.NoError(t, err)
	assert.NotEmpty(t, state.Token)
}

func TestSessionService_Logout(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("DeleteSession", mock.Anything, "tok-1").Return(nil)

	require.NoError(t, s.Logout(context.Background(), "tok-1"))
	states.AssertExpectations(t)
}

func TestSessionService_GetSessionNotFound(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("GetSession", mock.Anything, "missing").Return(nil, nil)

	_, err := s.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_AddToCart(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("GetSession", mock.Anything, "tok-1").Return(&models.SessionState{Token: "tok-1", Username: "farmer_mahesh"}, nil)
	states.On("SetSession", mock.Anything, mock.Anything).Return(nil)

	item := models.CartItem{
		Item:      models.CartProduct{ID: 1, Name: "Compact Tractor", PricePerDay: 100},
		Quantity:  2,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-04",
	}

	state, err := s.AddToCart(context.Background(), "tok-1", item)
	require.NoError(t, err)

	require.Len(t, state.Cart, 1)
	assert.Equal(t, 2, state.Cart[0].Quantity)
	states.AssertExpectations(t)
}

func TestSessionService_UpdateCartItemNotFound(t *testing.T) {
	states := new(MockStateRepository)
	s := newSessionService(states)

	states.On("GetSession", mock.Anything, "tok-1").Return(&models.SessionState{Token: "tok-1"}, nil)

	qty := 3
	_, err := s.UpdateCartItem(context.Background(), "tok-1", 99, cart.Update{Quantity: &qty})
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	states.AssertNotCalled(t, "SetSession", mock.Anything, mock.Anything)
}

func TestSessionService_Totals(t *testing.T) {
	s := newSessionService(new(MockStateRepository))

	items := []models.CartItem{
		{
			Item:      models.CartProduct{ID: 1, Name: "Compact Tractor", PricePerDay: 100},
			Quantity:  2,
			StartDate: "2026-03-01",
			EndDate:   "2026-03-04",
		},
	}

	totals, err := s.Totals(items)
	require.NoError(t, err)

	assert.InDelta(t, 600.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 648.0, totals.Total, 1e-9)
}
