package api

import (
	"net/http"
	"testing"

	"farmrent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, srv *Server) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/login", map[string]any{
		"username": "farmer_mahesh",
		"password": "Mahesh@123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[loginResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func tokenHeader(token string) map[string]string {
	return map[string]string{sessionTokenHeader: token}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/login", map[string]any{
		"username": "farmer_mahesh",
		"password": "Mahesh@123",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[loginResponse](t, rec)
	assert.Equal(t, "farmer_mahesh", resp.Username)
	assert.Equal(t, "Mahesh", resp.DisplayName)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/login", map[string]any{
		"username": "farmer_mahesh",
		"password": "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Invalid username or password", body["error"])
}

func TestLoginThrottledAfterRepeatedAttempts(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{"username": "farmer_mahesh", "password": "wrong"}

	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/login", body, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// The sixth attempt in the window is throttled even with the right
	// password.
	rec := doJSON(t, srv, http.MethodPost, "/login", map[string]any{
		"username": "farmer_mahesh",
		"password": "Mahesh@123",
	}, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	resp := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Too many login attempts, try again later", resp["error"])
}

func TestLoginValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/login", map[string]any{"username": "farmer_mahesh"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/logout", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, rec.Code)

	// The cart is no longer reachable with the old token.
	rec = doJSON(t, srv, http.MethodGet, "/cart", nil, tokenHeader(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/cart/items", map[string]any{"itemId": 1}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	// Empty cart to start with.
	rec := doJSON(t, srv, http.MethodGet, "/cart", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decodeBody[cartResponse](t, rec)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Totals.Total)

	// Three rental days at $100/day, quantity 2.
	item := map[string]any{
		"itemId":      1,
		"name":        "Compact Tractor",
		"pricePerDay": 100.0,
		"quantity":    2,
		"startDate":   "2026-03-01",
		"endDate":     "2026-03-04",
	}
	rec = doJSON(t, srv, http.MethodPost, "/cart/items", item, tokenHeader(token))
	require.Equal(t, http.StatusOK, rec.Code)
	withItem := decodeBody[cartResponse](t, rec)
	require.Len(t, withItem.Items, 1)
	assert.InDelta(t, 600.0, withItem.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 48.0, withItem.Totals.Tax, 1e-9)
	assert.InDelta(t, 648.0, withItem.Totals.Total, 1e-9)

	// Re-adding the same item merges quantities.
	rec = doJSON(t, srv, http.MethodPost, "/cart/items", item, tokenHeader(token))
	merged := decodeBody[cartResponse](t, rec)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, 4, merged.Items[0].Quantity)

	// Partial update of quantity only.
	rec = doJSON(t, srv, http.MethodPatch, "/cart/items/1", map[string]any{"quantity": 1}, tokenHeader(token))
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[cartResponse](t, rec)
	assert.Equal(t, 1, updated.Items[0].Quantity)
	assert.Equal(t, "2026-03-01", updated.Items[0].StartDate)

	// Remove empties the cart.
	rec = doJSON(t, srv, http.MethodDelete, "/cart/items/1", nil, tokenHeader(token))
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := decodeBody[cartResponse](t, rec)
	assert.Empty(t, cleared.Items)
	assert.Zero(t, cleared.Totals.Total)
}

func TestCartUpdateUnknownItem(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doJSON(t, srv, http.MethodPatch, "/cart/items/42", map[string]any{"quantity": 2}, tokenHeader(token))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Cart item not found", body["error"])
}

func TestSaveFilters(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	filters := models.Filters{City: []string{"Pune"}, MinRating: 4.5}
	rec := doJSON(t, srv, http.MethodPut, "/cart/filters", filters, tokenHeader(token))

	require.Equal(t, http.StatusOK, rec.Code)
	saved := decodeBody[models.Filters](t, rec)
	assert.Equal(t, []string{"Pune"}, saved.City)
	assert.InDelta(t, 4.5, saved.MinRating, 1e-9)
}

func TestBookingUsesSessionUsername(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/equipments", map[string]any{"name": "Water Pump"}, nil)
	equipment := decodeBody[models.Equipment](t, rec)

	rec = doJSON(t, srv, http.MethodPost, "/bookings", map[string]any{
		"kind":      "equipment",
		"itemId":    equipment.ID,
		"startDate": "2026-03-01",
		"endDate":   "2026-03-02",
	}, tokenHeader(token))

	require.Equal(t, http.StatusCreated, rec.Code, "unexpected status: %s", rec.Body.String())
	booking := decodeBody[models.Booking](t, rec)
	assert.Equal(t, "farmer_mahesh", booking.FarmerUsername)
}
