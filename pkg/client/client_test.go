package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"concierge/internal/catalog"
	"concierge/internal/rewards"
	"concierge/pkg/model"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, WithTimeout(2*time.Second)), &calls
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func loggedIn() *Session {
	s := NewSession()
	s.set("tok", model.IdentityUser, &model.Profile{ID: "u1", Name: "John Doe"})
	return s
}

func date(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

var grandHotel = BookingInput{
	HotelName: "Grand Hotel",
	Location:  "Paris",
	CheckIn:   date("2024-01-15"),
	CheckOut:  date("2024-01-20"),
	Guests:    2,
	Price:     500,
}

// ──────────────────────────────────────────────────────────────
// Bookings
// ──────────────────────────────────────────────────────────────

func TestCreate_ValidationNeverReachesNetwork(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	tests := map[string]func(in *BookingInput){
		"check-in equals check-out": func(in *BookingInput) { in.CheckOut = in.CheckIn },
		"check-out before check-in": func(in *BookingInput) { in.CheckOut = in.CheckIn.AddDate(0, 0, -1) },
		"empty hotel":               func(in *BookingInput) { in.HotelName = "  " },
		"no guests":                 func(in *BookingInput) { in.Guests = 0 },
		"negative price":            func(in *BookingInput) { in.Price = -1 },
		"price above maximum":       func(in *BookingInput) { in.Price = model.MaxPrice + 1 },
		"same calendar day": func(in *BookingInput) {
			in.CheckIn = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
			in.CheckOut = time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := grandHotel
			mutate(&in)
			_, err := c.Bookings.Create(context.Background(), loggedIn(), in)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestCreate_NoSession(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Bookings.Create(context.Background(), NewSession(), grandHotel)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestCreate_SendsPayloadAndDecodes(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req model.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2024-01-15", req.CheckIn)
		assert.Equal(t, "2024-01-20", req.CheckOut)

		writeJSON(w, http.StatusCreated, model.Booking{ID: "b1", HotelName: req.HotelName, Nights: 5, Total: 2500, Status: model.BookingStatusPending})
	})

	booking, err := c.Bookings.Create(context.Background(), loggedIn(), grandHotel)
	require.NoError(t, err)
	assert.Equal(t, "b1", booking.ID)
	assert.Equal(t, 5, booking.Nights)
	assert.Equal(t, 2500.0, booking.Total)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 is an auth error",
			status: http.StatusUnauthorized,
			body:   map[string]any{"success": false, "message": "Invalid or expired token"},
			check: func(t *testing.T, err error) {
				var authErr *AuthError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "Invalid or expired token", authErr.Message)
			},
		},
		{
			name:   "500 keeps the server message",
			status: http.StatusInternalServerError,
			body:   map[string]any{"success": false, "message": "Failed to create booking", "code": "INTERNAL_ERROR"},
			check: func(t *testing.T, err error) {
				var serverErr *ServerError
				require.ErrorAs(t, err, &serverErr)
				assert.Equal(t, "Failed to create booking", serverErr.Message)
				assert.Equal(t, "INTERNAL_ERROR", serverErr.Code)
			},
		},
		{
			name:   "non-JSON error body gets a generic message",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				var serverErr *ServerError
				require.ErrorAs(t, err, &serverErr)
				assert.Equal(t, "request failed with status 502", serverErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if s, ok := tt.body.(string); ok {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(s))
					return
				}
				writeJSON(w, tt.status, tt.body)
			})
			_, err := c.Bookings.ListMine(context.Background(), loggedIn())
			tt.check(t, err)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL).Bookings.ListMine(context.Background(), loggedIn())
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestListMine_PreservesServerOrder(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"bookings": []model.Booking{{ID: "b3"}, {ID: "b1"}, {ID: "b2"}},
			"count":    3,
		})
	})

	bookings, err := c.Bookings.ListMine(context.Background(), loggedIn())
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, []string{"b3", "b1", "b2"}, []string{bookings[0].ID, bookings[1].ID, bookings[2].ID})
}

func TestCancel_AlreadyCancelledIsNotAnError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/bookings/b1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Booking cancelled successfully",
			"booking": model.Booking{ID: "b1", Status: model.BookingStatusCancelled},
		})
	})

	for i := 0; i < 2; i++ {
		booking, err := c.Bookings.Cancel(context.Background(), loggedIn(), "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, booking.Status)
	}
}

func TestConfirm(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/b1/confirm", r.URL.Path)
		var req model.ConfirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pay_1", req.PaymentID)
		writeJSON(w, http.StatusOK, model.Booking{ID: "b1", Status: model.BookingStatusConfirmed, PaymentID: req.PaymentID})
	})

	booking, err := c.Bookings.Confirm(context.Background(), loggedIn(), "b1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
}

// ──────────────────────────────────────────────────────────────
// Session and auth
// ──────────────────────────────────────────────────────────────

func TestLogin_UserAndMember(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.IsExclusive {
			assert.Equal(t, "EM-1A2B3C4D", req.MembershipID)
			writeJSON(w, http.StatusOK, AuthResult{Token: "member-tok", Member: &model.Profile{ID: "m1", Tier: "Gold"}})
			return
		}
		assert.Equal(t, "john@example.com", req.Email)
		writeJSON(w, http.StatusOK, AuthResult{Token: "user-tok", User: &model.Profile{ID: "u1"}})
	})

	session := NewSession()
	_, err := c.Auth.Login(context.Background(), session, UserCredentials{Email: "john@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "user-tok", session.Token())
	assert.Equal(t, model.IdentityUser, session.Kind())

	_, err = c.Auth.Login(context.Background(), session, MemberCredentials{MembershipID: "EM-1A2B3C4D", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "member-tok", session.Token())
	assert.Equal(t, model.IdentityMember, session.Kind())
	assert.Equal(t, "Gold", session.Profile().Tier)

	c.Auth.Logout(session)
	assert.False(t, session.Authenticated())
	assert.Empty(t, session.Kind())
	assert.Nil(t, session.Profile())
}

func TestLogin_FailureKeepsServerMessage(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid membership ID or password"})
	})

	session := loggedIn()
	_, err := c.Auth.Login(context.Background(), session, MemberCredentials{MembershipID: "EM-00000000", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid membership ID or password")
	assert.Equal(t, "tok", session.Token(), "failed login must not touch the session")
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.set("tok", model.IdentityUser, &model.Profile{ID: "u1"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Authenticated()
			_ = s.Profile()
		}()
	}
	wg.Wait()
	s.Clear()
	assert.False(t, s.Authenticated())
}

// ──────────────────────────────────────────────────────────────
// Rewards and catalog
// ──────────────────────────────────────────────────────────────

func TestRedeem_InsufficientPoints(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, RedeemResult{
			Success: false,
			Error:   "Insufficient points for this reward",
			Code:    "INSUFFICIENT_POINTS",
			Reward:  rewards.Reward{ID: "spa-credit", Points: 500},
		})
	})

	result, err := c.Rewards.Redeem(context.Background(), loggedIn(), "spa-credit")
	assert.True(t, errors.Is(err, rewards.ErrInsufficientPoints))
	require.NotNil(t, result)
	assert.Zero(t, result.Ledger.Spent)
}

func TestCatalog_ListAndGet(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/catalog":
			assert.Equal(t, "paris", r.URL.Query().Get("location"))
			writeJSON(w, http.StatusOK, map[string]any{
				"items": []catalog.Item{&catalog.Hotel{Listing: catalog.Listing{ID: "h1", Kind: "hotel", Name: "Grand Hotel"}, Stars: 5}},
				"count": 1,
			})
		case "/api/catalog/items/h1":
			writeJSON(w, http.StatusOK, &catalog.Hotel{Listing: catalog.Listing{ID: "h1", Kind: "hotel", Name: "Grand Hotel"}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Catalog item not found"})
		}
	})

	items, err := c.Catalog.List(context.Background(), CatalogQuery{Location: "paris"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	hotel, ok := items[0].(*catalog.Hotel)
	require.True(t, ok)
	assert.Equal(t, 5, hotel.Stars)

	item, err := c.Catalog.Get(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel", item.Base().Name)

	missing, err := c.Catalog.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
