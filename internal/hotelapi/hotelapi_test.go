package hotelapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelbot/internal/client"
	"hotelbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(client.New(server.URL))
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token/", r.URL.Path)

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "alice", creds.Username)
		assert.Equal(t, "secret", creds.Password)

		json.NewEncoder(w).Encode(map[string]string{"access": "A1", "refresh": "R1"})
	})

	pair, err := api.Login(context.Background(), Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "A1", pair.Access)
	assert.Equal(t, "R1", pair.Refresh)
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/register/", r.URL.Path)
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "alice@example.com", req.Email)
		w.WriteHeader(http.StatusCreated)
	})

	err := api.Register(context.Background(), RegisterRequest{
		Username:    "alice",
		Password:    "supersecret",
		Password2:   "supersecret",
		Email:       "alice@example.com",
		FirstName:   "Алиса",
		LastName:    "Иванова",
		PhoneNumber: "+79990001122",
	})
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/refresh/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "R1", body["refresh"])
		json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
	})

	access, err := api.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "A2", access)
}

func TestProfile(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/profile/", r.URL.Path)
		json.NewEncoder(w).Encode(models.UserProfile{ID: 5, Username: "alice", Email: "alice@example.com"})
	})

	profile, err := api.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), profile.ID)
	assert.Equal(t, "alice", profile.Username)
}

func TestListRoomsUnwrapsEnvelope(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"rooms": []models.Room{
				{Number: "101", Name: "Стандарт", PricePerNight: "2500"},
				{Number: "205", Name: "Люкс", PricePerNight: "9000"},
			},
		})
	})

	rooms, err := api.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].Number)
}

func TestRoomDetail(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/101/", r.URL.Path)
		json.NewEncoder(w).Encode(models.Room{
			Number: "101",
			Name:   "Стандарт",
			Photos: []models.RoomPhoto{{Image: "https://cdn.example.com/101.jpg"}},
		})
	})

	room, err := api.RoomDetail(context.Background(), "101")
	require.NoError(t, err)
	require.NotNil(t, room)
	require.Len(t, room.Photos, 1)
}

func TestSearchAvailable(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/available/", r.URL.Path)
		assert.Equal(t, "2025-06-01", r.URL.Query().Get("check_in_date"))
		assert.Equal(t, "2025-06-03", r.URL.Query().Get("check_out_date"))
		json.NewEncoder(w).Encode(map[string]any{
			"available_rooms": []models.Room{{Number: "205"}},
		})
	})

	in, _ := models.ParseDate("2025-06-01")
	out, _ := models.ParseDate("2025-06-03")
	rooms, err := api.SearchAvailable(context.Background(), in, out)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "205", rooms[0].Number)
}

func TestListBookings(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/bookings/", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":             3,
				"room":           map[string]any{"room_number": "101"},
				"check_in_date":  "2025-06-01",
				"check_out_date": "2025-06-03",
				"total_price":    "5000.00",
				"status":         "confirmed",
				"created_at":     "2025-05-20",
			},
		})
	})

	bookings, err := api.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.StatusConfirmed, bookings[0].Status)
	assert.Equal(t, "101", bookings[0].Room.Number)
}

func TestCreateBookingConflict(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Номер уже забронирован на выбранные даты"})
	})

	in, _ := models.ParseDate("2025-06-01")
	out, _ := models.ParseDate("2025-06-03")
	_, err := api.CreateBooking(context.Background(), CreateBookingRequest{RoomID: "101", CheckIn: in, CheckOut: out})
	require.Error(t, err)
	assert.Equal(t, "Номер уже забронирован на выбранные даты", client.ErrorDetail(err))
}

func TestCreateBooking(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "101", req.RoomID)
		assert.Equal(t, "2025-06-01", req.CheckIn.String())

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":             10,
			"room":           map[string]any{"room_number": "101"},
			"check_in_date":  "2025-06-01",
			"check_out_date": "2025-06-03",
			"total_price":    "5000.00",
			"status":         "pending",
			"created_at":     "2025-05-25",
		})
	})

	in, _ := models.ParseDate("2025-06-01")
	out, _ := models.ParseDate("2025-06-03")
	booking, err := api.CreateBooking(context.Background(), CreateBookingRequest{RoomID: "101", CheckIn: in, CheckOut: out})
	require.NoError(t, err)
	assert.Equal(t, int64(10), booking.ID)
	assert.Equal(t, models.StatusPending, booking.Status)
}
