package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/models"
	"carelink/services/booking"
)

type failingAppointments struct {
	appointmentRepo.AppointmentStore
}

func (failingAppointments) Create(context.Context, *models.Appointment) error {
	return fmt.Errorf("write timeout")
}

func seedSlot() models.SlotRecord {
	return models.SlotRecord{ID: "s1", DoctorID: "d1", Day: "2024-06-01", StartTime: "10:00", EndTime: "10:30", IsAvailable: true}
}

func setupRouter(t *testing.T, mutate func(svc *booking.DefaultBookingService)) (*gin.Engine, *booking.DefaultBookingService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slots := slotRepo.NewMemoryStore(seedSlot())
	appts := appointmentRepo.NewMemoryStore()
	svc := booking.NewBookingService(slots, appts, zap.NewNop())
	if mutate != nil {
		mutate(svc)
	}
	h := NewBookingHandler(svc, booking.NewReconciler(slots, appts, zap.NewNop()), zap.NewNop())
	h.WatchEvery = time.Second

	r := gin.New()
	r.POST("/api/bookings", h.BookAppointmentHandler)
	r.GET("/api/doctors/:doctorId/slots", h.ListSlotsHandler)
	r.GET("/api/doctors/:doctorId/slots/watch", h.WatchSlotsHandler)
	r.PUT("/api/doctors/:doctorId/slots/:slotId", h.SetSlotHandler)
	r.DELETE("/api/doctors/:doctorId/slots/:slotId", h.RemoveSlotHandler)
	r.GET("/api/appointments", h.ListAppointmentsHandler)
	r.GET("/api/appointments/:id", h.GetAppointmentHandler)
	r.GET("/api/admin/orphans", h.FindOrphansHandler)
	return r, svc
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookingBody() models.BookingRequest {
	return models.BookingRequest{
		Slot:    seedSlot(),
		Patient: models.Patient{ID: "p1", Name: "Jane"},
		Reason:  "checkup",
	}
}

func TestBookAppointmentHandler(t *testing.T) {
	t.Run("Booked Then Conflict", func(t *testing.T) {
		r, _ := setupRouter(t, nil)

		w := doJSON(r, http.MethodPost, "/api/bookings", bookingBody())
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.AppointmentID)

		w = doJSON(r, http.MethodPost, "/api/bookings", bookingBody())
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Time slot already booked", resp.Message)
	})

	t.Run("Missing Patient Is Bad Request", func(t *testing.T) {
		r, _ := setupRouter(t, nil)
		body := bookingBody()
		body.Patient = models.Patient{}

		w := doJSON(r, http.MethodPost, "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Partial Failure Is Server Error", func(t *testing.T) {
		r, _ := setupRouter(t, func(svc *booking.DefaultBookingService) {
			svc.Appointments = failingAppointments{svc.Appointments}
		})

		w := doJSON(r, http.MethodPost, "/api/bookings", bookingBody())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.AppointmentID)

		w = doJSON(r, http.MethodGet, "/api/admin/orphans?doctorId=d1&day=2024-06-01", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
	})
}

func TestSlotHandlers(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w := doJSON(r, http.MethodPut, "/api/doctors/d1/slots/s2", models.SetSlotRequest{Day: "2024-06-01", StartTime: "11:00", EndTime: "11:30"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/doctors/d1/slots?day=2024-06-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Slots []models.SlotRecord `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Slots, 2)
	assert.Equal(t, "s1", listing.Slots[0].ID)

	w = doJSON(r, http.MethodGet, "/api/doctors/d1/slots?day=June", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/api/bookings", bookingBody()).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodDelete, "/api/doctors/d1/slots/s1", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, "/api/doctors/d1/slots/s2", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/doctors/d1/slots/s2", nil).Code)
}

func TestAppointmentHandlers(t *testing.T) {
	r, _ := setupRouter(t, nil)

	w := doJSON(r, http.MethodPost, "/api/bookings", bookingBody())
	require.Equal(t, http.StatusOK, w.Code)
	var booked models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))

	w = doJSON(r, http.MethodGet, "/api/appointments?patientId=p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), booked.AppointmentID)
	assert.Contains(t, w.Body.String(), "10:00 - 10:30")

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/appointments/"+booked.AppointmentID, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/appointments/missing", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/appointments", nil).Code)
}

func TestWatchSlotsHandler(t *testing.T) {
	r, _ := setupRouter(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/doctors/d1/slots/watch?day=2024-06-01", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "event:slots"), w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":"s1"`)
}
