// File: carelink/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	BookAppointmentHandler gin.HandlerFunc

	// Slot endpoints
	ListSlotsHandler  gin.HandlerFunc
	WatchSlotsHandler gin.HandlerFunc
	SetSlotHandler    gin.HandlerFunc
	RemoveSlotHandler gin.HandlerFunc

	// Appointment endpoints
	ListAppointmentsHandler gin.HandlerFunc
	GetAppointmentHandler   gin.HandlerFunc

	// Admin endpoints
	FindOrphansHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler into the bundle.
func NewHandlerBundle(h *BookingHandler) *HandlerBundle {
	return &HandlerBundle{
		BookAppointmentHandler:  h.BookAppointmentHandler,
		ListSlotsHandler:        h.ListSlotsHandler,
		WatchSlotsHandler:       h.WatchSlotsHandler,
		SetSlotHandler:          h.SetSlotHandler,
		RemoveSlotHandler:       h.RemoveSlotHandler,
		ListAppointmentsHandler: h.ListAppointmentsHandler,
		GetAppointmentHandler:   h.GetAppointmentHandler,
		FindOrphansHandler:      h.FindOrphansHandler,
		HealthHandler:           HealthHandler,
	}
}
