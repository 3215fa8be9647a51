package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/models"
	"carelink/services/booking"
	"carelink/utils"
)

// OrphanFinder lists claimed slots that hold no appointment.
type OrphanFinder interface {
	FindOrphans(ctx context.Context, doctorID, day string) ([]models.SlotRecord, error)
}

// BookingHandler serves the booking, slot and appointment endpoints.
type BookingHandler struct {
	Service    booking.BookingService
	Orphans    OrphanFinder
	Logger     *zap.Logger
	WatchEvery time.Duration
}

func NewBookingHandler(svc booking.BookingService, orphans OrphanFinder, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		Service:    svc,
		Orphans:    orphans,
		Logger:     logger,
		WatchEvery: 2 * time.Second,
	}
}

// statusForOutcome maps a booking outcome onto an HTTP status.
func statusForOutcome(outcome booking.BookingOutcome) int {
	switch outcome.Kind {
	case booking.Booked:
		return http.StatusOK
	case booking.Rejected:
		if booking.IsValidationError(outcome.Cause) {
			return http.StatusBadRequest
		}
		return http.StatusConflict
	case booking.Failed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// BookAppointmentHandler claims a slot for a patient and creates the appointment.
func (h *BookingHandler) BookAppointmentHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	outcome := h.Service.BookAppointment(c.Request.Context(), req)
	success, message := outcome.Collapse()
	h.Logger.Info("booking attempt finished",
		zap.String("doctorId", req.Slot.DoctorID),
		zap.String("slotId", req.Slot.ID),
		zap.Stringer("outcome", outcome.Kind),
	)

	c.JSON(statusForOutcome(outcome), models.BookingResponse{
		Success:       success,
		Message:       message,
		AppointmentID: outcome.AppointmentID,
	})
}

func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	slots, err := h.Service.ListSlots(c.Request.Context(), c.Param("doctorId"), c.Query("day"))
	if err != nil {
		h.writeError(c, "Failed to list slots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// WatchSlotsHandler streams listing snapshots as server-sent events until the
// client disconnects.
func (h *BookingHandler) WatchSlotsHandler(c *gin.Context) {
	updates, err := h.Service.WatchSlots(c.Request.Context(), c.Param("doctorId"), c.Query("day"), h.WatchEvery)
	if err != nil {
		h.writeError(c, "Failed to watch slots", err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	for snapshot := range updates {
		c.SSEvent("slots", snapshot)
		c.Writer.Flush()
	}
}

func (h *BookingHandler) SetSlotHandler(c *gin.Context) {
	var req models.SetSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	slot, err := h.Service.SetSlot(c.Request.Context(), models.SlotRecord{
		ID:        c.Param("slotId"),
		DoctorID:  c.Param("doctorId"),
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		h.writeError(c, "Failed to publish slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot published", "slot": slot})
}

func (h *BookingHandler) RemoveSlotHandler(c *gin.Context) {
	if err := h.Service.RemoveSlot(c.Request.Context(), c.Param("doctorId"), c.Param("slotId")); err != nil {
		h.writeError(c, "Failed to remove slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot removed"})
}

func (h *BookingHandler) ListAppointmentsHandler(c *gin.Context) {
	appts, err := h.Service.ListAppointments(c.Request.Context(), c.Query("patientId"), c.Query("doctorId"))
	if err != nil {
		h.writeError(c, "Failed to list appointments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *BookingHandler) GetAppointmentHandler(c *gin.Context) {
	appt, err := h.Service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "Failed to fetch appointment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

// FindOrphansHandler reports claimed slots whose appointment is missing.
func (h *BookingHandler) FindOrphansHandler(c *gin.Context) {
	orphans, err := h.Orphans.FindOrphans(c.Request.Context(), c.Query("doctorId"), c.Query("day"))
	if err != nil {
		h.writeError(c, "Failed to scan for orphaned slots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orphans": orphans, "count": len(orphans)})
}

func (h *BookingHandler) writeError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case booking.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, slotRepo.ErrNotFound), errors.Is(err, appointmentRepo.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, slotRepo.ErrSlotClaimed):
		status = http.StatusConflict
	case errors.Is(err, slotRepo.ErrInvalidKey):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, zap.Error(err))
	}
	utils.JSONError(c, status, message, err.Error())
}
