package booking

import (
	"fmt"
	"time"

	"carelink/models"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

func validateBookingRequest(req models.BookingRequest) error {
	if req.Patient.ID == "" {
		return NewValidationError("patient id is required")
	}
	if req.Patient.Name == "" {
		return NewValidationError("patient name is required")
	}
	return nil
}

func validateDay(day string) error {
	if _, err := time.Parse(dayLayout, day); err != nil {
		return NewValidationError(fmt.Sprintf("day %q must be formatted YYYY-MM-DD", day))
	}
	return nil
}

func validateSlotRecord(slot models.SlotRecord) error {
	if slot.DoctorID == "" {
		return NewValidationError("doctorId is required")
	}
	if err := validateDay(slot.Day); err != nil {
		return err
	}
	start, err := time.Parse(timeLayout, slot.StartTime)
	if err != nil {
		return NewValidationError(fmt.Sprintf("startTime %q must be formatted HH:MM", slot.StartTime))
	}
	end, err := time.Parse(timeLayout, slot.EndTime)
	if err != nil {
		return NewValidationError(fmt.Sprintf("endTime %q must be formatted HH:MM", slot.EndTime))
	}
	if !end.After(start) {
		return NewValidationError("endTime must be after startTime")
	}
	return nil
}

// scheduleDiffers reports whether the request named a day or time that the
// claimed record does not have. Empty request fields are not compared.
func scheduleDiffers(requested, claimed models.SlotRecord) bool {
	differs := func(want, got string) bool { return want != "" && want != got }
	return differs(requested.Day, claimed.Day) ||
		differs(requested.StartTime, claimed.StartTime) ||
		differs(requested.EndTime, claimed.EndTime)
}

// formatSlotTime renders the appointment time as "HH:MM - HH:MM".
func formatSlotTime(slot models.SlotRecord) string {
	return fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime)
}
