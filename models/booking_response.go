package models

// BookingRequest is the payload accepted by the booking endpoint.
type BookingRequest struct {
	Slot    SlotRecord `json:"slot" binding:"required"`
	Patient Patient    `json:"patient" binding:"required"`
	Reason  string     `json:"reason"`
}

// BookingResponse is the two-value outcome shown to the caller.
type BookingResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointmentId,omitempty"`
}
