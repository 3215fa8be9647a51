package models

import "time"

// Cancellation is not supported, so an appointment is only ever active or completed.
const (
	AppointmentStatusActive    = "active"
	AppointmentStatusCompleted = "completed"
)

// Appointment represents a confirmed booking of one claimed slot.
type Appointment struct {
	ID          string    `bson:"id" json:"id"`
	PatientID   string    `bson:"patientId" json:"patientId"`
	DoctorID    string    `bson:"doctorId" json:"doctorId"`
	SlotID      string    `bson:"slotId" json:"slotId"`
	PatientName string    `bson:"patientName" json:"patientName"`
	Date        string    `bson:"date" json:"date"` // copied from the slot's day
	Time        string    `bson:"time" json:"time"` // "<start> - <end>"
	Reason      string    `bson:"reason" json:"reason"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
