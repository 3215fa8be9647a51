package models

// ReconcilePayload is queued when a slot was claimed but its appointment write
// failed. Appointment carries the id generated at claim time so a repair never
// produces a second record.
type ReconcilePayload struct {
	Appointment Appointment `json:"appointment"`
	Attempted   string      `json:"attempted"` // RFC3339 time of the failed write
}
