package booking

import slotRepo "carelink/database/repository/slot"

// OutcomeKind is the terminal state of one booking attempt.
type OutcomeKind int

const (
	// Booked means the slot was claimed and the appointment was written.
	Booked OutcomeKind = iota + 1
	// Rejected means the slot was taken or does not exist. Nothing was written.
	Rejected
	// Failed means the claim hit a backend error before committing. Safe to retry.
	Failed
	// PartiallyFailed means the slot was claimed but the appointment write failed.
	PartiallyFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case Booked:
		return "booked"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case PartiallyFailed:
		return "partially_failed"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgBooked          = "Appointment booked successfully"
	MsgSlotTaken       = "Time slot already booked"
	MsgTryAgain        = "Could not reach the booking service, please try again"
	MsgPartialQueued   = "Your slot is reserved but the appointment is still being saved"
	MsgPartialUnqueued = "Your slot is reserved but the appointment could not be saved, please contact support"
)

// BookingOutcome describes how a booking attempt ended.
type BookingOutcome struct {
	Kind OutcomeKind
	// Claim is the slot store's answer, zero when validation stopped the
	// attempt before a claim was made.
	Claim         slotRepo.ClaimResult
	AppointmentID string
	Message       string
	Cause         error
	// ReconcileQueued is set on PartiallyFailed once a repair task was accepted.
	ReconcileQueued bool
}

// Collapse reduces the outcome to the (success, message) pair shown to users.
func (o BookingOutcome) Collapse() (bool, string) {
	return o.Kind == Booked, o.Message
}
