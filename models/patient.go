package models

// Patient identifies who a booking is made for. It is passed explicitly by the
// caller on every booking request.
type Patient struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
	// DeviceToken is the FCM registration token used for the confirmation push.
	DeviceToken string `json:"deviceToken,omitempty"`
}
