package models

// SlotRecord is one bookable time window offered by a doctor.
// (DoctorID, ID) is unique within a store.
type SlotRecord struct {
	ID          string `bson:"id" json:"id"`
	DoctorID    string `bson:"doctorId" json:"doctorId"`
	Day         string `bson:"day" json:"day"`             // e.g., "2024-06-01"
	StartTime   string `bson:"startTime" json:"startTime"` // e.g., "10:00"
	EndTime     string `bson:"endTime" json:"endTime"`     // e.g., "10:30"
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
	// Version is bumped on every availability change; stores without a native
	// transaction primitive use it as the optimistic concurrency token.
	Version int `bson:"version" json:"version"`
}

// SetSlotRequest defines the payload for publishing or replacing an available slot.
type SetSlotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}
