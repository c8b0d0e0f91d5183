package model

import "time"

// Favorite carries a snapshot of the target taken when it was added.
// The snapshot is not refreshed when the target profile changes.
type Favorite struct {
	ID                string    `json:"_id"`
	OwnerID           string    `json:"userEmail"`
	TargetProfileID   string    `json:"biodataObjectId"`
	TargetSequenceID  int64     `json:"biodataId"`
	Name              string    `json:"name"`
	ProfileImage      string    `json:"profileImage"`
	Age               int       `json:"age"`
	Occupation        string    `json:"occupation"`
	PermanentDivision string    `json:"permanentDivision"`
	AddedAt           time.Time `json:"addedAt"`
}
