package model

import (
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
)

type ContactInfo struct {
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
}

// ProfileDetails holds the fields an owner may edit.
type ProfileDetails struct {
	BiodataType           enums.BiodataType `json:"biodataType"`
	Name                  string            `json:"name"`
	ProfileImage          string            `json:"profileImage"`
	DateOfBirth           string            `json:"dateOfBirth"`
	Age                   int               `json:"age"`
	Height                string            `json:"height"`
	Weight                string            `json:"weight"`
	Occupation            string            `json:"occupation"`
	Race                  string            `json:"race"`
	FatherName            string            `json:"fatherName"`
	MotherName            string            `json:"motherName"`
	PermanentDivision     string            `json:"permanentDivision"`
	PresentDivision       string            `json:"presentDivision"`
	ExpectedPartnerAge    string            `json:"expectedPartnerAge"`
	ExpectedPartnerHeight string            `json:"expectedPartnerHeight"`
	ExpectedPartnerWeight string            `json:"expectedPartnerWeight"`
	Contact               *ContactInfo      `json:"contactInfo,omitempty"`
}

type Profile struct {
	ID         string `json:"_id"`
	OwnerID    string `json:"ownerId"`
	SequenceID int64  `json:"biodataId"`
	ProfileDetails
	PremiumStatus      enums.PremiumStatus `json:"premiumStatus"`
	IsPremium          bool                `json:"isPremium"`
	PremiumRequestedAt *time.Time          `json:"premiumRequestedAt,omitempty"`
	PremiumApprovedAt  *time.Time          `json:"premiumApprovedAt,omitempty"`
	PremiumRejectedAt  *time.Time          `json:"premiumRejectedAt,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// Public returns a copy with contact fields removed.
func (p Profile) Public() Profile {
	p.Contact = nil
	return p
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type ProfileFilter struct {
	MinAge            int
	MaxAge            int
	BiodataType       enums.BiodataType
	PermanentDivision string
	Page              int
	Limit             int
}

type ProfilePage struct {
	Items []Profile `json:"biodatas"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type ProfileCounts struct {
	Total   int64
	Male    int64
	Female  int64
	Premium int64
}

// ProfileRef addresses one profile by owner, biodata id or document id,
// checked in that order.
type ProfileRef struct {
	OwnerID    string
	SequenceID int64
	ID         string
}
