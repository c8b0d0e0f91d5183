package dto

import (
	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

// ProfileRequest is the editable part of a biodata. Unknown fields are
// ignored, older clients post the whole document back.
type ProfileRequest struct {
	BiodataType           string             `json:"biodataType"`
	Name                  string             `json:"name"`
	ProfileImage          string             `json:"profileImage"`
	DateOfBirth           string             `json:"dateOfBirth"`
	Age                   int                `json:"age"`
	Height                string             `json:"height"`
	Weight                string             `json:"weight"`
	Occupation            string             `json:"occupation"`
	Race                  string             `json:"race"`
	FatherName            string             `json:"fatherName"`
	MotherName            string             `json:"motherName"`
	PermanentDivision     string             `json:"permanentDivision"`
	PresentDivision       string             `json:"presentDivision"`
	ExpectedPartnerAge    string             `json:"expectedPartnerAge"`
	ExpectedPartnerHeight string             `json:"expectedPartnerHeight"`
	ExpectedPartnerWeight string             `json:"expectedPartnerWeight"`
	ContactInfo           *model.ContactInfo `json:"contactInfo"`
	// Flat contact fields used by the first version of the form.
	ContactEmail string `json:"contactEmail"`
	MobileNumber string `json:"mobileNumber"`
}

func (r ProfileRequest) Details() model.ProfileDetails {
	details := model.ProfileDetails{
		BiodataType:           enums.BiodataType(r.BiodataType),
		Name:                  r.Name,
		ProfileImage:          r.ProfileImage,
		DateOfBirth:           r.DateOfBirth,
		Age:                   r.Age,
		Height:                r.Height,
		Weight:                r.Weight,
		Occupation:            r.Occupation,
		Race:                  r.Race,
		FatherName:            r.FatherName,
		MotherName:            r.MotherName,
		PermanentDivision:     r.PermanentDivision,
		PresentDivision:       r.PresentDivision,
		ExpectedPartnerAge:    r.ExpectedPartnerAge,
		ExpectedPartnerHeight: r.ExpectedPartnerHeight,
		ExpectedPartnerWeight: r.ExpectedPartnerWeight,
	}

	switch {
	case r.ContactInfo != nil:
		contact := *r.ContactInfo
		details.Contact = &contact
	case r.ContactEmail != "" || r.MobileNumber != "":
		details.Contact = &model.ContactInfo{Email: r.ContactEmail, MobileNumber: r.MobileNumber}
	}
	return details
}

type IsPremiumResponse struct {
	IsPremium bool `json:"isPremium"`
}
