package model

import "time"

type SuccessStory struct {
	ID                string    `json:"_id"`
	SelfSequenceID    int64     `json:"selfBiodataId"`
	PartnerSequenceID int64     `json:"partnerBiodataId"`
	CoupleImage       string    `json:"coupleImage"`
	Review            string    `json:"review"`
	Rating            int       `json:"rating"`
	MarriageDate      time.Time `json:"marriageDate"`
	CreatedBy         string    `json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
}

type AdminStats struct {
	BiodataCount       int64 `json:"biodataCount"`
	MaleCount          int64 `json:"maleCount"`
	FemaleCount        int64 `json:"femaleCount"`
	PremiumCount       int64 `json:"premiumCount"`
	RevenueCents       int64 `json:"revenue"`
	UnlockRequestCount int64 `json:"contactRequestCount"`
}
