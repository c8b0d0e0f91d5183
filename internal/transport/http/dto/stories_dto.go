package dto

type StoryRequest struct {
	SelfBiodataID    int64  `json:"selfBiodataId"`
	PartnerBiodataID int64  `json:"partnerBiodataId"`
	CoupleImage      string `json:"coupleImage"`
	Review           string `json:"review"`
	Rating           int    `json:"rating"`
	MarriageDate     string `json:"marriageDate"`
}
