package enums

import "strings"

type Role string

const (
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

type Capability string

const (
	// CapViewContacts reveals contact fields of any profile.
	CapViewContacts Capability = "view_contacts"
	// CapOperate covers approvals, user management and admin statistics.
	CapOperate Capability = "operate"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleUser: {},
	RolePremium: {
		CapViewContacts: {},
	},
	RoleAdmin: {
		CapViewContacts: {},
		CapOperate:      {},
	},
}

// ParseRole accepts stored or client supplied role names. Empty means user.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser, "":
		return RoleUser, true
	case RolePremium:
		return RolePremium, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Can is the only place role names are compared.
func Can(role Role, capability Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[capability]
	return ok
}

type BiodataType string

const (
	BiodataTypeMale   BiodataType = "Male"
	BiodataTypeFemale BiodataType = "Female"
)

func ParseBiodataType(raw string) (BiodataType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return BiodataTypeMale, true
	case "female":
		return BiodataTypeFemale, true
	default:
		return "", false
	}
}
