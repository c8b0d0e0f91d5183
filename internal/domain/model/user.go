package model

import (
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/enums"
)

type User struct {
	ID        string     `json:"_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	PhotoURL  string     `json:"photoURL"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Viewer is whoever is asking for a profile.
type Viewer struct {
	ID   string
	Role enums.Role
}
