package dto

import "github.com/ivankudzin/truecompanions/backend/internal/domain/model"

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type RegisterResponse struct {
	Created bool       `json:"created"`
	User    model.User `json:"user"`
}

type IsAdminResponse struct {
	Admin bool `json:"admin"`
}

type ModifiedResponse struct {
	OK bool `json:"ok"`
}
