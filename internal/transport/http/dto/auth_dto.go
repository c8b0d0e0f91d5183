package dto

type TokenRequest struct {
	Email string `json:"email"`
	// Sign-in clients post the whole account object; only email is read.
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	ExpiresInSec int64  `json:"expiresInSec"`
	Role         string `json:"role"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
