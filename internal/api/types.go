package api

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AdminLoginRequest struct {
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ClientLoginRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ReviewUpdateRequest struct {
	IsPublished *bool `json:"is_published"`
}

type InstagramAuthRequest struct {
	Code string `json:"code"`
}

type InstagramAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}
