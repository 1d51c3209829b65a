package dto

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Error       bool         `json:"error"`
	User        UserResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	Message     string       `json:"message"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
