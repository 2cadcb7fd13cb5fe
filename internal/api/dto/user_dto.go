package dto

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ActionResponse is the uniform result shape for mutating operations.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
