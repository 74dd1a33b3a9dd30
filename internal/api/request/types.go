package request

// RegisterRequest is the request body for creating an account.
// Username and display_name are optional.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the request body for starting a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest is the request body for redeeming a reset token
type ChangePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
