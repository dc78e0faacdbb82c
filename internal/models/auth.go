package models

// VerifyEmailRequest is the payload for confirming a verification OTP
type VerifyEmailRequest struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// ResetPasswordSendRequest is the payload for requesting a reset OTP
type ResetPasswordSendRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ResetPasswordRequest is the payload for completing a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}

// AuthActionResponse is a generic success envelope for auth operations
type AuthActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RegisterResponse is returned after successful signup
type RegisterResponse struct {
	Success bool     `json:"success"`
	Session *Session `json:"session"`
}
