package models

// AuthResponse is the shared envelope for the four auth endpoints.
type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	// Token accompanies a successful forgot-password request and is
	// threaded forward through the verify screen's query string.
	Token string `json:"token,omitempty"`
}

// VerifyOTPPayload is the POST /auth/verify-code body. OTP is the six box
// characters concatenated with no separator.
type VerifyOTPPayload struct {
	OTP   string `json:"otp"`
	Email string `json:"email"`
}

// ResetPasswordPayload is the POST /auth/reset-password body.
type ResetPasswordPayload struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}
