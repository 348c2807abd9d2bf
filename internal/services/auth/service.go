// Package auth wraps the password-reset endpoints. The backend owns OTP
// generation and mailing; this service only submits what the screens
// collect plus the identity carried in the navigation query string.
package auth

import (
	"context"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/httpclient"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/services"
)

// resendTokenHeader carries the URL token on resend requests.
const resendTokenHeader = "_customToken"

type Service struct {
	gateway *httpclient.Client
	logger  logger.Logger
}

func NewService(gateway *httpclient.Client, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log.WithFields(map[string]interface{}{"resource": "auth"}),
	}
}

// ForgotPassword requests an OTP mail for the given address.
func (s *Service) ForgotPassword(ctx context.Context, email string) services.Result[models.AuthResponse] {
	var resp models.AuthResponse
	payload := map[string]string{"email": email}
	if err := s.gateway.Post(ctx, "/auth/forget-password", payload, &resp); err != nil {
		return services.Fail[models.AuthResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.AuthResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp)
}

// VerifyOTP submits the concatenated six-character code with the email
// from the navigation context.
func (s *Service) VerifyOTP(ctx context.Context, otp, email string) services.Result[models.AuthResponse] {
	var resp models.AuthResponse
	payload := models.VerifyOTPPayload{OTP: otp, Email: email}
	if err := s.gateway.Post(ctx, "/auth/verify-code", payload, &resp); err != nil {
		return services.Fail[models.AuthResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.AuthResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp)
}

// ResendOTP re-requests the code using the token from the navigation
// context, sent as the `_customToken` header with an empty body.
func (s *Service) ResendOTP(ctx context.Context, token string) services.Result[models.AuthResponse] {
	var resp models.AuthResponse
	err := s.gateway.Post(ctx, "/auth/reset-password", map[string]string{}, &resp,
		httpclient.WithHeader(resendTokenHeader, token))
	if err != nil {
		return services.Fail[models.AuthResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.AuthResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	return services.OK(resp)
}

// ResetPassword sets the new password for the email from the navigation
// context.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) services.Result[models.AuthResponse] {
	var resp models.AuthResponse
	payload := models.ResetPasswordPayload{Email: email, NewPassword: newPassword}
	if err := s.gateway.Post(ctx, "/auth/reset-password", payload, &resp); err != nil {
		return services.Fail[models.AuthResponse](err)
	}
	if !resp.Success {
		return services.Fail[models.AuthResponse](apperrors.NewBackendRejectedError(resp.Message, 200))
	}
	s.logger.Info("password reset completed", map[string]interface{}{"email": email})
	return services.OK(resp)
}
