// internal/services/auth/service_test.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-dashboard/internal/common/httpclient"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/observability"
	"dealer-dashboard/internal/models"
)

func createTestService(t *testing.T, handler http.HandlerFunc) *Service {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gateway := httpclient.New(srv.URL, "test-key", 5*time.Second,
		logger.NewTestLogger(t), &observability.Observability{})
	return NewService(gateway, logger.NewTestLogger(t))
}

func TestService_ForgotPassword(t *testing.T) {
	svc := createTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/forget-password", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "admin@example.com", payload["email"])

		json.NewEncoder(w).Encode(models.AuthResponse{Success: true, Token: "tok-1"})
	})

	res := svc.ForgotPassword(context.Background(), "admin@example.com")
	require.True(t, res.Success)
	assert.Equal(t, "tok-1", res.Data.Token)
}

func TestService_VerifyOTP(t *testing.T) {
	svc := createTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify-code", r.URL.Path)

		var payload models.VerifyOTPPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "420199", payload.OTP)
		assert.Equal(t, "admin@example.com", payload.Email)

		json.NewEncoder(w).Encode(models.AuthResponse{Success: true})
	})

	res := svc.VerifyOTP(context.Background(), "420199", "admin@example.com")
	assert.True(t, res.Success)
}

func TestService_ResendOTPSendsTokenHeader(t *testing.T) {
	svc := createTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/reset-password", r.URL.Path)
		assert.Equal(t, "tok-1", r.Header.Get("_customToken"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Empty(t, payload, "resend carries identity in the header, not the body")

		json.NewEncoder(w).Encode(models.AuthResponse{Success: true})
	})

	res := svc.ResendOTP(context.Background(), "tok-1")
	assert.True(t, res.Success)
}

func TestService_ResetPassword(t *testing.T) {
	svc := createTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/reset-password", r.URL.Path)
		assert.Empty(t, r.Header.Get("_customToken"))

		var payload models.ResetPasswordPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "admin@example.com", payload.Email)
		assert.Equal(t, "hunter2!", payload.NewPassword)

		json.NewEncoder(w).Encode(models.AuthResponse{Success: true})
	})

	res := svc.ResetPassword(context.Background(), "admin@example.com", "hunter2!")
	assert.True(t, res.Success)
}

func TestService_VerifyOTPRejection(t *testing.T) {
	svc := createTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AuthResponse{Success: false, Message: "Invalid or expired OTP"})
	})

	res := svc.VerifyOTP(context.Background(), "000000", "admin@example.com")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid or expired OTP", res.Message)
}
