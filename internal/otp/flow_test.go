// internal/otp/flow_test.go
package otp

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealer-dashboard/internal/common/config"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/notify"
	"dealer-dashboard/internal/services"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeAuth records every call so tests can assert which steps hit the
// network at all.
type fakeAuth struct {
	forgotCalls int
	verifyCalls int
	resendCalls int
	resetCalls  int

	failWith string
	token    string

	lastOTP   string
	lastEmail string
}

func (f *fakeAuth) result() services.Result[models.AuthResponse] {
	if f.failWith != "" {
		return services.Result[models.AuthResponse]{Success: false, Message: f.failWith}
	}
	return services.OK(models.AuthResponse{Success: true, Token: f.token})
}

func (f *fakeAuth) ForgotPassword(ctx context.Context, email string) services.Result[models.AuthResponse] {
	f.forgotCalls++
	f.lastEmail = email
	return f.result()
}

func (f *fakeAuth) VerifyOTP(ctx context.Context, otp, email string) services.Result[models.AuthResponse] {
	f.verifyCalls++
	f.lastOTP = otp
	f.lastEmail = email
	return f.result()
}

func (f *fakeAuth) ResendOTP(ctx context.Context, token string) services.Result[models.AuthResponse] {
	f.resendCalls++
	return f.result()
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email, newPassword string) services.Result[models.AuthResponse] {
	f.resetCalls++
	f.lastEmail = email
	return f.result()
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func createTestFlow(t *testing.T, svc Service, clock *fakeClock) (*Flow, *notify.Notifier) {
	testLogger := logger.NewTestLogger(t)
	notifier := notify.New(testLogger)
	cfg := config.OTPConfig{Digits: 6, ResendCountdown: 30, SuccessDelay: 1000}
	var now func() time.Time
	if clock != nil {
		now = clock.Now
	}
	return NewFlow(cfg, svc, notifier, testLogger, now), notifier
}

func fillCode(f *Flow, code string) {
	for i, r := range code {
		f.SetDigit(i, string(r))
	}
}

// ==========================
// Resume Tests
// ==========================

func TestFlow_ResumePositionsFromQueryString(t *testing.T) {
	tests := []struct {
		name     string
		params   url.Values
		expected State
	}{
		{name: "no identity starts at request", params: url.Values{}, expected: StateRequest},
		{name: "email alone resumes verification", params: url.Values{"email": {"a@b.com"}}, expected: StateSent},
		{name: "token and email resume reset", params: url.Values{"token": {"tok-1"}, "email": {"a@b.com"}}, expected: StateVerified},
		{name: "token alone is not enough", params: url.Values{"token": {"tok-1"}}, expected: StateRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, _ := createTestFlow(t, &fakeAuth{}, nil)
			assert.Equal(t, tt.expected, flow.Resume(tt.params))
		})
	}
}

// ==========================
// Request Tests
// ==========================

func TestFlow_RequestCodeCarriesIdentityInQueryString(t *testing.T) {
	svc := &fakeAuth{token: "tok-42"}
	flow, notifier := createTestFlow(t, svc, nil)

	out := flow.RequestCode(context.Background(), "admin@dealer.example.com")

	require.True(t, out.Success)
	assert.Equal(t, StateSent, flow.State())
	assert.Equal(t, 1, svc.forgotCalls)

	nav, err := url.Parse(out.Nav)
	require.NoError(t, err)
	assert.Equal(t, VerifyPath, nav.Path)
	assert.Equal(t, "admin@dealer.example.com", nav.Query().Get("email"))
	assert.Equal(t, "tok-42", nav.Query().Get("token"))

	notes := notifier.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelSuccess, notes[0].Level)
}

func TestFlow_RequestCodeFailureStaysPut(t *testing.T) {
	svc := &fakeAuth{failWith: "Unknown email address"}
	flow, _ := createTestFlow(t, svc, nil)

	out := flow.RequestCode(context.Background(), "nobody@example.com")

	assert.False(t, out.Success)
	assert.Equal(t, StateRequest, flow.State())
	assert.Equal(t, "Unknown email address", flow.LastError())
	assert.Empty(t, out.Nav)
}

// ==========================
// Digit Box Tests
// ==========================

func TestFlow_SetDigit(t *testing.T) {
	tests := []struct {
		name          string
		index         int
		value         string
		expectedBox   string
		expectedFocus int
	}{
		{name: "single character accepted", index: 0, value: "4", expectedBox: "4", expectedFocus: 1},
		{name: "letter accepted as one rune", index: 0, value: "x", expectedBox: "x", expectedFocus: 1},
		{name: "multi character rejected whole", index: 0, value: "42", expectedBox: "", expectedFocus: 0},
		{name: "multibyte rune counts as one", index: 0, value: "é", expectedBox: "é", expectedFocus: 1},
		{name: "clearing a box keeps focus", index: 0, value: "", expectedBox: "", expectedFocus: 0},
		{name: "out of range ignored", index: 9, value: "1", expectedBox: "", expectedFocus: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, _ := createTestFlow(t, &fakeAuth{}, nil)
			flow.SetDigit(tt.index, tt.value)
			assert.Equal(t, tt.expectedBox, flow.Boxes()[0])
			assert.Equal(t, tt.expectedFocus, flow.FocusIndex())
		})
	}
}

func TestFlow_FocusStopsAtLastBox(t *testing.T) {
	flow, _ := createTestFlow(t, &fakeAuth{}, nil)

	fillCode(flow, "420199")
	assert.Equal(t, 5, flow.FocusIndex(), "focus never advances past the last box")
	assert.Equal(t, "420199", flow.Code())

	flow.SetDigit(5, "7")
	assert.Equal(t, 5, flow.FocusIndex())
	assert.Equal(t, "420197", flow.Code())
}

// ==========================
// Verify Tests
// ==========================

func TestFlow_VerifySubmitsConcatenatedCode(t *testing.T) {
	svc := &fakeAuth{}
	flow, _ := createTestFlow(t, svc, nil)
	flow.Resume(url.Values{"email": {"a@b.com"}, "token": {"tok-1"}})

	fillCode(flow, "420199")
	out := flow.Verify(context.Background())

	require.True(t, out.Success)
	assert.Equal(t, "420199", svc.lastOTP)
	assert.Equal(t, "a@b.com", svc.lastEmail)
	assert.Equal(t, StateVerified, flow.State())
	assert.Equal(t, time.Second, out.Delay)

	nav, err := url.Parse(out.Nav)
	require.NoError(t, err)
	assert.Equal(t, ResetPath, nav.Path)
	assert.Equal(t, "tok-1", nav.Query().Get("token"))
	assert.Equal(t, "a@b.com", nav.Query().Get("email"))
}

func TestFlow_VerifyIncompleteCodeNeverHitsNetwork(t *testing.T) {
	svc := &fakeAuth{}
	flow, _ := createTestFlow(t, svc, nil)
	flow.Resume(url.Values{"email": {"a@b.com"}})

	fillCode(flow, "420")
	out := flow.Verify(context.Background())

	assert.False(t, out.Success)
	assert.Equal(t, 0, svc.verifyCalls, "incomplete code fails client-side")
	assert.Equal(t, StateSent, flow.State())
}

func TestFlow_VerifyBackendFailureFallsBackToGenericMessage(t *testing.T) {
	// Backend rejects with no message at all.
	rejecting := &rejectingAuth{}
	flow, notifier := createTestFlow(t, rejecting, nil)
	flow.Resume(url.Values{"email": {"a@b.com"}})

	fillCode(flow, "420199")
	out := flow.Verify(context.Background())

	assert.False(t, out.Success)
	assert.Equal(t, "Failed to verify OTP", out.Message)
	assert.Equal(t, StateSent, flow.State())

	notes := notifier.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelError, notes[0].Level)
}

// rejectingAuth fails every call with no message at all.
type rejectingAuth struct {
	fakeAuth
}

func (r *rejectingAuth) VerifyOTP(ctx context.Context, otp, email string) services.Result[models.AuthResponse] {
	r.verifyCalls++
	return services.Result[models.AuthResponse]{Success: false}
}

// ==========================
// Resend Tests
// ==========================

func TestFlow_ResendGatedByCountdown(t *testing.T) {
	svc := &fakeAuth{token: "tok-1"}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	flow, _ := createTestFlow(t, svc, clock)

	out := flow.RequestCode(context.Background(), "a@b.com")
	require.True(t, out.Success)

	assert.False(t, flow.CanResend())
	assert.Equal(t, 30*time.Second, flow.ResendRemaining())

	resend := flow.Resend(context.Background())
	assert.False(t, resend.Success)
	assert.Equal(t, 0, svc.resendCalls, "gated resend never hits the network")

	clock.Advance(30 * time.Second)
	assert.True(t, flow.CanResend())

	resend = flow.Resend(context.Background())
	require.True(t, resend.Success)
	assert.Equal(t, 1, svc.resendCalls)

	// Countdown re-arms after each successful send.
	assert.False(t, flow.CanResend())
	assert.Equal(t, 30*time.Second, flow.ResendRemaining())
}

func TestFlow_ResendGateSurvivesResume(t *testing.T) {
	svc := &fakeAuth{token: "tok-1"}
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	flow, _ := createTestFlow(t, svc, clock)

	out := flow.RequestCode(context.Background(), "a@b.com")
	require.True(t, out.Success)

	// A second flow rebuilt from the navigation params, the way each
	// request rebuilds its state from the URL, must honor the same gate.
	rebuilt, _ := createTestFlow(t, svc, clock)
	rebuilt.Resume(flow.Params())

	assert.False(t, rebuilt.CanResend())
	resend := rebuilt.Resend(context.Background())
	assert.False(t, resend.Success)
	assert.Equal(t, 0, svc.resendCalls)

	clock.Advance(30 * time.Second)
	assert.True(t, rebuilt.CanResend())
	resend = rebuilt.Resend(context.Background())
	require.True(t, resend.Success)
	assert.Equal(t, 1, svc.resendCalls)

	// The re-armed gate travels onward through the updated params.
	next, _ := createTestFlow(t, svc, clock)
	next.Resume(rebuilt.Params())
	assert.False(t, next.CanResend())
}

func TestFlow_ResumeIgnoresMalformedSentTimestamp(t *testing.T) {
	flow, _ := createTestFlow(t, &fakeAuth{}, nil)
	flow.Resume(url.Values{"email": {"a@b.com"}, "token": {"tok-1"}, "sent": {"yesterday"}})
	assert.True(t, flow.CanResend())
}

func TestFlow_ResendWithoutTokenNeverHitsNetwork(t *testing.T) {
	svc := &fakeAuth{}
	flow, _ := createTestFlow(t, svc, nil)
	flow.Resume(url.Values{"email": {"a@b.com"}})

	out := flow.Resend(context.Background())

	assert.False(t, out.Success)
	assert.Equal(t, 0, svc.resendCalls, "missing token fails before any network call")
	assert.NotEmpty(t, flow.LastError())
}

// ==========================
// Reset Tests
// ==========================

func TestFlow_ResetPasswordUsesEmailFromQueryString(t *testing.T) {
	svc := &fakeAuth{}
	flow, notifier := createTestFlow(t, svc, nil)
	flow.Resume(url.Values{"token": {"tok-1"}, "email": {"a@b.com"}})

	out := flow.ResetPassword(context.Background(), "hunter2!")

	require.True(t, out.Success)
	assert.Equal(t, 1, svc.resetCalls)
	assert.Equal(t, "a@b.com", svc.lastEmail)
	assert.Equal(t, StateReset, flow.State())

	notes := notifier.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, notify.LevelSuccess, notes[0].Level)
}

func TestFlow_ResetPasswordWithoutEmailNeverHitsNetwork(t *testing.T) {
	svc := &fakeAuth{}
	flow, _ := createTestFlow(t, svc, nil)
	flow.Resume(url.Values{"token": {"tok-1"}})

	out := flow.ResetPassword(context.Background(), "hunter2!")

	assert.False(t, out.Success)
	assert.Equal(t, 0, svc.resetCalls, "missing email fails before any network call")
	assert.Equal(t, StateRequest, flow.State())
}
