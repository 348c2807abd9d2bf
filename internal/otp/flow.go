// Package otp implements the password-reset flow: request a code by
// email, verify the six-digit code, then set a new password. The flow is
// linear and every identifying parameter (email, then token) travels
// exclusively in the navigation query string, so refreshing or sharing a
// link at any step reproduces the same flow state.
package otp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"dealer-dashboard/internal/common/config"
	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/models"
	"dealer-dashboard/internal/notify"
	"dealer-dashboard/internal/services"
)

// State names the screen the flow is on.
type State string

const (
	// StateRequest is the email-entry screen.
	StateRequest State = "request"
	// StateSent is the verification screen; a code has been mailed.
	StateSent State = "sent"
	// StateVerified means the code was accepted; the reset screen renders.
	StateVerified State = "verified"
	// StateReset is the terminal success state.
	StateReset State = "reset"
)

// Navigation routes between the screens. The query string is the only
// carrier of flow identity.
const (
	VerifyPath = "/verify-otp"
	ResetPath  = "/reset-password"
)

// Service is the slice of the auth service the flow drives.
type Service interface {
	ForgotPassword(ctx context.Context, email string) services.Result[models.AuthResponse]
	VerifyOTP(ctx context.Context, otp, email string) services.Result[models.AuthResponse]
	ResendOTP(ctx context.Context, token string) services.Result[models.AuthResponse]
	ResetPassword(ctx context.Context, email, newPassword string) services.Result[models.AuthResponse]
}

// Outcome reports one flow step to the caller. Nav, when non-empty, is the
// screen to navigate to; Delay is the grace period letting the success
// toast be seen before navigating (a UX nicety, not a correctness rule).
type Outcome struct {
	Success bool
	Message string
	Nav     string
	Delay   time.Duration
}

// Flow is the reset-flow state machine for one visitor.
type Flow struct {
	mu sync.Mutex

	digits       int
	boxes        []string
	focus        int
	state        State
	params       url.Values
	countdown    time.Duration
	resendReady  time.Time
	successDelay time.Duration
	lastError    string

	svc      Service
	notifier *notify.Notifier
	logger   logger.Logger
	now      func() time.Time
}

func NewFlow(cfg config.OTPConfig, svc Service, notifier *notify.Notifier, log logger.Logger, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{
		digits:       cfg.Digits,
		boxes:        make([]string, cfg.Digits),
		state:        StateRequest,
		params:       url.Values{},
		countdown:    cfg.ResendWait(),
		successDelay: time.Duration(cfg.SuccessDelay) * time.Millisecond,
		svc:          svc,
		notifier:     notifier,
		logger:       log.WithFields(map[string]interface{}{"flow": "otp-reset"}),
		now:          now,
	}
}

// Resume positions the flow from a navigation query string, the way a
// refreshed or shared link re-enters mid-flow. The `sent` timestamp,
// when present, re-arms the resend countdown, so the gate holds across
// stateless request handling.
func (f *Flow) Resume(params url.Values) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = params
	if unix, err := strconv.ParseInt(params.Get("sent"), 10, 64); err == nil {
		f.resendReady = time.Unix(unix, 0).Add(f.countdown)
	}
	switch {
	case params.Get("token") != "" && params.Get("email") != "":
		f.state = StateVerified
	case params.Get("email") != "":
		f.state = StateSent
	default:
		f.state = StateRequest
	}
	return f.state
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the inline error shown on the current screen.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// RequestCode submits the email-entry form. On success the flow advances
// to the verification screen with the email (and token, when the backend
// returned one) attached as query parameters; on failure it stays put
// with an inline error.
func (f *Flow) RequestCode(ctx context.Context, email string) Outcome {
	res := f.svc.ForgotPassword(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !res.Success {
		f.logger.Warn("reset code request failed", map[string]interface{}{"reason": res.Message})
		f.lastError = res.Message
		return Outcome{Success: false, Message: res.Message}
	}

	params := url.Values{}
	params.Set("email", email)
	if res.Data.Token != "" {
		params.Set("token", res.Data.Token)
	}
	f.params = params
	f.state = StateSent
	f.lastError = ""
	f.armResendLocked()
	params.Set("sent", strconv.FormatInt(f.now().Unix(), 10))

	f.notifier.Success("Reset code sent successfully!")
	return Outcome{Success: true, Nav: VerifyPath + "?" + params.Encode()}
}

// SetDigit writes one verification box. A value longer than one character
// is rejected whole, leaving the box unchanged. Typing a character into
// any box but the last advances focus to the next box.
func (f *Flow) SetDigit(index int, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= f.digits {
		return
	}
	if utf8.RuneCountInString(value) > 1 {
		return
	}

	f.boxes[index] = value
	if value != "" && index < f.digits-1 {
		f.focus = index + 1
	}
}

// Boxes returns a copy of the current box values.
func (f *Flow) Boxes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.boxes))
	copy(out, f.boxes)
	return out
}

// FocusIndex returns the box that currently holds input focus.
func (f *Flow) FocusIndex() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focus
}

// Code concatenates the boxes in order with no separator.
func (f *Flow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.boxes, "")
}

// Verify submits the concatenated code together with the email from the
// navigation context. An incomplete code fails client-side with no
// network call. On success the flow advances to the reset screen carrying
// token and email forward in the query string, after the success-toast
// grace delay.
func (f *Flow) Verify(ctx context.Context) Outcome {
	code := f.Code()

	if utf8.RuneCountInString(code) != f.digits {
		se := apperrors.NewOTPMalformedError(fmt.Sprintf("got %d of %d characters", utf8.RuneCountInString(code), f.digits))
		f.setError(se.UserMessage())
		return Outcome{Success: false, Message: se.UserMessage()}
	}

	f.mu.Lock()
	email := f.params.Get("email")
	token := f.params.Get("token")
	f.mu.Unlock()

	res := f.svc.VerifyOTP(ctx, code, email)
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Failed to verify OTP"
		}
		f.setError(msg)
		f.notifier.Error(msg)
		return Outcome{Success: false, Message: msg}
	}

	f.mu.Lock()
	params := url.Values{}
	params.Set("token", token)
	params.Set("email", email)
	f.params = params
	f.state = StateVerified
	f.lastError = ""
	f.mu.Unlock()

	f.notifier.Success("OTP verified successfully!")
	return Outcome{
		Success: true,
		Nav:     ResetPath + "?" + params.Encode(),
		Delay:   f.successDelay,
	}
}

// CanResend reports whether the countdown has reached zero.
func (f *Flow) CanResend() bool {
	return f.ResendRemaining() == 0
}

// ResendRemaining returns how long until resend unlocks, zero when it
// already has.
func (f *Flow) ResendRemaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := f.resendReady.Sub(f.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Resend re-requests the code using the token from the navigation
// context. A missing token fails explicitly with no network call; the
// countdown gate re-arms after a successful send.
func (f *Flow) Resend(ctx context.Context) Outcome {
	if !f.CanResend() {
		return Outcome{Success: false, Message: "Please wait before resending"}
	}

	f.mu.Lock()
	token := f.params.Get("token")
	f.mu.Unlock()

	if token == "" {
		se := apperrors.NewTokenMissingError()
		f.setError(se.UserMessage())
		return Outcome{Success: false, Message: se.UserMessage()}
	}

	res := f.svc.ResendOTP(ctx, token)
	if !res.Success {
		f.setError(res.Message)
		f.notifier.Error(res.Message)
		return Outcome{Success: false, Message: res.Message}
	}

	f.mu.Lock()
	f.lastError = ""
	f.armResendLocked()
	f.params.Set("sent", strconv.FormatInt(f.now().Unix(), 10))
	f.mu.Unlock()

	f.notifier.Success("Reset code sent successfully!")
	return Outcome{Success: true}
}

// ResetPassword submits the new password with the email read from the
// navigation context. A missing email is refused client-side before any
// network call.
func (f *Flow) ResetPassword(ctx context.Context, newPassword string) Outcome {
	f.mu.Lock()
	email := f.params.Get("email")
	f.mu.Unlock()

	if email == "" {
		se := apperrors.NewEmailMissingError()
		f.setError(se.UserMessage())
		return Outcome{Success: false, Message: se.UserMessage()}
	}

	res := f.svc.ResetPassword(ctx, email, newPassword)
	if !res.Success {
		f.setError(res.Message)
		f.notifier.Error(res.Message)
		return Outcome{Success: false, Message: res.Message}
	}

	f.mu.Lock()
	f.state = StateReset
	f.lastError = ""
	f.mu.Unlock()

	f.logger.Info("password reset completed", nil)
	f.notifier.Success("Password reset successfully!")
	return Outcome{Success: true}
}

// Params returns the navigation context the next screen should carry.
func (f *Flow) Params() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := url.Values{}
	for k, vs := range f.params {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

func (f *Flow) armResendLocked() {
	f.resendReady = f.now().Add(f.countdown)
}

func (f *Flow) setError(msg string) {
	f.mu.Lock()
	f.lastError = msg
	f.mu.Unlock()
}
