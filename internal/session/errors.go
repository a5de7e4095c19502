package session

import (
	"errors"

	"user_manager/internal/api"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateAccount   = errors.New("account with this email already exists")
	ErrSessionExpired     = errors.New("session expired")
)

// User-facing messages stored in State.Message.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgDuplicateAccount   = "Account with this email already exists"
	MsgLoginFailed        = "Login failed"
	MsgSignupFailed       = "Signup failed"
	MsgSessionExpired     = "Session expired. Please login again."
)

// loginMessage maps a login failure to its user-facing message.
func loginMessage(err error) string {
	if errors.Is(err, ErrInvalidCredentials) {
		return MsgInvalidCredentials
	}
	return MsgLoginFailed
}

func signupMessage(err error) string {
	if errors.Is(err, ErrDuplicateAccount) {
		return MsgDuplicateAccount
	}
	return MsgSignupFailed
}

// restoreError keeps data access failures and folds everything else into ErrSessionExpired.
func restoreError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return err
	}
	return ErrSessionExpired
}
