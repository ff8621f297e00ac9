package session

import "errors"

var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	NoRefreshTokenErr     = errors.New("no refresh token available")
	RefreshRejectedErr    = errors.New("refresh token rejected")
	UnauthorizedErr       = errors.New("unauthorized")
)
