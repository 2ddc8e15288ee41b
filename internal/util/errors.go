package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountUnconfirmed = errors.New("account not confirmed, check your email for the confirmation link")
	ErrInvalidToken       = errors.New("invalid or expired confirmation token")
	ErrContestNotFound    = errors.New("contest not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrContestEnded       = errors.New("contest has ended")
	ErrGenerationFailed   = errors.New("failed to generate a math problem")
)
