package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("access forbidden")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrResetTokenInvalid   = errors.New("invalid or expired reset token")
	ErrMarketUnavailable   = errors.New("market data unavailable")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
