package service

import "poke_league/internal/common"

var (
	ErrMissingFields      = common.NewError(common.ErrValidation, "Missing required fields")
	ErrMissingCredentials = common.NewError(common.ErrValidation, "Missing email or password")
	ErrEmailConflict      = common.NewError(common.ErrConflict, "Email already registered")
	ErrInvalidCredentials = common.NewError(common.ErrUnauthorized, "Invalid email or password")
	ErrUserNotFound       = common.NewError(common.ErrNotFound, "User not found")
	ErrMissingDelta       = common.NewError(common.ErrValidation, "Missing or zero delta")
	ErrForbiddenScore     = common.NewError(common.ErrForbidden, "Cannot modify another user's score")
)
