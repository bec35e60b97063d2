package services

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrDelivery             = errors.New("verification email delivery failed")
	ErrVerificationNotFound = errors.New("no verification record for this email")
	ErrCodeMismatch         = errors.New("verification code mismatch")
	ErrAllocation           = errors.New("permit number allocation failed")
	ErrPermitNotFound       = errors.New("permit not found")
	ErrInvalidTransition    = errors.New("invalid permit status transition")
	ErrTeamUnverified       = errors.New("all engineers must be verified before submission")
	ErrUnknownSection       = errors.New("unknown checklist section")
)
