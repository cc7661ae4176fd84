package payroll

import "errors"

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrResultNotFound    = errors.New("payroll result not found")
	ErrInvalidTransition = errors.New("invalid payroll run status transition")
	ErrNoActiveStaff     = errors.New("company has no active staff")
	ErrRunNotDraft       = errors.New("payroll run is no longer a draft")
)
