package engine

import "errors"

var ErrMissingTaxSettings = errors.New("tax settings are required for payroll calculation")
