package errs

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyCheckedIn  = errors.New("copy has already been checked in")
	ErrAlreadyCheckedOut = errors.New("copy is already checked out")
	ErrNoOpenTransaction = errors.New("no open checkout for this copy")
	ErrRenewalExhausted  = errors.New("no renewals left for this loan")
	ErrPersistence       = errors.New("persistence failure")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNegativeBalance   = errors.New("due amount cannot become negative")
)

type ValidationErrorResponse struct {
	Message string `json:"message"`
	Errors  struct {
		AdditionalProperties string `json:"additionalProperties"`
	} `json:"errors"`
}
