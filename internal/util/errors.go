// internal/util/errors.go
package util

import (
	"errors"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound               = errors.New("resource not found")
	ErrValidation             = errors.New("validation failed")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrPolicyViolation        = errors.New("policy violation")
	ErrRecipientNotFound      = errors.New("recipient not found")
	ErrSelfTransferNotAllowed = errors.New("cannot transfer to yourself")
	ErrAlreadyProcessed       = errors.New("already processed")
	ErrAmountMismatch         = errors.New("amount mismatch")
	ErrOwnerMismatch          = errors.New("user does not own this transaction")
	ErrInvalidState           = errors.New("invalid ledger state")
	ErrDuplicateEntry         = errors.New("duplicate entry")
	ErrUnauthorized           = errors.New("unauthorized")
)

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// Detail returns the text that follows target in err's message, dropping the
// operation prefixes added while wrapping. It falls back to target's text.
func Detail(err, target error) string {
	msg, marker := err.Error(), target.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return marker
	}
	if rest := strings.TrimPrefix(msg[i+len(marker):], ": "); rest != "" {
		return rest
	}
	return marker
}
