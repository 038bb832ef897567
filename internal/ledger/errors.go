package ledger

import "errors"

// BudgetError is a typed, numbered validation failure. Codes are stable and
// deterministic so failures can be matched by number as well as by value.
type BudgetError uint32

const (
	ErrNotOwner BudgetError = iota + 1
	ErrNotOperator
	ErrAlreadyOperator
	ErrNotOperatorFound
	ErrOverflow
	ErrUnderflow
	ErrExceedsMax
	ErrBelowMin
	ErrInvalidLimits
)

func (e BudgetError) Error() string {
	switch e {
	case ErrNotOwner:
		return "ledger: caller is not the owner"
	case ErrNotOperator:
		return "ledger: caller is not an operator"
	case ErrAlreadyOperator:
		return "ledger: principal is already an operator"
	case ErrNotOperatorFound:
		return "ledger: operator not found"
	case ErrOverflow:
		return "ledger: addition overflows 128-bit range"
	case ErrUnderflow:
		return "ledger: subtraction underflows 128-bit range"
	case ErrExceedsMax:
		return "ledger: result would exceed max"
	case ErrBelowMin:
		return "ledger: result would fall below min"
	case ErrInvalidLimits:
		return "ledger: limits must satisfy min <= initial <= max"
	default:
		return "ledger: unknown error"
	}
}

// Code returns the numeric error code.
func (e BudgetError) Code() uint32 {
	return uint32(e)
}

// Lifecycle violations sit outside the numbered taxonomy: they signal the
// instance is in the wrong state for any operation at all.
var (
	ErrNotInitialized     = errors.New("ledger: instance not initialized")
	ErrAlreadyInitialized = errors.New("ledger: instance already initialized")
)
