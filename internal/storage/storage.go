package storage

import "errors"

// Record keys of the persisted state layout. Each is an independent entry
// in the backing key-value store.
const (
	KeyOwner     = "Owner"
	KeyOperators = "Operators"
	KeyBudget    = "Budget"
)

// ErrNotFound is returned by store getters when the record has never been
// written, i.e. the instance is uninitialized.
var ErrNotFound = errors.New("storage: record not found")
