package models

// Principal is an opaque identifier for an account capable of being
// authenticated as a caller. The ledger only ever compares principals for
// equality; the auth package gives them meaning as hex-encoded ed25519
// public keys.
type Principal string

// Equal reports whether two principals identify the same account.
func (p Principal) Equal(other Principal) bool {
	return p == other
}

func (p Principal) String() string {
	return string(p)
}
