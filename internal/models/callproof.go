package models

// CallProof is the signed-call envelope a caller presents to prove it
// authorized an operation. Operation names the ledger entry point being
// invoked; Nonce makes the signed message unique per call.
type CallProof struct {
	Operation string
	Nonce     string
	Signature []byte
}

// Message returns the bytes the caller signed.
func (p CallProof) Message() []byte {
	return []byte(p.Operation + "|" + p.Nonce)
}
