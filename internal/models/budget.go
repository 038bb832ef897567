package models

// BudgetState is the ledger record: the live value plus its fixed inclusive
// bounds. Min <= Current <= Max holds after every successful mutation.
type BudgetState struct {
	Current Int128 `json:"current"`
	Min     Int128 `json:"min"`
	Max     Int128 `json:"max"`
}
