package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// UUID issues random (v4) UUIDs. Ledger rows are keyed by these so entries
// created offline never collide when reconciled.
type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
