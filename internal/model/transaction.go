package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Transaction is a persisted CNAB transaction bound to a store.
type Transaction struct {
	OccurredAt   time.Time
	Store        *Store
	Amount       Amount
	SignedAmount Amount
	TaxID        string
	Card         string
	Hash         string
	ID           int64
	StoreID      int64
	Type         TransactionType
}

// HashLine returns the content hash used to detect re-imports of a line.
func HashLine(rawLine string) string {
	sum := sha256.Sum256([]byte(rawLine))
	return hex.EncodeToString(sum[:])
}
