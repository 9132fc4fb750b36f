package model

import "time"

// CnabRecord is one parsed line of a CNAB file.
//
// LocalTimestamp carries the wall clock found in the file. Its location is
// meaningless; it is converted to UTC once the import time zone is known.
type CnabRecord struct {
	LocalTimestamp time.Time
	Amount         Amount
	TaxID          string
	Card           string
	StoreOwner     string
	StoreName      string
	RawLine        string
	Type           TransactionType
	LineNumber     int
}
