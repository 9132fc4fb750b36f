// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// TransactionType is the CNAB transaction type code.
type TransactionType int

// Known CNAB transaction types. Zero is reserved and never valid.
const (
	TypeDebit       TransactionType = 1
	TypeBoleto      TransactionType = 2
	TypeFinancing   TransactionType = 3
	TypeCredit      TransactionType = 4
	TypeLoanReceipt TransactionType = 5
	TypeSales       TransactionType = 6
	TypeTedReceipt  TransactionType = 7
	TypeDocReceipt  TransactionType = 8
	TypeRent        TransactionType = 9
)

var transactionTypeNames = map[TransactionType]string{
	TypeDebit:       "Debit",
	TypeBoleto:      "Boleto",
	TypeFinancing:   "Financing",
	TypeCredit:      "Credit",
	TypeLoanReceipt: "LoanReceipt",
	TypeSales:       "Sales",
	TypeTedReceipt:  "TedReceipt",
	TypeDocReceipt:  "DocReceipt",
	TypeRent:        "Rent",
}

// ParseTransactionType maps a numeric code to a known type.
func ParseTransactionType(code int) (TransactionType, bool) {
	t := TransactionType(code)
	_, ok := transactionTypeNames[t]
	return t, ok
}

// IsValid reports whether t is one of the nine known codes.
func (t TransactionType) IsValid() bool {
	_, ok := transactionTypeNames[t]
	return ok
}

// IsEntry reports whether the type moves money into the store.
func (t TransactionType) IsEntry() bool {
	switch t {
	case TypeDebit, TypeCredit, TypeLoanReceipt, TypeSales, TypeTedReceipt, TypeDocReceipt:
		return true
	default:
		return false
	}
}

// Sign returns +1 for entries and -1 for exits.
func (t TransactionType) Sign() int64 {
	if t.IsEntry() {
		return 1
	}
	return -1
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}
