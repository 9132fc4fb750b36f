package model

import "strings"

// Store is a merchant that owns imported transactions.
type Store struct {
	Name  string
	Owner string
	ID    int64
}

// NewStore creates a store with trimmed name and owner.
func NewStore(name, owner string) *Store {
	return &Store{
		Name:  strings.TrimSpace(name),
		Owner: strings.TrimSpace(owner),
	}
}

// StoreIdentifier returns the canonical identifier for a name/owner pair.
func StoreIdentifier(name, owner string) string {
	return strings.ToLower(strings.TrimSpace(name)) + " - " + strings.ToLower(strings.TrimSpace(owner))
}

// Identifier is the canonical, case-folded key used for lookups and uniqueness.
func (s *Store) Identifier() string {
	return StoreIdentifier(s.Name, s.Owner)
}

func (s *Store) String() string {
	return s.Identifier()
}

// StoreBalance is the running balance of a single store.
type StoreBalance struct {
	Store            Store
	Balance          Amount
	TransactionCount int
}
