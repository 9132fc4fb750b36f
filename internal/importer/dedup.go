package importer

import "github.com/Veraticus/cnab-must-flow/internal/model"

// UniqueHashes returns the distinct content hashes of transactions in order.
func UniqueHashes(transactions []model.Transaction) []string {
	seen := make(map[string]struct{}, len(transactions))
	hashes := make([]string, 0, len(transactions))
	for _, txn := range transactions {
		if _, ok := seen[txn.Hash]; ok {
			continue
		}
		seen[txn.Hash] = struct{}{}
		hashes = append(hashes, txn.Hash)
	}
	return hashes
}

// FilterDuplicates splits candidates into new transactions and duplicates.
// A candidate is a duplicate when its hash is in existing or when an earlier
// candidate carried the same hash. The order of both slices follows candidates.
func FilterDuplicates(candidates []model.Transaction, existing map[string]struct{}) (toInsert, duplicates []model.Transaction) {
	seen := make(map[string]struct{}, len(candidates))
	for _, txn := range candidates {
		_, stored := existing[txn.Hash]
		_, repeated := seen[txn.Hash]
		if stored || repeated {
			duplicates = append(duplicates, txn)
			continue
		}
		seen[txn.Hash] = struct{}{}
		toInsert = append(toInsert, txn)
	}
	return toInsert, duplicates
}
