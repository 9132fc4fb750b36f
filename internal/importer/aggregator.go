package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// StoreSet holds the unique stores referenced by a batch of records.
type StoreSet struct {
	byIdentifier map[string]*model.Store
	identifiers  []string
}

// Identifiers returns the canonical identifiers in first-seen order.
func (s *StoreSet) Identifiers() []string {
	return s.identifiers
}

// Missing returns the stores whose identifiers are not in existing, in
// first-seen order.
func (s *StoreSet) Missing(existing map[string]*model.Store) []*model.Store {
	var missing []*model.Store
	for _, id := range s.identifiers {
		if _, ok := existing[id]; !ok {
			missing = append(missing, s.byIdentifier[id])
		}
	}
	return missing
}

// Aggregator turns parsed records into stores and transactions.
type Aggregator struct {
	location *time.Location
}

// NewAggregator creates an aggregator that interprets record timestamps in loc.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{location: loc}
}

// CollectStores derives the unique stores of records. When two records map to
// the same identifier, the first one's name and owner are kept.
func (a *Aggregator) CollectStores(records []model.CnabRecord) *StoreSet {
	set := &StoreSet{byIdentifier: make(map[string]*model.Store)}
	for _, rec := range records {
		store := model.NewStore(rec.StoreName, rec.StoreOwner)
		id := store.Identifier()
		if _, seen := set.byIdentifier[id]; seen {
			continue
		}
		set.byIdentifier[id] = store
		set.identifiers = append(set.identifiers, id)
	}
	return set
}

// BuildTransactions binds every record to its resolved store. resolved must
// contain every identifier of records; a miss is a programming error.
func (a *Aggregator) BuildTransactions(records []model.CnabRecord, resolved map[string]*model.Store) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(records))
	for _, rec := range records {
		id := model.StoreIdentifier(rec.StoreName, rec.StoreOwner)
		store, ok := resolved[id]
		if !ok {
			panic(fmt.Sprintf("importer: store %q was not resolved", id))
		}
		transactions = append(transactions, a.newTransaction(rec, store))
	}
	return transactions
}

// ToUTC interprets a wall-clock timestamp in the aggregator's location.
func (a *Aggregator) ToUTC(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), a.location).UTC()
}

func (a *Aggregator) newTransaction(rec model.CnabRecord, store *model.Store) model.Transaction {
	return model.Transaction{
		Store:        store,
		StoreID:      store.ID,
		Type:         rec.Type,
		Amount:       rec.Amount,
		SignedAmount: rec.Amount.Mul(decimal.NewFromInt(rec.Type.Sign())),
		OccurredAt:   a.ToUTC(rec.LocalTimestamp),
		TaxID:        rec.TaxID,
		Card:         rec.Card,
		Hash:         model.HashLine(rec.RawLine),
	}
}
