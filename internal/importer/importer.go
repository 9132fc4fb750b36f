// Package importer runs the CNAB import workflow: parse, resolve stores,
// drop duplicates, persist and summarize.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cnab-must-flow/internal/cnab"
	"github.com/Veraticus/cnab-must-flow/internal/model"
	"github.com/Veraticus/cnab-must-flow/internal/service"
)

// Config holds configuration options for the importer.
type Config struct {
	// Location is the time zone CNAB timestamps are written in.
	Location *time.Location
}

// Importer orchestrates a CNAB import against the store and transaction
// repositories. It keeps no per-import state and is safe for concurrent use.
type Importer struct {
	stores       service.StoreRepository
	transactions service.TransactionRepository
	parser       *cnab.Parser
	aggregator   *Aggregator
}

// New creates an importer with the given collaborators.
func New(stores service.StoreRepository, transactions service.TransactionRepository, config Config) *Importer {
	return &Importer{
		stores:       stores,
		transactions: transactions,
		parser:       cnab.NewParser(),
		aggregator:   NewAggregator(config.Location),
	}
}

// Import parses rawLines and persists every valid transaction not seen before.
// Invalid lines are reported in the summary; storage failures abort the whole
// import and no summary is returned.
func (im *Importer) Import(ctx context.Context, rawLines []string) (*model.ImportSummary, error) {
	records, validationErrors, err := im.parse(ctx, rawLines)
	if err != nil {
		return nil, err
	}

	slog.Debug("Parsed CNAB lines",
		"lines", len(rawLines),
		"valid", len(records),
		"invalid", len(validationErrors))

	resolved, err := im.resolveStores(ctx, records)
	if err != nil {
		return nil, err
	}

	candidates := im.aggregator.BuildTransactions(records, resolved)

	toInsert, err := im.filterDuplicates(ctx, candidates)
	if err != nil {
		return nil, err
	}

	if len(toInsert) > 0 {
		if err := im.transactions.CreateTransactions(ctx, toInsert); err != nil {
			return nil, fmt.Errorf("failed to save transactions: %w", err)
		}
	}

	summary := &model.ImportSummary{
		Imported:  len(toInsert),
		Invalid:   len(validationErrors),
		Duplicate: len(candidates) - len(toInsert),
		Errors:    validationErrors,
		Stores:    groupByStore(toInsert),
	}

	slog.Info("Import finished",
		"imported", summary.Imported,
		"invalid", summary.Invalid,
		"duplicate", summary.Duplicate,
		"stores", len(summary.Stores))

	return summary, nil
}

// Parse validates rawLines without touching storage.
func (im *Importer) Parse(ctx context.Context, rawLines []string) ([]model.CnabRecord, []model.ValidationError, error) {
	return im.parse(ctx, rawLines)
}

func (im *Importer) parse(ctx context.Context, rawLines []string) ([]model.CnabRecord, []model.ValidationError, error) {
	records := make([]model.CnabRecord, 0, len(rawLines))
	validationErrors := make([]model.ValidationError, 0)

	for i, line := range rawLines {
		if err := ctx.Err(); err != nil {
			return nil, nil, fmt.Errorf("import canceled at line %d: %w", i+1, err)
		}

		result := im.parser.Parse(line, i+1)
		if !result.OK() {
			validationErrors = append(validationErrors, result.Errors...)
			continue
		}
		records = append(records, *result.Record)
	}

	return records, validationErrors, nil
}

// resolveStores returns every store referenced by records, creating the ones
// that do not exist yet.
func (im *Importer) resolveStores(ctx context.Context, records []model.CnabRecord) (map[string]*model.Store, error) {
	set := im.aggregator.CollectStores(records)
	if len(set.Identifiers()) == 0 {
		return map[string]*model.Store{}, nil
	}

	existing, err := im.stores.LookupExistingStores(ctx, set.Identifiers())
	if err != nil {
		return nil, fmt.Errorf("failed to look up stores: %w", err)
	}

	resolved := make(map[string]*model.Store, len(set.Identifiers()))
	for id, store := range existing {
		resolved[id] = store
	}

	missing := set.Missing(existing)
	if len(missing) > 0 {
		if err := im.stores.CreateStores(ctx, missing); err != nil {
			return nil, fmt.Errorf("failed to create stores: %w", err)
		}
		for _, store := range missing {
			resolved[store.Identifier()] = store
		}
	}

	slog.Debug("Resolved stores",
		"existing", len(existing),
		"created", len(missing))

	return resolved, nil
}

func (im *Importer) filterDuplicates(ctx context.Context, candidates []model.Transaction) ([]model.Transaction, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	existing, err := im.transactions.ExistingHashes(ctx, UniqueHashes(candidates))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing transactions: %w", err)
	}

	toInsert, duplicates := FilterDuplicates(candidates, existing)
	if len(duplicates) > 0 {
		slog.Debug("Skipping duplicate transactions", "count", len(duplicates))
	}
	return toInsert, nil
}

// groupByStore counts transactions per store in first-appearance order.
func groupByStore(transactions []model.Transaction) []model.StoreImportCount {
	groups := make([]model.StoreImportCount, 0)
	index := make(map[string]int)
	for _, txn := range transactions {
		id := txn.Store.Identifier()
		if i, ok := index[id]; ok {
			groups[i].Count++
			continue
		}
		index[id] = len(groups)
		groups = append(groups, model.StoreImportCount{Store: id, Count: 1})
	}
	return groups
}
