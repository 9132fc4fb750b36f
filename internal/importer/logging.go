package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/cnab-must-flow/internal/model"
	"github.com/Veraticus/cnab-must-flow/internal/service"
)

// LoggingStoreRepository logs the duration and outcome of store repository calls.
type LoggingStoreRepository struct {
	next   service.StoreRepository
	logger *slog.Logger
}

// NewLoggingStoreRepository wraps next. A nil logger uses slog.Default().
func NewLoggingStoreRepository(next service.StoreRepository, logger *slog.Logger) *LoggingStoreRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingStoreRepository{next: next, logger: logger}
}

// LookupExistingStores implements service.StoreRepository.
func (r *LoggingStoreRepository) LookupExistingStores(ctx context.Context, identifiers []string) (map[string]*model.Store, error) {
	start := time.Now()
	stores, err := r.next.LookupExistingStores(ctx, identifiers)
	logCall(ctx, r.logger, "LookupExistingStores", start, err,
		slog.Int("requested", len(identifiers)),
		slog.Int("found", len(stores)))
	return stores, err
}

// CreateStores implements service.StoreRepository.
func (r *LoggingStoreRepository) CreateStores(ctx context.Context, stores []*model.Store) error {
	start := time.Now()
	err := r.next.CreateStores(ctx, stores)
	logCall(ctx, r.logger, "CreateStores", start, err, slog.Int("count", len(stores)))
	return err
}

// LoggingTransactionRepository logs the duration and outcome of transaction repository calls.
type LoggingTransactionRepository struct {
	next   service.TransactionRepository
	logger *slog.Logger
}

// NewLoggingTransactionRepository wraps next. A nil logger uses slog.Default().
func NewLoggingTransactionRepository(next service.TransactionRepository, logger *slog.Logger) *LoggingTransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingTransactionRepository{next: next, logger: logger}
}

// ExistingHashes implements service.TransactionRepository.
func (r *LoggingTransactionRepository) ExistingHashes(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	start := time.Now()
	existing, err := r.next.ExistingHashes(ctx, hashes)
	logCall(ctx, r.logger, "ExistingHashes", start, err,
		slog.Int("requested", len(hashes)),
		slog.Int("found", len(existing)))
	return existing, err
}

// CreateTransactions implements service.TransactionRepository.
func (r *LoggingTransactionRepository) CreateTransactions(ctx context.Context, transactions []model.Transaction) error {
	start := time.Now()
	err := r.next.CreateTransactions(ctx, transactions)
	logCall(ctx, r.logger, "CreateTransactions", start, err, slog.Int("count", len(transactions)))
	return err
}

func logCall(ctx context.Context, logger *slog.Logger, op string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs,
		slog.String("op", op),
		slog.Duration("duration", time.Since(start)))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		logger.LogAttrs(ctx, slog.LevelError, "Repository call failed", attrs...)
		return
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "Repository call", attrs...)
}
