package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidationError describes why a CNAB line was rejected.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StoreImportCount is the number of transactions imported for one store.
type StoreImportCount struct {
	Store string `json:"store"`
	Count int    `json:"count"`
}

// ImportSummary is the result of a single import call.
type ImportSummary struct {
	Errors    []ValidationError  `json:"errors"`
	Stores    []StoreImportCount `json:"stores"`
	Imported  int                `json:"imported"`
	Invalid   int                `json:"invalid"`
	Duplicate int                `json:"duplicate"`
}

// ImportRun records one completed import for auditing.
type ImportRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	ID         string
	Source     string
	Lines      int
	Imported   int
	Invalid    int
	Duplicate  int
}

// NewImportRun builds the audit record of a finished import.
func NewImportRun(source string, lines int, summary *ImportSummary, startedAt, finishedAt time.Time) *ImportRun {
	return &ImportRun{
		ID:         uuid.NewString(),
		Source:     source,
		Lines:      lines,
		Imported:   summary.Imported,
		Invalid:    summary.Invalid,
		Duplicate:  summary.Duplicate,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}
