package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/cnab-must-flow/internal/cnab"
	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// RunRecorder stores the audit record of finished imports.
type RunRecorder interface {
	SaveImportRun(ctx context.Context, run *model.ImportRun) error
}

// FileImporter imports whole uploaded files and records each run.
type FileImporter struct {
	importer *Importer
	runs     RunRecorder
	now      func() time.Time
}

// NewFileImporter creates a file importer. runs may be nil to skip auditing.
func NewFileImporter(importer *Importer, runs RunRecorder) *FileImporter {
	return &FileImporter{
		importer: importer,
		runs:     runs,
		now:      time.Now,
	}
}

// ImportContent splits content into lines and imports them. source names the
// file in logs and in the import history.
func (f *FileImporter) ImportContent(ctx context.Context, source string, content []byte) (*model.ImportSummary, error) {
	lines := cnab.SplitLines(string(content))
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", source, common.ErrNoInput)
	}

	startedAt := f.now()
	summary, err := f.importer.Import(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", source, err)
	}

	if f.runs != nil {
		run := model.NewImportRun(source, len(lines), summary, startedAt, f.now())
		if err := f.runs.SaveImportRun(ctx, run); err != nil {
			// Transactions are already committed at this point.
			slog.Warn("Failed to record import run",
				"source", source,
				"error", err)
		}
	}

	return summary, nil
}
