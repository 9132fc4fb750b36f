package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/cnab-must-flow/internal/cli"
	"github.com/Veraticus/cnab-must-flow/internal/cnab"
	"github.com/Veraticus/cnab-must-flow/internal/common"
	"github.com/Veraticus/cnab-must-flow/internal/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from CNAB files",
		Long: `Import transactions from fixed-width CNAB files.

Every line is validated; invalid lines are reported and skipped, lines that
were imported before are counted as duplicates.

Examples:
  # Import a single file
  cnab import ~/Downloads/CNAB.txt

  # Import every file of a month
  cnab import ~/Downloads/cnab_2019_03_*.txt

  # Check a file without saving anything
  cnab import --dry-run ~/Downloads/CNAB.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Validate files without saving")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// A dry run only parses, so it never opens the database.
	im := importer.New(nil, nil, importer.Config{Location: cfg.Location})
	var fileImporter *importer.FileImporter
	if !dryRun {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() { _ = store.Close() }()

		fileImporter = newFileImporter(store, cfg)
	}

	slog.Info("Importing CNAB files",
		"file_count", len(files),
		"dry_run", dryRun)

	var progress io.Writer = cmd.ErrOrStderr()
	if noProgress {
		progress = io.Discard
	}
	bar := cli.NewProgressBar(progress, len(files), "Importing files...")

	reports := make([]string, 0, len(files))
	var failed int
	for _, path := range files {
		source := filepath.Base(path)

		content, err := os.ReadFile(path)
		if err != nil {
			common.LogError(err, "Failed to read file", common.Fields{"file": path})
			failed++
			_ = bar.Add(1)
			continue
		}

		if dryRun {
			records, errs, err := im.Parse(ctx, cnab.SplitLines(string(content)))
			if err != nil {
				return err
			}
			reports = append(reports, cli.RenderDryRun(source, records, errs))
		} else {
			summary, err := fileImporter.ImportContent(ctx, source, content)
			switch {
			case errors.Is(err, common.ErrNoInput):
				slog.Warn("File has no lines", "file", path)
			case err != nil:
				common.LogError(err, "Failed to import file", common.Fields{"file": path})
				if ctx.Err() != nil {
					return err
				}
				failed++
			default:
				reports = append(reports, cli.RenderSummary(source, summary))
			}
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	for _, report := range reports {
		if _, err := fmt.Fprintln(out, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d files could not be imported", failed, len(files)), nil)
	}
	return nil
}

// expandPatterns resolves globs into file paths. Patterns without matches
// are kept when they name an existing file.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNoInput)
	}
	return files, nil
}
