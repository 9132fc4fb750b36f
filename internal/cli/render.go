package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// RenderSummary renders the outcome of importing one source.
func RenderSummary(source string, summary *model.ImportSummary) string {
	var b strings.Builder

	counts := fmt.Sprintf("imported %d · duplicate %d · invalid %d",
		summary.Imported, summary.Duplicate, summary.Invalid)
	switch {
	case summary.Invalid == 0:
		b.WriteString(FormatSuccess(counts))
	case summary.Imported == 0 && summary.Duplicate == 0:
		b.WriteString(FormatError(counts))
	default:
		b.WriteString(FormatWarning(counts))
	}

	if len(summary.Stores) > 0 {
		b.WriteString("\n\n")
		rows := make([][]string, 0, len(summary.Stores))
		for _, s := range summary.Stores {
			rows = append(rows, []string{s.Store, fmt.Sprintf("%d", s.Count)})
		}
		b.WriteString(RenderTable([]string{"Store", "Imported"}, rows))
	}

	if len(summary.Errors) > 0 {
		b.WriteString("\n\n")
		for _, e := range summary.Errors {
			b.WriteString(ErrorStyle.Render(e.Code))
			b.WriteString(" ")
			b.WriteString(SubtleStyle.Render(e.Message))
			b.WriteString("\n")
		}
	}

	return RenderBox(source, strings.TrimRight(b.String(), "\n"))
}

// RenderBalances renders store balances as a table.
func RenderBalances(balances []model.StoreBalance) string {
	if len(balances) == 0 {
		return SubtleStyle.Render("No stores imported yet.")
	}

	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		balance := b.Balance.StringFixed(2)
		if b.Balance.IsNegative() {
			balance = ErrorStyle.Render(balance)
		}
		rows = append(rows, []string{
			b.Store.Name,
			b.Store.Owner,
			fmt.Sprintf("%d", b.TransactionCount),
			balance,
		})
	}
	return RenderTable([]string{"Store", "Owner", "Transactions", "Balance"}, rows)
}

// RenderImportRuns renders the import history as a table.
func RenderImportRuns(runs []model.ImportRun) string {
	if len(runs) == 0 {
		return SubtleStyle.Render("No imports recorded yet.")
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			fmt.Sprintf("%d", r.Imported),
			fmt.Sprintf("%d", r.Duplicate),
			fmt.Sprintf("%d", r.Invalid),
			SubtleStyle.Render(r.ID),
		})
	}
	return RenderTable([]string{"Started", "Source", "Imported", "Duplicate", "Invalid", "ID"}, rows)
}

// RenderTable lays out rows in left-aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(headers, widths, TableHeaderStyle))
	for _, row := range rows {
		lines = append(lines, renderRow(row, widths, TableCellStyle))
	}
	return strings.Join(lines, "\n")
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	rendered := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		rendered = append(rendered, style.Width(widths[i]+style.GetPaddingRight()).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderDryRun renders the parse-only result of a source: how many lines
// would be imported and why the rest were rejected.
func RenderDryRun(source string, records []model.CnabRecord, errs []model.ValidationError) string {
	var b strings.Builder

	counts := fmt.Sprintf("valid %d · invalid %d", len(records), len(errs))
	if len(errs) == 0 {
		b.WriteString(FormatSuccess(counts))
	} else {
		b.WriteString(FormatWarning(counts))
	}

	stores := make(map[string]int)
	order := make([]string, 0)
	for _, r := range records {
		id := model.StoreIdentifier(r.StoreName, r.StoreOwner)
		if _, ok := stores[id]; !ok {
			order = append(order, id)
		}
		stores[id]++
	}
	if len(order) > 0 {
		b.WriteString("\n\n")
		rows := make([][]string, 0, len(order))
		for _, id := range order {
			rows = append(rows, []string{id, fmt.Sprintf("%d", stores[id])})
		}
		b.WriteString(RenderTable([]string{"Store", "Lines"}, rows))
	}

	for i, e := range errs {
		if i == 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(ErrorStyle.Render(e.Code))
		b.WriteString(" ")
		b.WriteString(SubtleStyle.Render(e.Message))
		b.WriteString("\n")
	}

	return RenderBox(source+" (dry run)", strings.TrimRight(b.String(), "\n"))
}
