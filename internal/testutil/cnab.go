package testutil

import "strings"

// Line describes the fields of a CNAB line for tests.
type Line struct {
	Type   string
	Date   string
	Amount string
	TaxID  string
	Card   string
	Time   string
	Owner  string
	Store  string
}

// DefaultLine returns a valid debit line for PADARIA DO ZE.
func DefaultLine() Line {
	return Line{
		Type:   "1",
		Date:   "20190301",
		Amount: "0000012345",
		TaxID:  "12345678901",
		Card:   "123456789012",
		Time:   "123000",
		Owner:  "JOSE DA SILVA",
		Store:  "PADARIA DO ZE",
	}
}

// String renders the line with owner and store padded to their widths.
func (l Line) String() string {
	return l.Type + l.Date + l.Amount + l.TaxID + l.Card + l.Time + padRight(l.Owner, 14) + padRight(l.Store, 18)
}

// With returns a copy of l after applying fn.
func (l Line) With(fn func(*Line)) Line {
	fn(&l)
	return l
}

// File joins lines with "\n" and a terminating newline.
func File(lines ...Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteString("\n")
	}
	return b.String()
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
