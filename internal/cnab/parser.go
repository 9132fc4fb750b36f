// Package cnab parses fixed-width CNAB transaction lines.
package cnab

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/cnab-must-flow/internal/model"
)

// Validation error codes.
const (
	CodeEmptyLine      = "CNAB_EMPTY_LINE"
	CodeInvalidLength  = "CNAB_INVALID_LENGTH"
	CodeInvalidType    = "CNAB_INVALID_TYPE"
	CodeUnknownType    = "CNAB_UNKNOWN_TYPE"
	CodeInvalidDate    = "CNAB_INVALID_DATE"
	CodeInvalidTime    = "CNAB_INVALID_TIME"
	CodeInvalidAmount  = "CNAB_INVALID_AMOUNT"
	CodeNegativeAmount = "CNAB_NEGATIVE_AMOUNT"
)

// LineLength is the number of characters consumed from every line.
const LineLength = 80

const (
	dateLayout = "20060102"
	timeLayout = "150405"
)

// field is a half-open [start, end) character range.
type field struct {
	start int
	end   int
}

var (
	fieldType   = field{0, 1}
	fieldDate   = field{1, 9}
	fieldAmount = field{9, 19}
	fieldTaxID  = field{19, 30}
	fieldCard   = field{30, 42}
	fieldTime   = field{42, 48}
	fieldOwner  = field{48, 62}
	fieldStore  = field{62, 80}
)

func (f field) slice(chars []rune) string {
	return string(chars[f.start:f.end])
}

// Result is the outcome of parsing a single line: either a record or the
// errors that rejected it.
type Result struct {
	Record *model.CnabRecord
	Errors []model.ValidationError
}

// OK reports whether the line produced a record.
func (r Result) OK() bool {
	return r.Record != nil && len(r.Errors) == 0
}

// Parser parses CNAB lines.
type Parser struct{}

// NewParser creates a new CNAB parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse validates rawLine and converts it into a record. The first failing
// check wins; at most one error is returned per line.
func (p *Parser) Parse(rawLine string, lineNumber int) Result {
	if strings.TrimSpace(rawLine) == "" {
		return failure(lineNumber, CodeEmptyLine, "line is empty")
	}

	chars := []rune(rawLine)
	if len(chars) < LineLength {
		return failure(lineNumber, CodeInvalidLength,
			fmt.Sprintf("invalid length %d, expected %d characters", len(chars), LineLength))
	}
	chars = chars[:LineLength]

	typeText := fieldType.slice(chars)
	code, err := parseInteger(typeText)
	if err != nil {
		return failure(lineNumber, CodeInvalidType, fmt.Sprintf("invalid transaction type %q", typeText))
	}

	txType, ok := model.ParseTransactionType(int(code))
	if !ok {
		return failure(lineNumber, CodeUnknownType, fmt.Sprintf("unknown transaction type %d", code))
	}

	dateText := fieldDate.slice(chars)
	date, err := time.Parse(dateLayout, dateText)
	if err != nil {
		return failure(lineNumber, CodeInvalidDate, fmt.Sprintf("invalid date %q, expected yyyyMMdd", dateText))
	}

	timeText := fieldTime.slice(chars)
	clock, err := time.Parse(timeLayout, timeText)
	if err != nil {
		return failure(lineNumber, CodeInvalidTime, fmt.Sprintf("invalid time %q, expected hhmmss", timeText))
	}

	amountText := fieldAmount.slice(chars)
	cents, err := parseInteger(amountText)
	if err != nil {
		return failure(lineNumber, CodeInvalidAmount, fmt.Sprintf("invalid amount %q", amountText))
	}

	amount := model.AmountFromCents(cents)
	if amount.IsNegative() {
		return failure(lineNumber, CodeNegativeAmount, fmt.Sprintf("negative amount %s", amount.StringFixed(2)))
	}

	return Result{
		Record: &model.CnabRecord{
			Type: txType,
			LocalTimestamp: time.Date(date.Year(), date.Month(), date.Day(),
				clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC),
			Amount:     amount,
			TaxID:      strings.TrimSpace(fieldTaxID.slice(chars)),
			Card:       strings.TrimSpace(fieldCard.slice(chars)),
			StoreOwner: strings.TrimSpace(fieldOwner.slice(chars)),
			StoreName:  strings.TrimSpace(fieldStore.slice(chars)),
			RawLine:    rawLine,
			LineNumber: lineNumber,
		},
	}
}

// parseInteger accepts an optionally signed integer surrounded by blanks.
func parseInteger(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func failure(lineNumber int, code, detail string) Result {
	return Result{
		Errors: []model.ValidationError{{
			Code:    code,
			Message: fmt.Sprintf("line %d: %s", lineNumber, detail),
			Line:    lineNumber,
		}},
	}
}
