package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionType_Sign(t *testing.T) {
	tests := []struct {
		name      string
		txType    TransactionType
		wantEntry bool
		wantSign  int64
	}{
		{name: "debit", txType: TypeDebit, wantEntry: true, wantSign: 1},
		{name: "boleto", txType: TypeBoleto, wantEntry: false, wantSign: -1},
		{name: "financing", txType: TypeFinancing, wantEntry: false, wantSign: -1},
		{name: "credit", txType: TypeCredit, wantEntry: true, wantSign: 1},
		{name: "loan receipt", txType: TypeLoanReceipt, wantEntry: true, wantSign: 1},
		{name: "sales", txType: TypeSales, wantEntry: true, wantSign: 1},
		{name: "ted receipt", txType: TypeTedReceipt, wantEntry: true, wantSign: 1},
		{name: "doc receipt", txType: TypeDocReceipt, wantEntry: true, wantSign: 1},
		{name: "rent", txType: TypeRent, wantEntry: false, wantSign: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.txType.IsValid())
			assert.Equal(t, tt.wantEntry, tt.txType.IsEntry())
			assert.Equal(t, tt.wantSign, tt.txType.Sign())
		})
	}
}

func TestParseTransactionType(t *testing.T) {
	for code := 1; code <= 9; code++ {
		txType, ok := ParseTransactionType(code)
		assert.True(t, ok, "code %d", code)
		assert.Equal(t, TransactionType(code), txType)
	}

	for _, code := range []int{0, -1, 10, 99} {
		_, ok := ParseTransactionType(code)
		assert.False(t, ok, "code %d", code)
	}

	assert.Equal(t, "Debit", TypeDebit.String())
	assert.Equal(t, "Unknown(0)", TransactionType(0).String())
}
