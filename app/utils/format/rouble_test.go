package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRouble(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(0), "0 ₽"},
		{decimal.NewFromInt(950), "950 ₽"},
		{decimal.NewFromInt(1200), "1 200 ₽"},
		{decimal.NewFromInt(1234567), "1 234 567 ₽"},
		{decimal.RequireFromString("1199.6"), "1 200 ₽"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRouble(tt.in))
	}
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "1200 ₽", PriceLabel(decimal.NewFromInt(1200)))
	assert.Equal(t, "15000 ₽", PriceLabel(decimal.NewFromInt(15000)))
}
