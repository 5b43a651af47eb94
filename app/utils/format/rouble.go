package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const roubleSign = "₽"

var roubles = accounting.Accounting{Symbol: roubleSign, Precision: 0, Thousand: " ", Decimal: ",", Format: "%v %s"}

// FormatRouble renders cart and order totals, e.g. "1 200 ₽".
func FormatRouble(amount decimal.Decimal) string {
	return roubles.FormatMoney(amount.Round(0).IntPart())
}

// PriceLabel renders a product display price without digit grouping, e.g. "1200 ₽".
func PriceLabel(amount decimal.Decimal) string {
	return amount.StringFixed(0) + " " + roubleSign
}
