package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ApplyMarkup raises price by percent and rounds half away from zero to a whole number.
func ApplyMarkup(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(hundred.Add(percent)).Div(hundred).Round(0)
}

func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
