package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var euro = accounting.Accounting{Symbol: "€", Precision: 2, Thousand: ".", Decimal: ","}

// FormatEUR renders a decimal amount as a display string, e.g. "€1.250,00".
func FormatEUR(amount decimal.Decimal) string {
	return euro.FormatMoneyDecimal(amount)
}
