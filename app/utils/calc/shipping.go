package calc

import "github.com/shopspring/decimal"

var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingCost      = decimal.NewFromInt(10)
)

// ShippingCost applies the flat surcharge rule: free when the subtotal
// reaches the threshold, a flat fee otherwise. The same function feeds both
// the displayed estimate and the payment-intent amount.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		return decimal.Zero
	}
	return flatShippingCost
}

// OrderTotal is the shipping-adjusted charge amount.
func OrderTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(ShippingCost(subtotal))
}
