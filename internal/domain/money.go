package domain

import "math"

// RoundCents rounds a dollar amount to two decimal places, half away from
// zero, matching how display prices are quoted upstream.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// LineTotal prices a single cart line.
func LineTotal(item CartItem) float64 {
	return RoundCents(item.Price * float64(item.Quantity))
}

// ComputeTotals prices a cart: per-line totals summed, then the coupon rate
// applied to the subtotal. An inactive coupon contributes zero discount.
func ComputeTotals(cart Cart) CartTotals {
	var subtotal float64
	for _, item := range cart.Items {
		subtotal += LineTotal(item)
	}
	subtotal = RoundCents(subtotal)

	totals := CartTotals{Subtotal: subtotal, Total: subtotal}
	if cart.Coupon.Applied && cart.Coupon.Rate > 0 {
		totals.Discount = RoundCents(subtotal * cart.Coupon.Rate)
		totals.Total = RoundCents(subtotal - totals.Discount)
	}
	return totals
}
