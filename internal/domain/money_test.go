package domain

import (
	"testing"
	"time"
)

func TestComputeTotalsSumsLines(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{ProductID: 1, Price: 109.95, Quantity: 2},
			{ProductID: 2, Price: 22.3, Quantity: 1},
		},
	}

	totals := ComputeTotals(cart)

	if totals.Subtotal != 242.2 {
		t.Fatalf("expected subtotal 242.2 got %v", totals.Subtotal)
	}
	if totals.Discount != 0 {
		t.Fatalf("expected no discount got %v", totals.Discount)
	}
	if totals.Total != totals.Subtotal {
		t.Fatalf("expected total to equal subtotal got %v", totals.Total)
	}
}

func TestComputeTotalsAppliesCouponRate(t *testing.T) {
	cart := Cart{
		Items:  []CartItem{{ProductID: 3, Price: 55.99, Quantity: 3}},
		Coupon: CouponState{Code: "VIBE10", Rate: 0.10, Applied: true},
	}

	totals := ComputeTotals(cart)

	if totals.Subtotal != 167.97 {
		t.Fatalf("expected subtotal 167.97 got %v", totals.Subtotal)
	}
	if totals.Discount != 16.8 {
		t.Fatalf("expected discount 16.8 got %v", totals.Discount)
	}
	if totals.Total != 151.17 {
		t.Fatalf("expected total 151.17 got %v", totals.Total)
	}
}

func TestComputeTotalsIgnoresInactiveCoupon(t *testing.T) {
	cart := Cart{
		Items:     []CartItem{{ProductID: 4, Price: 10, Quantity: 1}},
		Coupon:    CouponState{Code: "VIBE10", Rate: 0.10, Applied: false},
		UpdatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	totals := ComputeTotals(cart)

	if totals.Discount != 0 || totals.Total != 10 {
		t.Fatalf("inactive coupon must not discount: %+v", totals)
	}
}

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.0},
		{0, 0},
		{999.999, 1000},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Fatalf("RoundCents(%v) = %v want %v", tc.in, got, tc.want)
		}
	}
}
