package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	assert.Equal(t, 100.0, ShippingCost("standard"))
	assert.Equal(t, 200.0, ShippingCost("express"))
	assert.Equal(t, 500.0, ShippingCost("overnight"))

	// Unknown methods fall back to standard.
	assert.Equal(t, 100.0, ShippingCost(""))
	assert.Equal(t, 100.0, ShippingCost("drone"))
}

func TestComputePricing(t *testing.T) {
	p := ComputePricing(1000, "express")

	assert.Equal(t, 1000.0, p.Subtotal)
	assert.InDelta(t, 180.0, p.Tax, 1e-9)
	assert.Equal(t, 200.0, p.Shipping)
	assert.InDelta(t, 1380.0, p.Total, 1e-9)
}

func TestComputePricingZeroSubtotal(t *testing.T) {
	p := ComputePricing(0, "standard")

	assert.Equal(t, 0.0, p.Subtotal)
	assert.Equal(t, 0.0, p.Tax)
	assert.Equal(t, 100.0, p.Shipping)
	assert.Equal(t, 100.0, p.Total)
}

func TestComputePricingTotalIsSumOfParts(t *testing.T) {
	for _, subtotal := range []float64{1, 99.99, 2500, 123456.78} {
		for _, method := range []string{"standard", "express", "overnight"} {
			p := ComputePricing(subtotal, method)
			assert.InDelta(t, p.Subtotal+p.Tax+p.Shipping, p.Total, 1e-9)
		}
	}
}
