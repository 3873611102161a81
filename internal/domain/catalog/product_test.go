package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscountedUnitPrice(t *testing.T) {
	tests := []struct {
		name        string
		price       string
		discountPct string
		want        string
	}{
		{"no discount", "45", "0", "45.00"},
		{"quarter off", "120", "25", "90.00"},
		{"rounds half up", "10.01", "5", "9.51"},      // 9.5095 -> 9.51
		{"rounds down below half", "19.99", "15", "16.99"}, // 16.9915
		{"full discount", "35", "100", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{
				Price:       decimal.RequireFromString(tt.price),
				DiscountPct: decimal.RequireFromString(tt.discountPct),
			}
			got := p.DiscountedUnitPrice()
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}
