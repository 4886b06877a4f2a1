package inventory_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

func TestCoerceQuantity(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, "0"},
		{"string entero", "12", "12"},
		{"string con espacios", " 7.25 ", "7.25"},
		{"string vacío", "", "0"},
		{"texto", "abc", "0"},
		{"texto mixto", "10abc", "0"},
		{"json.Number", json.Number("3.5"), "3.5"},
		{"float64", 2.5, "2.5"},
		{"NaN", math.NaN(), "0"},
		{"infinito", math.Inf(1), "0"},
		{"int", 10, "10"},
		{"int64", int64(4), "4"},
		{"bool", true, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertDec(t, tc.want, inventory.CoerceQuantity(tc.in))
		})
	}
}

func TestFitsScale(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"0.0001", true},
		{"1.50000", true},
		{"12.3456", true},
		{"0.00004", false},
		{"2.00001", false},
		{"99999999999999.9999", true},
		{"100000000000000", false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := inventory.FitsScale(decimal.RequireFromString(c.in)); got != c.want {
				t.Errorf("FitsScale(%s) = %v, se esperaba %v", c.in, got, c.want)
			}
		})
	}
}
