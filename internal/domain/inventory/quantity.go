package inventory

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityScale decimales que conserva el almacenamiento (NUMERIC(18,4)).
const QuantityScale = 4

var quantityLimit = decimal.New(1, 18-QuantityScale)

// FitsScale indica si d se guarda sin redondeo: a lo sumo QuantityScale decimales
// significativos y parte entera dentro de NUMERIC(18,4). "1.50000" cabe; "0.00004" no.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityScale)) && d.Abs().LessThan(quantityLimit)
}

// CoerceQuantity convierte un valor numérico suelto (string, json.Number, float, int) en decimal.
// Lo que no se pueda interpretar, NaN o infinito, vale 0. Nunca falla.
func CoerceQuantity(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		return parseQuantity(x)
	case json.Number:
		return parseQuantity(string(x))
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case uint32:
		return decimal.NewFromInt(int64(x))
	default:
		return decimal.Zero
	}
}

func parseQuantity(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
