// Package inventory contiene el motor del libro mayor de stock (servicio de dominio).
//
// Reduce el log de transacciones a saldos por producto, saldos por ubicación,
// mayores con saldo corrido y resúmenes. Es puro: no hace I/O, no guarda estado
// entre llamadas y nunca falla por datos mal formados; el llamador le presta
// instantáneas de solo lectura de productos, ubicaciones y transacciones.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// OpeningBalanceParty es la contraparte de la transacción sintética que siembra el stock inicial.
const OpeningBalanceParty = "Opening Balance"

// LedgerRow una transacción anotada con el saldo corrido inmediatamente después de aplicarla.
type LedgerRow struct {
	Transaction entity.Transaction
	Delta       decimal.Decimal // cantidad con signo
	Balance     decimal.Decimal
}

// LocationBalance saldo agrupado por ubicación.
type LocationBalance struct {
	LocationID   string
	LocationName string
	Balance      decimal.Decimal
}

// Summary agregados globales para el dashboard (totales históricos, sin ventana de tiempo).
type Summary struct {
	TotalProducts int
	LowStockCount int
	TotalQuantity decimal.Decimal // suma de los saldos agregados de cada producto
	TotalInward   decimal.Decimal
	TotalOutward  decimal.Decimal
}

// SignedQuantity devuelve la cantidad con signo: inward suma, cualquier otra dirección resta.
func SignedQuantity(t entity.Transaction) decimal.Decimal {
	if t.Type == entity.TransactionInward {
		return t.Quantity
	}
	return t.Quantity.Neg()
}

// AggregateBalance saldo de un producto sumado en todas las ubicaciones.
// El orden de txs no afecta el resultado; sin transacciones el saldo es 0.
// Un saldo negativo se reporta tal cual.
func AggregateBalance(productID string, txs []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.ProductID == productID {
			total = total.Add(SignedQuantity(t))
		}
	}
	return total
}

// AggregateBalances saldo agregado de todos los productos presentes en txs, en una sola pasada.
func AggregateBalances(txs []entity.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txs {
		out[t.ProductID] = out[t.ProductID].Add(SignedQuantity(t))
	}
	return out
}

// LocationKey forma canónica de un nombre de ubicación (case folding Unicode completo:
// "Straße" y "STRASSE" comparten clave). Los almacenamientos la usan para la unicidad y
// para GetByName, de modo que coinciden con el emparejamiento de este paquete.
func LocationKey(name string) string {
	return cases.Fold().String(name)
}

// LocationBalanceByName saldo de un producto en una ubicación identificada por nombre.
// La comparación ignora mayúsculas/minúsculas (case folding Unicode) porque el llamador
// puede tener solo una etiqueta libre (ej. una fila importada). Las transacciones sin
// nombre de ubicación resuelto se excluyen.
func LocationBalanceByName(productID, locationName string, txs []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	if locationName == "" {
		return total
	}
	want := LocationKey(locationName)
	for _, t := range txs {
		if t.ProductID != productID || t.LocationName == "" {
			continue
		}
		if LocationKey(t.LocationName) == want {
			total = total.Add(SignedQuantity(t))
		}
	}
	return total
}

// BuildLedger reconstruye el mayor de un producto: filtra, ordena ascendente por CreatedAt
// (desempate por Seq y luego por ID) y acumula el saldo desde 0. No modifica txs.
func BuildLedger(productID string, txs []entity.Transaction) []LedgerRow {
	filtered := make([]entity.Transaction, 0)
	for _, t := range txs {
		if t.ProductID == productID {
			filtered = append(filtered, t)
		}
	}
	SortChronological(filtered)

	rows := make([]LedgerRow, 0, len(filtered))
	balance := decimal.Zero
	for _, t := range filtered {
		delta := SignedQuantity(t)
		balance = balance.Add(delta)
		rows = append(rows, LedgerRow{Transaction: t, Delta: delta, Balance: balance})
	}
	return rows
}

// SortChronological ordena en sitio por CreatedAt ascendente con desempate determinista.
func SortChronological(txs []entity.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.ID < b.ID
	})
}

// IsLowStock true si el saldo agregado es menor o igual al umbral del producto.
func IsLowStock(p entity.Product, aggregate decimal.Decimal) bool {
	return aggregate.LessThanOrEqual(p.LowStockThreshold)
}

// MovementTotals cantidades totales de entrada y salida sobre todo el conjunto de transacciones.
func MovementTotals(txs []entity.Transaction) (inward, outward decimal.Decimal) {
	inward, outward = decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Type == entity.TransactionInward {
			inward = inward.Add(t.Quantity)
		} else {
			outward = outward.Add(t.Quantity)
		}
	}
	return inward, outward
}

// Summarize calcula los indicadores del dashboard. Las transacciones de productos que no
// están en la instantánea no cuentan para TotalQuantity pero sí para los totales de movimiento.
func Summarize(products []entity.Product, txs []entity.Transaction) Summary {
	balances := AggregateBalances(txs)
	s := Summary{TotalProducts: len(products), TotalQuantity: decimal.Zero}
	for _, p := range products {
		b := balances[p.ID]
		s.TotalQuantity = s.TotalQuantity.Add(b)
		if IsLowStock(p, b) {
			s.LowStockCount++
		}
	}
	s.TotalInward, s.TotalOutward = MovementTotals(txs)
	return s
}

// LocationDistribution stock total por ubicación (todos los productos), resolviendo la
// ubicación por ID contra la instantánea y agrupando por nombre sin distinguir mayúsculas.
// Solo se devuelven las ubicaciones con saldo positivo, en el orden de locations.
func LocationDistribution(locations []entity.Location, txs []entity.Transaction) []LocationBalance {
	keyByID := make(map[string]string, len(locations))
	buckets := make([]LocationBalance, 0, len(locations))
	index := make(map[string]int, len(locations))
	for _, l := range locations {
		key := LocationKey(l.Name)
		keyByID[l.ID] = key
		if _, ok := index[key]; !ok {
			index[key] = len(buckets)
			buckets = append(buckets, LocationBalance{LocationID: l.ID, LocationName: l.Name, Balance: decimal.Zero})
		}
	}
	for _, t := range txs {
		key, ok := keyByID[t.LocationID]
		if !ok {
			continue
		}
		i := index[key]
		buckets[i].Balance = buckets[i].Balance.Add(SignedQuantity(t))
	}

	out := make([]LocationBalance, 0, len(buckets))
	for _, b := range buckets {
		if b.Balance.IsPositive() {
			out = append(out, b)
		}
	}
	return out
}

// StockByLocation saldo de un producto en cada ubicación conocida (columnas de la tabla de
// productos). Empareja por nombre como LocationBalanceByName; ubicaciones cuyo nombre
// coincide tras el folding aparecen una sola vez.
func StockByLocation(productID string, locations []entity.Location, txs []entity.Transaction) []LocationBalance {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txs {
		if t.ProductID != productID || t.LocationName == "" {
			continue
		}
		key := LocationKey(t.LocationName)
		sums[key] = sums[key].Add(SignedQuantity(t))
	}

	out := make([]LocationBalance, 0, len(locations))
	seen := make(map[string]bool, len(locations))
	for _, l := range locations {
		key := LocationKey(l.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, LocationBalance{LocationID: l.ID, LocationName: l.Name, Balance: sums[key].Add(decimal.Zero)})
	}
	return out
}
