package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de una transacción de stock.
const (
	TransactionInward  = "inward"  // entrada
	TransactionOutward = "outward" // salida
)

// Transaction representa un movimiento de stock (evento del libro mayor).
// Quantity es siempre no negativa; el signo lo define Type.
type Transaction struct {
	ID           string
	Seq          int64 // secuencia de inserción asignada por el almacenamiento
	ProductID    string
	LocationID   string
	LocationName string // resuelto por join; vacío si la ubicación ya no existe
	Type         string // inward, outward
	Quantity     decimal.Decimal
	Party        string // contraparte o nota libre
	CreatedAt    time.Time
	CreatedBy    string // UserID, opcional
	ReversalOf   string // ID de la transacción revertida, si aplica
}

// IsValidTransactionType indica si t es una dirección soportada.
func IsValidTransactionType(t string) bool {
	return t == TransactionInward || t == TransactionOutward
}
