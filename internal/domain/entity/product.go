package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario (multi-ubicación).
// El stock no se persiste: se deriva siempre de las transacciones.
type Product struct {
	ID                string
	Code              string          // código legible único (ej. P001), es el contenido del QR
	Name              string
	LowStockThreshold decimal.Decimal // alerta de stock bajo; cero si no se configuró
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
