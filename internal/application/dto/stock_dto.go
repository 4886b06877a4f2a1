package dto

import "github.com/shopspring/decimal"

// Estados de stock mostrados en tablas y dashboard.
const (
	StockStatusLow = "Low"
	StockStatusOK  = "OK"
)

// LocationStockResponse saldo en una ubicación.
type LocationStockResponse struct {
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ProductStockResponse producto con saldo agregado, por ubicación y estado.
type ProductStockResponse struct {
	Product   ProductResponse         `json:"product"`
	Total     decimal.Decimal         `json:"total"`
	LowStock  bool                    `json:"low_stock"`
	Status    string                  `json:"status"`
	Locations []LocationStockResponse `json:"locations"`
}

// StockListResponse tabla de productos con una columna por ubicación.
type StockListResponse struct {
	Locations []LocationResponse     `json:"locations"`
	Items     []ProductStockResponse `json:"items"`
}

// LedgerRowResponse fila del mayor: movimiento + cantidad con signo + saldo corrido.
type LedgerRowResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Delta       decimal.Decimal     `json:"delta"`
	Balance     decimal.Decimal     `json:"balance"`
}

// LedgerResponse mayor de un producto en orden cronológico.
type LedgerResponse struct {
	Product  ProductResponse     `json:"product"`
	Balance  decimal.Decimal     `json:"balance"`
	LowStock bool                `json:"low_stock"`
	Rows     []LedgerRowResponse `json:"rows"`
}

// LocationBalanceResponse saldo de un producto en una ubicación nombrada.
type LocationBalanceResponse struct {
	ProductID string          `json:"product_id"`
	Location  string          `json:"location"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ScanResponse resultado de escanear un QR: producto, stock, ubicaciones y últimos movimientos.
type ScanResponse struct {
	Stock             ProductStockResponse  `json:"stock"`
	Locations         []LocationResponse    `json:"locations"`
	DefaultLocationID string                `json:"default_location_id,omitempty"`
	History           []TransactionResponse `json:"history"`
}
