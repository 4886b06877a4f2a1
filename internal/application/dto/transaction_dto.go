package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest entrada para registrar un movimiento (entrada o salida).
type CreateTransactionRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id" validate:"required,uuid"`
	Type       string          `json:"type" validate:"required,oneof=inward outward"`
	Quantity   decimal.Decimal `json:"quantity"`
	Party      string          `json:"party" validate:"max=200"`
}

// UpdateTransactionRequest edición en sitio de un movimiento.
type UpdateTransactionRequest struct {
	ProductID  *string          `json:"product_id" validate:"omitempty,uuid"`
	LocationID *string          `json:"location_id" validate:"omitempty,uuid"`
	Type       *string          `json:"type" validate:"omitempty,oneof=inward outward"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Party      *string          `json:"party" validate:"omitempty,max=200"`
}

// TransactionListRequest filtros del historial (query string).
type TransactionListRequest struct {
	PageRequest
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	Search    string `query:"search" validate:"max=200"`
}

// TransactionResponse salida de un movimiento.
type TransactionResponse struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Party        string          `json:"party"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
	ReversalOf   string          `json:"reversal_of,omitempty"`
}

// TransactionListResponse historial paginado, más reciente primero.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
