package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code              string          `json:"code" validate:"required,min=1,max=64"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock no se edita aquí.
type UpdateProductRequest struct {
	Code              *string          `json:"code" validate:"omitempty,min=1,max=64"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
