package dto

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// NewProductResponse mapea entidad -> DTO.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewLocationResponse mapea entidad -> DTO.
func NewLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt}
}

// NewLocationResponses mapea una lista de ubicaciones.
func NewLocationResponses(list []*entity.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, NewLocationResponse(l))
	}
	return out
}

// NewTransactionResponse mapea entidad -> DTO. product puede ser nil (producto eliminado).
func NewTransactionResponse(t *entity.Transaction, product *entity.Product) TransactionResponse {
	out := TransactionResponse{
		ID:           t.ID,
		Seq:          t.Seq,
		ProductID:    t.ProductID,
		LocationID:   t.LocationID,
		LocationName: t.LocationName,
		Type:         t.Type,
		Quantity:     t.Quantity,
		Party:        t.Party,
		CreatedAt:    t.CreatedAt,
		CreatedBy:    t.CreatedBy,
		ReversalOf:   t.ReversalOf,
	}
	if product != nil {
		out.ProductCode = product.Code
		out.ProductName = product.Name
	}
	return out
}

// NewUserResponse mapea entidad -> DTO (sin password).
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// StockStatus "Low" u "OK".
func StockStatus(low bool) string {
	if low {
		return StockStatusLow
	}
	return StockStatusOK
}
