package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// TransactionFilter filtros del historial de transacciones. Limit <= 0 devuelve todas.
type TransactionFilter struct {
	ProductID string
	Search    string // por nombre de producto
	Limit     int
	Offset    int
}

// TransactionRepository define el puerto de persistencia del log de transacciones (DIP).
// Las lecturas resuelven LocationName contra locations; queda vacío si la ubicación no existe.
type TransactionRepository interface {
	// Create asigna Seq (orden de inserción). Una segunda reversión del mismo
	// movimiento devuelve domain.ErrConflict.
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// GetReversalOf devuelve la transacción cuyo ReversalOf es origID; nil si no hay.
	GetReversalOf(ctx context.Context, origID string) (*entity.Transaction, error)
	Update(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, id string) error
	// List devuelve el historial más reciente primero.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	// ListAll devuelve la instantánea completa ordenada por created_at, seq ascendente.
	ListAll(ctx context.Context) ([]entity.Transaction, error)
}
