package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación del log de transacciones sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de transacciones. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// LEFT JOIN: una ubicación inexistente deja location_name vacío en vez de ocultar la transacción.
const transactionSelect = `
	SELECT t.id, t.seq, t.product_id, t.location_id, COALESCE(l.name, ''), t.type, t.quantity, t.party,
	       t.created_at, COALESCE(t.created_by::text, ''), COALESCE(t.reversal_of::text, '')
	FROM transactions t
	LEFT JOIN locations l ON l.id = t.location_id`

func scanTransaction(row rowScanner, t *entity.Transaction) error {
	return row.Scan(&t.ID, &t.Seq, &t.ProductID, &t.LocationID, &t.LocationName, &t.Type, &t.Quantity,
		&t.Party, &t.CreatedAt, &t.CreatedBy, &t.ReversalOf)
}

const reversalConstraint = "uq_transactions_reversal_of"

// Create inserta la transacción y asigna Seq. El índice único parcial sobre reversal_of
// impide dos reversiones del mismo movimiento aunque lleguen en paralelo.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, product_id, location_id, type, quantity, party, created_at, created_by, reversal_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		tx.ID, tx.ProductID, tx.LocationID, tx.Type, tx.Quantity, tx.Party, tx.CreatedAt,
		nullIfEmpty(tx.CreatedBy), nullIfEmpty(tx.ReversalOf),
	).Scan(&tx.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == reversalConstraint {
				return domain.ErrConflict
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción con el nombre de su ubicación.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := scanTransaction(r.q.QueryRow(ctx, transactionSelect+` WHERE t.id = $1`, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// GetReversalOf obtiene la reversión de un movimiento (nil si no fue revertido).
func (r *TransactionRepo) GetReversalOf(ctx context.Context, origID string) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := scanTransaction(r.q.QueryRow(ctx, transactionSelect+` WHERE t.reversal_of = $1`, origID), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reversal: %w", err)
	}
	return &t, nil
}

// Update edita en sitio los campos editables (producto, ubicación, dirección, cantidad, contraparte).
func (r *TransactionRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	query := `
		UPDATE transactions SET product_id = $2, location_id = $3, type = $4, quantity = $5, party = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, tx.ID, tx.ProductID, tx.LocationID, tx.Type, tx.Quantity, tx.Party)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una transacción del log.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List historial más reciente primero, filtrable por producto y por nombre de producto.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := transactionSelect + `
		LEFT JOIN products p ON p.id = t.product_id
		WHERE ($1 = '' OR t.product_id::text = $1)
		  AND ($2 = '' OR p.name ILIKE $3)
		ORDER BY t.created_at DESC, t.seq DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query,
		filter.ProductID, filter.Search, likePattern(filter.Search), limitArg(filter.Limit), filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		var t entity.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListAll instantánea completa del log en orden cronológico.
func (r *TransactionRepo) ListAll(ctx context.Context) ([]entity.Transaction, error) {
	rows, err := r.q.Query(ctx, transactionSelect+` ORDER BY t.created_at, t.seq`)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Transaction, 0)
	for rows.Next() {
		var t entity.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
