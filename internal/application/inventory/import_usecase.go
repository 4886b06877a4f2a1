package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ImportUseCase importación masiva de productos. Cada fila es atómica: producto y su
// transacción de saldo inicial se crean juntos o no se crea nada.
type ImportUseCase struct {
	txRunner repository.TxRunner
	cache    ReadCache
	now      func() time.Time
}

// NewImportUseCase construye el caso de uso. cache puede ser nil.
func NewImportUseCase(txRunner repository.TxRunner, cache ReadCache) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner, cache: cache, now: time.Now}
}

// Import procesa las filas en orden y reporta el resultado de cada una.
// Códigos ya existentes se omiten; valores numéricos ilegibles valen 0.
func (uc *ImportUseCase) Import(ctx context.Context, actorID string, in dto.ImportProductsRequest) (*dto.ImportProductsResponse, error) {
	out := &dto.ImportProductsResponse{Results: make([]dto.ImportRowResult, 0, len(in.Rows))}

	for i, row := range in.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := dto.ImportRowResult{Row: i + 1, Code: strings.TrimSpace(row.Code)}
		productID, err := uc.importRow(ctx, actorID, row)
		switch {
		case err == nil:
			res.Status = dto.ImportStatusCreated
			res.ProductID = productID
			out.Created++
		case errors.Is(err, domain.ErrDuplicate):
			res.Status = dto.ImportStatusDuplicate
			out.Skipped++
		default:
			res.Status = dto.ImportStatusError
			res.Error = err.Error()
			out.Failed++
			log.Warn().Err(err).Int("row", res.Row).Str("code", res.Code).Msg("import: fila rechazada")
		}
		out.Results = append(out.Results, res)
	}

	if out.Created > 0 && uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			log.Warn().Err(err).Msg("cache: no se pudo invalidar la versión de stock")
		}
	}
	return out, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, actorID string, row dto.ImportProductRow) (string, error) {
	code, name := strings.TrimSpace(row.Code), strings.TrimSpace(row.Name)
	if code == "" || name == "" {
		return "", fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	threshold := domaininv.CoerceQuantity(row.LowStockThreshold)
	opening := domaininv.CoerceQuantity(row.OpeningQuantity)
	if threshold.IsNegative() || opening.IsNegative() {
		return "", fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if !domaininv.FitsScale(threshold) || !domaininv.FitsScale(opening) {
		return "", fmt.Errorf("%w: más de %d decimales o fuera de rango", domain.ErrInvalidInput, domaininv.QuantityScale)
	}
	locationName := strings.TrimSpace(row.Location)
	if opening.IsPositive() && locationName == "" {
		return "", fmt.Errorf("%w: ubicación requerida para el saldo inicial", domain.ErrInvalidInput)
	}

	now := uc.now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Code:              code,
		Name:              name,
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		existing, err := repos.Products.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if !opening.IsPositive() {
			return nil
		}
		loc, err := repos.Locations.GetByName(ctx, locationName)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("%w: ubicación desconocida %q", domain.ErrInvalidInput, locationName)
		}
		openingTx := &entity.Transaction{
			ID:         uuid.New().String(),
			ProductID:  product.ID,
			LocationID: loc.ID,
			Type:       entity.TransactionInward,
			Quantity:   opening,
			Party:      domaininv.OpeningBalanceParty,
			CreatedAt:  now,
		}
		if _, perr := uuid.Parse(actorID); perr == nil {
			openingTx.CreatedBy = actorID
		}
		return repos.Transactions.Create(ctx, openingTx)
	})
	if err != nil {
		return "", err
	}
	return product.ID, nil
}
