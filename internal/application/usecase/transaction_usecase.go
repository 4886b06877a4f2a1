package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReversalPartyPrefix prefijo de la contraparte de una reversión.
const ReversalPartyPrefix = "Reversal: "

// TransactionUseCase camino de escritura del log de transacciones.
// Valida dirección, cantidad positiva y existencia de producto y ubicación antes de persistir.
type TransactionUseCase struct {
	txRepo       repository.TransactionRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	cache        StockInvalidator
	now          func() time.Time
}

// NewTransactionUseCase construye el caso de uso. cache puede ser nil.
func NewTransactionUseCase(
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	cache StockInvalidator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRepo:       txRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		cache:        cache,
		now:          time.Now,
	}
}

// Create registra un movimiento. actorID es el usuario autenticado (puede ser vacío).
func (uc *TransactionUseCase) Create(ctx context.Context, actorID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	t := &entity.Transaction{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Party:      strings.TrimSpace(in.Party),
		CreatedAt:  uc.now(),
	}
	if isUUID(actorID) {
		t.CreatedBy = actorID
	}
	product, err := uc.validate(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := uc.txRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache)
	return uc.reload(ctx, t.ID, product)
}

// Update edita un movimiento en sitio. El saldo de todo mayor afectado se recalcula en la siguiente lectura.
// Una reversión y un movimiento ya revertido no se editan (ErrConflict): la pareja debe seguir anulándose.
func (uc *TransactionUseCase) Update(ctx context.Context, id string, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUnpaired(ctx, t); err != nil {
		return nil, err
	}
	if in.ProductID != nil {
		t.ProductID = *in.ProductID
	}
	if in.LocationID != nil {
		t.LocationID = *in.LocationID
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	if in.Quantity != nil {
		t.Quantity = *in.Quantity
	}
	if in.Party != nil {
		t.Party = strings.TrimSpace(*in.Party)
	}
	product, err := uc.validate(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := uc.txRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache)
	return uc.reload(ctx, t.ID, product)
}

// Delete elimina un movimiento del log. Un original con reversión no se borra (ErrConflict);
// borrar la reversión sí está permitido y deja el original revertible de nuevo.
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) error {
	t, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	rev, err := uc.txRepo.GetReversalOf(ctx, t.ID)
	if err != nil {
		return err
	}
	if rev != nil {
		return domain.ErrConflict
	}
	if err := uc.txRepo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache)
	return nil
}

// Reverse agrega un movimiento opuesto que anula al original sin editar el historial.
// Una transacción solo se puede revertir una vez y una reversión no se revierte.
func (uc *TransactionUseCase) Reverse(ctx context.Context, actorID, id string) (*dto.TransactionResponse, error) {
	orig, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUnpaired(ctx, orig); err != nil {
		return nil, err
	}

	opposite := entity.TransactionOutward
	if orig.Type != entity.TransactionInward {
		opposite = entity.TransactionInward
	}
	rev := &entity.Transaction{
		ID:         uuid.New().String(),
		ProductID:  orig.ProductID,
		LocationID: orig.LocationID,
		Type:       opposite,
		Quantity:   orig.Quantity,
		Party:      ReversalPartyPrefix + orig.Party,
		CreatedAt:  uc.now(),
		ReversalOf: orig.ID,
	}
	if isUUID(actorID) {
		rev.CreatedBy = actorID
	}
	// Dos reversiones simultáneas pasan ensureUnpaired; el almacenamiento rechaza la segunda.
	if err := uc.txRepo.Create(ctx, rev); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	invalidate(ctx, uc.cache)
	product, err := uc.productRepo.GetByID(ctx, rev.ProductID)
	if err != nil {
		return nil, err
	}
	return uc.reload(ctx, rev.ID, product)
}

// GetByID obtiene un movimiento con su producto y ubicación resueltos.
func (uc *TransactionUseCase) GetByID(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	t, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, t.ProductID)
	if err != nil {
		return nil, err
	}
	out := dto.NewTransactionResponse(t, product)
	return &out, nil
}

// List historial más reciente primero, filtrable por producto o por nombre de producto.
func (uc *TransactionUseCase) List(ctx context.Context, in dto.TransactionListRequest) (*dto.TransactionListResponse, error) {
	in.DefaultPage()
	list, err := uc.txRepo.List(ctx, repository.TransactionFilter{
		ProductID: in.ProductID,
		Search:    in.Search,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewTransactionResponse(t, byID[t.ProductID]))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

func (uc *TransactionUseCase) find(ctx context.Context, id string) (*entity.Transaction, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	t, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// ensureUnpaired ErrConflict si t es una reversión o ya tiene una.
func (uc *TransactionUseCase) ensureUnpaired(ctx context.Context, t *entity.Transaction) error {
	if t.ReversalOf != "" {
		return domain.ErrConflict
	}
	rev, err := uc.txRepo.GetReversalOf(ctx, t.ID)
	if err != nil {
		return err
	}
	if rev != nil {
		return domain.ErrConflict
	}
	return nil
}

// validate reglas del camino de escritura; devuelve el producto referenciado.
func (uc *TransactionUseCase) validate(ctx context.Context, t *entity.Transaction) (*entity.Product, error) {
	if !entity.IsValidTransactionType(t.Type) || !t.Quantity.IsPositive() || !domaininv.FitsScale(t.Quantity) {
		return nil, domain.ErrInvalidInput
	}
	if !isUUID(t.ProductID) || !isUUID(t.LocationID) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, t.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(ctx, t.LocationID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// reload vuelve a leer para devolver Seq y nombre de ubicación resueltos por el almacenamiento.
func (uc *TransactionUseCase) reload(ctx context.Context, id string, product *entity.Product) (*dto.TransactionResponse, error) {
	t, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewTransactionResponse(t, product)
	return &out, nil
}
