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
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// LocationUseCase casos de uso de ubicaciones. Los nombres son únicos sin distinguir mayúsculas.
type LocationUseCase struct {
	repo  repository.LocationRepository
	cache StockInvalidator
}

// NewLocationUseCase construye el caso de uso. cache puede ser nil.
func NewLocationUseCase(repo repository.LocationRepository, cache StockInvalidator) *LocationUseCase {
	return &LocationUseCase{repo: repo, cache: cache}
}

// Create registra una ubicación.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	loc := &entity.Location{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache)
	out := dto.NewLocationResponse(loc)
	return &out, nil
}

// EnsureDefaults crea las ubicaciones indicadas que falten. Devuelve cuántas creó.
func (uc *LocationUseCase) EnsureDefaults(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, n := range names {
		_, err := uc.Create(ctx, dto.CreateLocationRequest{Name: n})
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrInvalidInput):
			// ya existe o nombre vacío
		default:
			return created, err
		}
	}
	return created, nil
}

// GetByID obtiene una ubicación.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewLocationResponse(loc)
	return &out, nil
}

// List devuelve todas las ubicaciones ordenadas por nombre.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewLocationResponses(list), nil
}
