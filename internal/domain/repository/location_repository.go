package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetByName busca sin distinguir mayúsculas/minúsculas.
	GetByName(ctx context.Context, name string) (*entity.Location, error)
	// List ordena por nombre.
	List(ctx context.Context) ([]*entity.Location, error)
}
