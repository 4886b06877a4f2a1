package usecase

import (
	"context"

	"github.com/rs/zerolog/log"
)

// StockInvalidator invalida las lecturas derivadas cacheadas tras una escritura.
type StockInvalidator interface {
	Bump(ctx context.Context) error
}

// invalidate nunca falla la escritura: la caché expira por TTL de todos modos.
func invalidate(ctx context.Context, inv StockInvalidator) {
	if inv == nil {
		return
	}
	if err := inv.Bump(ctx); err != nil {
		log.Warn().Err(err).Msg("cache: no se pudo invalidar la versión de stock")
	}
}
