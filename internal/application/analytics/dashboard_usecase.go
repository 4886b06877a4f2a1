// Package analytics contiene los casos de uso del dashboard de inventario.
package analytics

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// DashboardUseCase genera el resumen del inventario: tarjetas, entradas vs salidas,
// distribución por ubicación y tabla de productos con estado.
//
// Fuente de datos: instantánea completa del log (SnapshotLoader) reducida por el motor del mayor.
// Los totales son históricos, sin ventana de tiempo.
type DashboardUseCase struct {
	loader *inventory.SnapshotLoader
	cache  inventory.ReadCache
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(loader *inventory.SnapshotLoader, cache inventory.ReadCache) *DashboardUseCase {
	return &DashboardUseCase{loader: loader, cache: cache}
}

// GetSummary construye el DashboardSummaryResponse.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	return inventory.FetchCached(ctx, uc.cache, uc.compute, "dashboard")
}

func (uc *DashboardUseCase) compute(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	summary := domaininv.Summarize(snap.Products, snap.Transactions)
	balances := domaininv.AggregateBalances(snap.Transactions)

	out := &dto.DashboardSummaryResponse{
		TotalProducts: summary.TotalProducts,
		LowStockCount: summary.LowStockCount,
		TotalQuantity: summary.TotalQuantity,
		Movement: dto.MovementOverview{
			Inward:  summary.TotalInward,
			Outward: summary.TotalOutward,
		},
		LocationDistribution: make([]dto.LocationStockResponse, 0, len(snap.Locations)),
		Products:             make([]dto.ProductStockResponse, 0, len(snap.Products)),
	}
	for _, b := range domaininv.LocationDistribution(snap.Locations, snap.Transactions) {
		out.LocationDistribution = append(out.LocationDistribution, dto.LocationStockResponse{
			LocationID: b.LocationID, LocationName: b.LocationName, Quantity: b.Balance,
		})
	}
	for i := range snap.Products {
		p := &snap.Products[i]
		out.Products = append(out.Products, inventory.BuildProductStock(p, snap, balances[p.ID]))
	}
	return out, nil
}
