package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// scanHistoryLimit movimientos recientes devueltos al escanear un QR.
const scanHistoryLimit = 50

// StockUseCase camino de lectura: saldos, mayores y escaneo, calculados por el motor sobre una instantánea.
type StockUseCase struct {
	loader   *SnapshotLoader
	products repository.ProductRepository
	cache    ReadCache
}

// NewStockUseCase construye el caso de uso. cache puede ser nil.
func NewStockUseCase(loader *SnapshotLoader, products repository.ProductRepository, cache ReadCache) *StockUseCase {
	return &StockUseCase{loader: loader, products: products, cache: cache}
}

// ProductLedger mayor de un producto con saldo corrido.
func (uc *StockUseCase) ProductLedger(ctx context.Context, productID string) (*dto.LedgerResponse, error) {
	return FetchCached(ctx, uc.cache, func(ctx context.Context) (*dto.LedgerResponse, error) {
		snap, err := uc.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		p := snap.ProductByID(productID)
		if p == nil {
			return nil, domain.ErrNotFound
		}
		return BuildLedgerResponse(p, snap), nil
	}, "ledger", productID)
}

// ProductStock saldo agregado, por ubicación y estado de un producto.
func (uc *StockUseCase) ProductStock(ctx context.Context, productID string) (*dto.ProductStockResponse, error) {
	return FetchCached(ctx, uc.cache, func(ctx context.Context) (*dto.ProductStockResponse, error) {
		snap, err := uc.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		p := snap.ProductByID(productID)
		if p == nil {
			return nil, domain.ErrNotFound
		}
		out := BuildProductStock(p, snap, domaininv.AggregateBalance(p.ID, snap.Transactions))
		return &out, nil
	}, "product", productID)
}

// StockList todos los productos con una columna por ubicación; search filtra por código o nombre.
func (uc *StockUseCase) StockList(ctx context.Context, search string) (*dto.StockListResponse, error) {
	search = strings.TrimSpace(search)
	return FetchCached(ctx, uc.cache, func(ctx context.Context) (*dto.StockListResponse, error) {
		snap, err := uc.loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		balances := domaininv.AggregateBalances(snap.Transactions)
		needle := strings.ToLower(search)
		out := &dto.StockListResponse{
			Locations: make([]dto.LocationResponse, 0, len(snap.Locations)),
			Items:     make([]dto.ProductStockResponse, 0, len(snap.Products)),
		}
		for i := range snap.Locations {
			out.Locations = append(out.Locations, dto.NewLocationResponse(&snap.Locations[i]))
		}
		for i := range snap.Products {
			p := &snap.Products[i]
			if needle != "" && !strings.Contains(strings.ToLower(p.Code), needle) && !strings.Contains(strings.ToLower(p.Name), needle) {
				continue
			}
			out.Items = append(out.Items, BuildProductStock(p, snap, balances[p.ID]))
		}
		return out, nil
	}, "list", strings.ToLower(search))
}

// LocationBalance saldo de un producto en una ubicación dada por nombre libre (sin distinguir mayúsculas).
func (uc *StockUseCase) LocationBalance(ctx context.Context, productID, location string) (*dto.LocationBalanceResponse, error) {
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.ProductByID(productID) == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.LocationBalanceResponse{
		ProductID: productID,
		Location:  location,
		Quantity:  domaininv.LocationBalanceByName(productID, location, snap.Transactions),
	}, nil
}

// ScanLookup resuelve un código escaneado: producto, stock, ubicaciones (la primera es la
// predeterminada para registrar) y los movimientos más recientes primero.
func (uc *StockUseCase) ScanLookup(ctx context.Context, code string) (*dto.ScanResponse, error) {
	p, err := uc.products.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := domaininv.BuildLedger(p.ID, snap.Transactions)
	history := make([]dto.TransactionResponse, 0, scanHistoryLimit)
	for i := len(rows) - 1; i >= 0 && len(history) < scanHistoryLimit; i-- {
		history = append(history, dto.NewTransactionResponse(&rows[i].Transaction, p))
	}
	total := decimal.Zero
	if len(rows) > 0 {
		total = rows[len(rows)-1].Balance
	}

	out := &dto.ScanResponse{
		Stock:     BuildProductStock(p, snap, total),
		Locations: make([]dto.LocationResponse, 0, len(snap.Locations)),
		History:   history,
	}
	for i := range snap.Locations {
		out.Locations = append(out.Locations, dto.NewLocationResponse(&snap.Locations[i]))
	}
	if len(out.Locations) > 0 {
		out.DefaultLocationID = out.Locations[0].ID
	}
	return out, nil
}

// BuildProductStock fila de la tabla de stock para un producto.
func BuildProductStock(p *entity.Product, snap *Snapshot, total decimal.Decimal) dto.ProductStockResponse {
	low := domaininv.IsLowStock(*p, total)
	byLoc := domaininv.StockByLocation(p.ID, snap.Locations, snap.Transactions)
	locs := make([]dto.LocationStockResponse, 0, len(byLoc))
	for _, b := range byLoc {
		locs = append(locs, dto.LocationStockResponse{LocationID: b.LocationID, LocationName: b.LocationName, Quantity: b.Balance})
	}
	return dto.ProductStockResponse{
		Product:   dto.NewProductResponse(p),
		Total:     total.Add(decimal.Zero),
		LowStock:  low,
		Status:    dto.StockStatus(low),
		Locations: locs,
	}
}

// BuildLedgerResponse mayor de p sobre la instantánea.
func BuildLedgerResponse(p *entity.Product, snap *Snapshot) *dto.LedgerResponse {
	rows := domaininv.BuildLedger(p.ID, snap.Transactions)
	out := &dto.LedgerResponse{
		Product: dto.NewProductResponse(p),
		Balance: decimal.Zero,
		Rows:    make([]dto.LedgerRowResponse, 0, len(rows)),
	}
	for i := range rows {
		out.Rows = append(out.Rows, dto.LedgerRowResponse{
			Transaction: dto.NewTransactionResponse(&rows[i].Transaction, p),
			Delta:       rows[i].Delta,
			Balance:     rows[i].Balance,
		})
	}
	if len(rows) > 0 {
		out.Balance = rows[len(rows)-1].Balance
	}
	out.LowStock = domaininv.IsLowStock(*p, out.Balance)
	return out
}

// FetchCached sirve desde la caché si está disponible; ante fallas de Redis calcula directo.
func FetchCached[T any](ctx context.Context, cache ReadCache, loader func(context.Context) (*T, error), parts ...string) (*T, error) {
	if cache == nil {
		return loader(ctx)
	}
	key, err := cache.BuildKey(ctx, parts...)
	if err != nil {
		log.Warn().Err(err).Msg("cache: no se pudo construir la clave")
		return loader(ctx)
	}
	var (
		out       T
		loaderErr error
	)
	err = cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		v, err := loader(ctx)
		loaderErr = err
		return v, err
	})
	if err != nil {
		if loaderErr != nil {
			return nil, loaderErr
		}
		log.Warn().Err(err).Str("key", key).Msg("cache: lectura fallida, se calcula sin caché")
		return loader(ctx)
	}
	return &out, nil
}
