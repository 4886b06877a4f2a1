package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cache"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

type seeded struct {
	store  *memory.Store
	loader *inventory.SnapshotLoader
	p      *entity.Product
	office *entity.Location
	godown *entity.Location
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seed escenario: P001 umbral 10; +50 Office, -20 Office, +5 Godown.
func seed(t *testing.T) *seeded {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	office := &entity.Location{ID: uuid.NewString(), Name: "Office", CreatedAt: t0}
	godown := &entity.Location{ID: uuid.NewString(), Name: "Godown", CreatedAt: t0}
	require.NoError(t, s.Locations().Create(ctx, office))
	require.NoError(t, s.Locations().Create(ctx, godown))
	p := &entity.Product{ID: uuid.NewString(), Code: "P001", Name: "Tornillo", LowStockThreshold: dec("10"), CreatedAt: t0}
	require.NoError(t, s.Products().Create(ctx, p))

	add := func(loc *entity.Location, typ, q string, h int) {
		require.NoError(t, s.Transactions().Create(ctx, &entity.Transaction{
			ID: uuid.NewString(), ProductID: p.ID, LocationID: loc.ID, Type: typ, Quantity: dec(q),
			CreatedAt: t0.Add(time.Duration(h) * time.Hour),
		}))
	}
	add(office, entity.TransactionInward, "50", 1)
	add(office, entity.TransactionOutward, "20", 2)
	add(godown, entity.TransactionInward, "5", 3)

	return &seeded{
		store:  s,
		loader: inventory.NewSnapshotLoader(s.Products(), s.Locations(), s.Transactions()),
		p:      p,
		office: office,
		godown: godown,
	}
}

func redisCache(t *testing.T) *cache.StockCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute)
}

type brokenCache struct{}

func (brokenCache) BuildKey(context.Context, ...string) (string, error) { return "k", nil }
func (brokenCache) FetchJSON(context.Context, string, any, func(context.Context) (any, error)) error {
	return errors.New("redis caído")
}
func (brokenCache) Bump(context.Context) error { return errors.New("redis caído") }

// ──────────────────────────────────────────────────────────────────────────────
// StockUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestStockUseCase_ProductStockYLedger(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	uc := inventory.NewStockUseCase(sd.loader, sd.store.Products(), nil)

	stock, err := uc.ProductStock(ctx, sd.p.ID)
	require.NoError(t, err)
	assert.True(t, stock.Total.Equal(dec("35")))
	assert.False(t, stock.LowStock)
	assert.Equal(t, dto.StockStatusOK, stock.Status)
	require.Len(t, stock.Locations, 2)
	assert.Equal(t, "Godown", stock.Locations[0].LocationName)
	assert.True(t, stock.Locations[0].Quantity.Equal(dec("5")))
	assert.True(t, stock.Locations[1].Quantity.Equal(dec("30")))

	ledger, err := uc.ProductLedger(ctx, sd.p.ID)
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 3)
	assert.True(t, ledger.Rows[0].Balance.Equal(dec("50")))
	assert.True(t, ledger.Rows[1].Balance.Equal(dec("30")))
	assert.True(t, ledger.Rows[2].Balance.Equal(dec("35")))
	assert.True(t, ledger.Balance.Equal(dec("35")))

	_, err = uc.ProductLedger(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_LocationBalanceSinMayusculas(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	uc := inventory.NewStockUseCase(sd.loader, sd.store.Products(), nil)

	got, err := uc.LocationBalance(ctx, sd.p.ID, "godown")
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(dec("5")))

	got, err = uc.LocationBalance(ctx, sd.p.ID, "Warehouse")
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestStockUseCase_ScanLookup(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	uc := inventory.NewStockUseCase(sd.loader, sd.store.Products(), nil)

	scan, err := uc.ScanLookup(ctx, "P001")
	require.NoError(t, err)
	assert.True(t, scan.Stock.Total.Equal(dec("35")))
	require.Len(t, scan.History, 3)
	assert.True(t, scan.History[0].CreatedAt.After(scan.History[2].CreatedAt), "más reciente primero")
	assert.Equal(t, "Godown", scan.History[0].LocationName)
	assert.Equal(t, scan.Locations[0].ID, scan.DefaultLocationID)

	_, err = uc.ScanLookup(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockUseCase_StockListConCacheEInvalidacion(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	c := redisCache(t)
	uc := inventory.NewStockUseCase(sd.loader, sd.store.Products(), c)

	first, err := uc.StockList(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.True(t, first.Items[0].Total.Equal(dec("35")))
	require.Len(t, first.Locations, 2)

	// escritura directa sin invalidar: la lectura cacheada no cambia
	require.NoError(t, sd.store.Transactions().Create(ctx, &entity.Transaction{
		ID: uuid.NewString(), ProductID: sd.p.ID, LocationID: sd.office.ID,
		Type: entity.TransactionOutward, Quantity: dec("30"), CreatedAt: t0.Add(4 * time.Hour),
	}))
	cached, err := uc.StockList(ctx, "")
	require.NoError(t, err)
	assert.True(t, cached.Items[0].Total.Equal(dec("35")))

	require.NoError(t, c.Bump(ctx))
	fresh, err := uc.StockList(ctx, "")
	require.NoError(t, err)
	assert.True(t, fresh.Items[0].Total.Equal(dec("5")))
	assert.True(t, fresh.Items[0].LowStock)
	assert.Equal(t, dto.StockStatusLow, fresh.Items[0].Status)

	none, err := uc.StockList(ctx, "arandela")
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestStockUseCase_CacheCaidaCalculaDirecto(t *testing.T) {
	sd := seed(t)
	uc := inventory.NewStockUseCase(sd.loader, sd.store.Products(), brokenCache{})

	ledger, err := uc.ProductLedger(context.Background(), sd.p.ID)
	require.NoError(t, err)
	assert.True(t, ledger.Balance.Equal(dec("35")))
}

// ──────────────────────────────────────────────────────────────────────────────
// ImportUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestImportUseCase_SaldoInicialYFilasInvalidas(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	uc := inventory.NewImportUseCase(sd.store.TxRunner(), nil)

	res, err := uc.Import(ctx, "", dto.ImportProductsRequest{Rows: []dto.ImportProductRow{
		{Code: "P010", Name: "Arandela", LowStockThreshold: "4", OpeningQuantity: 12.0, Location: "GODOWN"},
		{Code: "P001", Name: "Duplicado"},
		{Code: "P011", Name: "Clavo", OpeningQuantity: "abc", Location: "Office"},
		{Code: "P012", Name: "Tuerca", OpeningQuantity: "3", Location: "Azotea"},
		{Code: "", Name: "Sin código"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, dto.ImportStatusDuplicate, res.Results[1].Status)
	assert.Equal(t, dto.ImportStatusError, res.Results[3].Status)
	assert.Contains(t, res.Results[3].Error, "Azotea")

	p, err := sd.store.Products().GetByCode(ctx, "P010")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.LowStockThreshold.Equal(dec("4")))

	txs, err := sd.store.Transactions().ListAll(ctx)
	require.NoError(t, err)
	rows := domaininv.BuildLedger(p.ID, txs)
	require.Len(t, rows, 1)
	assert.Equal(t, domaininv.OpeningBalanceParty, rows[0].Transaction.Party)
	assert.Equal(t, "Godown", rows[0].Transaction.LocationName)
	assert.True(t, rows[0].Balance.Equal(dec("12")))

	failed, err := sd.store.Products().GetByCode(ctx, "P012")
	require.NoError(t, err)
	assert.Nil(t, failed, "la fila fallida no deja producto huérfano")

	clavo, err := sd.store.Products().GetByCode(ctx, "P011")
	require.NoError(t, err)
	require.NotNil(t, clavo, "cantidad ilegible vale 0: se crea sin saldo inicial")
	assert.True(t, domaininv.AggregateBalance(clavo.ID, txs).IsZero())
}

func TestImportUseCase_CantidadesConMasDeCuatroDecimales(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	uc := inventory.NewImportUseCase(sd.store.TxRunner(), nil)

	res, err := uc.Import(ctx, "", dto.ImportProductsRequest{Rows: []dto.ImportProductRow{
		{Code: "P020", Name: "Cable", OpeningQuantity: "0.00004", Location: "Office"},
		{Code: "P021", Name: "Cinta", LowStockThreshold: "0.00001"},
		{Code: "P022", Name: "Grapa", OpeningQuantity: "1.50000", Location: "Office"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, dto.ImportStatusError, res.Results[0].Status)
	assert.Equal(t, dto.ImportStatusError, res.Results[1].Status)

	rejected, err := sd.store.Products().GetByCode(ctx, "P020")
	require.NoError(t, err)
	assert.Nil(t, rejected)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReportUseCase
// ──────────────────────────────────────────────────────────────────────────────

type fakeRenderer struct {
	labels []inventory.LabelItem
	ledger inventory.LedgerReport
}

func (f *fakeRenderer) RenderLabels(_ context.Context, items []inventory.LabelItem) ([]byte, error) {
	f.labels = items
	return []byte("%PDF-labels"), nil
}

func (f *fakeRenderer) RenderLedger(_ context.Context, r inventory.LedgerReport) ([]byte, error) {
	f.ledger = r
	return []byte("%PDF-ledger"), nil
}

func TestReportUseCase(t *testing.T) {
	ctx := context.Background()
	sd := seed(t)
	require.NoError(t, sd.store.Products().Create(ctx, &entity.Product{ID: uuid.NewString(), Code: "P002", Name: "Arandela"}))
	r := &fakeRenderer{}
	uc := inventory.NewReportUseCase(sd.loader, r)

	_, err := uc.Labels(ctx, nil)
	require.NoError(t, err)
	require.Len(t, r.labels, 2)
	assert.Equal(t, "P002", r.labels[0].Code, "ordenadas por nombre")

	_, err = uc.Labels(ctx, []string{sd.p.ID})
	require.NoError(t, err)
	require.Len(t, r.labels, 1)

	pdf, code, err := uc.LedgerPDF(ctx, sd.p.ID)
	require.NoError(t, err)
	assert.Equal(t, "P001", code)
	assert.Equal(t, "%PDF-ledger", string(pdf))
	assert.True(t, r.ledger.Balance.Equal(dec("35")))
	assert.Len(t, r.ledger.Rows, 3)
	assert.False(t, r.ledger.LowStock)

	_, _, err = uc.LedgerPDF(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
