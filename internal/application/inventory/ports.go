package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// ReadCache caché versionada de lecturas derivadas. Implementaciones deben tolerar receptor nil.
type ReadCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Bump(ctx context.Context) error
}

// LabelItem una etiqueta QR: el QR lleva solo Code.
type LabelItem struct {
	Code string
	Name string
}

// LedgerReport datos del PDF de mayor de un producto.
type LedgerReport struct {
	Product     entity.Product
	Balance     decimal.Decimal
	LowStock    bool
	Rows        []domaininv.LedgerRow
	ByLocation  []domaininv.LocationBalance
	GeneratedAt time.Time
}

// ReportRenderer genera los PDF imprimibles.
type ReportRenderer interface {
	RenderLabels(ctx context.Context, items []LabelItem) ([]byte, error)
	RenderLedger(ctx context.Context, report LedgerReport) ([]byte, error)
}
