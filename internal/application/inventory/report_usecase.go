package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// ReportUseCase reportes imprimibles: hoja de etiquetas QR y mayor de producto en PDF.
type ReportUseCase struct {
	loader   *SnapshotLoader
	renderer ReportRenderer
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(loader *SnapshotLoader, renderer ReportRenderer) *ReportUseCase {
	return &ReportUseCase{loader: loader, renderer: renderer, now: time.Now}
}

// Labels PDF con una etiqueta QR por producto, ordenadas por nombre.
// Si ids no está vacío solo se incluyen esos productos.
func (uc *ReportUseCase) Labels(ctx context.Context, ids []string) ([]byte, error) {
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	items := make([]LabelItem, 0, len(snap.Products))
	for _, p := range snap.Products {
		if len(wanted) > 0 && !wanted[p.ID] {
			continue
		}
		items = append(items, LabelItem{Code: p.Code, Name: p.Name})
	}
	return uc.renderer.RenderLabels(ctx, items)
}

// LedgerPDF mayor de un producto en PDF. Devuelve también el código para nombrar el archivo.
func (uc *ReportUseCase) LedgerPDF(ctx context.Context, productID string) ([]byte, string, error) {
	snap, err := uc.loader.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	p := snap.ProductByID(productID)
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	rows := domaininv.BuildLedger(p.ID, snap.Transactions)
	report := LedgerReport{
		Product:     *p,
		Balance:     domaininv.AggregateBalance(p.ID, snap.Transactions),
		Rows:        rows,
		ByLocation:  domaininv.StockByLocation(p.ID, snap.Locations, snap.Transactions),
		GeneratedAt: uc.now(),
	}
	report.LowStock = domaininv.IsLowStock(*p, report.Balance)

	pdf, err := uc.renderer.RenderLedger(ctx, report)
	if err != nil {
		return nil, "", err
	}
	return pdf, p.Code, nil
}
