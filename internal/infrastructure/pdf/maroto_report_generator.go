// Package pdf genera los reportes imprimibles del inventario con Maroto v2.
//
// Hoja de etiquetas A4 (3 por fila):
//
//	┌───────────────┬───────────────┬───────────────┐
//	│      QR       │      QR       │      QR       │
//	│     P001      │     P002      │     P003      │
//	│    Nombre     │    Nombre     │    Nombre     │
//	└───────────────┴───────────────┴───────────────┘
//
// Mayor de producto: encabezado, tabla con saldo corrido y saldos por ubicación.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appinventory "github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

const labelsPerRow = 3

var _ appinventory.ReportRenderer = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.ReportRenderer usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// RenderLabels hoja de etiquetas QR. El QR contiene solo el código del producto.
func (g *MarotoReportGenerator) RenderLabels(_ context.Context, items []appinventory.LabelItem) ([]byte, error) {
	m := newDocument("Etiquetas QR")

	if len(items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay productos para imprimir.", props.Text{Size: 10, Align: align.Center, Color: colorGray}),
		)))
	}

	for start := 0; start < len(items); start += labelsPerRow {
		end := start + labelsPerRow
		if end > len(items) {
			end = len(items)
		}
		m.AddRows(labelRow(items[start:end]))
		m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.1}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

func labelRow(items []appinventory.LabelItem) core.Row {
	return row.New(52).Add(labelCols(items)...)
}

// labelCols QR arriba, código y nombre debajo dentro de la misma celda.
func labelCols(items []appinventory.LabelItem) []core.Col {
	cols := make([]core.Col, 0, labelsPerRow)
	for _, it := range items {
		cols = append(cols, col.New(12/labelsPerRow).Add(
			code.NewQr(it.Code, props.Rect{Percent: 70, Center: true}),
			text.New(it.Code, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 40}),
			text.New(it.Name, props.Text{Size: 8, Align: align.Center, Top: 45, Color: colorGray}),
		))
	}
	for len(cols) < labelsPerRow {
		cols = append(cols, col.New(12/labelsPerRow))
	}
	return cols
}

// RenderLedger mayor de un producto con saldo corrido.
func (g *MarotoReportGenerator) RenderLedger(_ context.Context, report appinventory.LedgerReport) ([]byte, error) {
	m := newDocument("Mayor " + report.Product.Code)

	m.AddRows(ledgerHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(ledgerTableHeaderRow())
	if len(report.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin transacciones registradas.", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		)))
	}
	for _, r := range report.Rows {
		m.AddRows(ledgerDetailRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range locationRows(report) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar mayor: %w", err)
	}
	return doc.GetBytes(), nil
}

func ledgerHeaderRow(report appinventory.LedgerReport) core.Row {
	status := "OK"
	statusColor := colorPrimary
	if report.LowStock {
		status = "STOCK BAJO"
		statusColor = colorRed
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(report.Product.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Código: "+report.Product.Code, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Saldo: "+report.Balance.String(), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 8, Color: statusColor}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func ledgerTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Ubicación", 2, align.Left),
		h("Contraparte", 3, align.Left),
		h("Cantidad", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

func ledgerDetailRow(r domaininv.LedgerRow) core.Row {
	t := r.Transaction
	kind := "Entrada"
	if t.Type != entity.TransactionInward {
		kind = "Salida"
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(t.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Top: 1, Left: 1})),
		col.New(1).Add(text.New(kind, props.Text{Size: 7, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(nonEmpty(t.LocationName, "-"), props.Text{Size: 7, Top: 1, Left: 1})),
		col.New(3).Add(text.New(nonEmpty(t.Party, "-"), props.Text{Size: 7, Top: 1, Left: 1})),
		col.New(2).Add(text.New(r.Delta.String(), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(r.Balance.String(), props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 1, Right: 1})),
	)
}

func locationRows(report appinventory.LedgerReport) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("SALDO POR UBICACIÓN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, lb := range report.ByLocation {
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(lb.LocationName, props.Text{Size: 8, Left: 2})),
			col.New(4).Add(text.New(lb.Balance.String(), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
