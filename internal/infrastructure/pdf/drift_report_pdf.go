// Package pdf implementa la exportación del reporte de conciliación de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de conciliación │ Negocio + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: alcances verificados / descuadrados / hallazgos    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Lote | Bodega | Esperado | Real | Delta   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HALLAZGOS: tipo + referencia + mensaje                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// Ensure DriftReportPDF implements inventory.DriftReportRenderer.
var _ inventory.DriftReportRenderer = (*DriftReportPDF)(nil)

// DriftReportPDF implementa inventory.DriftReportRenderer usando Maroto v2.
type DriftReportPDF struct{}

// NewDriftReportPDF construye el renderer.
func NewDriftReportPDF() *DriftReportPDF { return &DriftReportPDF{} }

// Render genera el PDF y devuelve sus bytes.
func (g *DriftReportPDF) Render(report *dto.ReconciliationReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de conciliación de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(resultRows(report.Results)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(findingRows(report.Findings)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.ReconciliationReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE CONCILIACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario por producto, lote y bodega", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Negocio: "+report.BusinessID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(report *dto.ReconciliationReportDTO) core.Row {
	status := "Sin descuadres"
	statusColor := colorPrimary
	if report.Imbalanced > 0 || len(report.Findings) > 0 {
		status = "Con descuadres"
		statusColor = colorAlert
	}
	return row.New(12).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("Alcances verificados: %d   |   Descuadrados: %d   |   Hallazgos: %d",
				report.Checked, report.Imbalanced, len(report.Findings),
			), props.Text{Size: 8, Top: 4, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: statusColor, Top: 3,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Lote", 2, align.Left),
		h("Bodega", 2, align.Left),
		h("Esperado", 2, align.Right),
		h("Real", 2, align.Right),
		h("Delta", 1, align.Right),
	)
}

// resultRows una fila por alcance verificado; los descuadrados se resaltan.
func resultRows(results []dto.ReconciliationResultDTO) []core.Row {
	out := make([]core.Row, 0, len(results))
	for _, r := range results {
		cell := props.Text{Size: 8, Top: 1, Left: 1}
		num := props.Text{Size: 8, Top: 1, Right: 1, Align: align.Right}
		if !r.Balanced {
			cell.Color, num.Color = colorAlert, colorAlert
			cell.Style, num.Style = fontstyle.Bold, fontstyle.Bold
		}
		out = append(out, row.New(6).Add(
			col.New(3).Add(text.New(r.ProductID, cell)),
			col.New(2).Add(text.New(nonEmpty(r.BatchID, "todos"), cell)),
			col.New(2).Add(text.New(nonEmpty(r.WarehouseID, "todas"), cell)),
			col.New(2).Add(text.New(formatUnits(r.Expected), num)),
			col.New(2).Add(text.New(formatUnits(r.Actual), num)),
			col.New(1).Add(text.New(formatUnits(r.Delta), num)),
		))
	}
	return out
}

func findingRows(findings []dto.DriftFindingDTO) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("HALLAZGOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(findings) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("No se encontraron descuadres.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	for _, f := range findings {
		rows = append(rows, row.New(8).Add(
			col.New(3).Add(text.New(f.Kind, props.Text{
				Style: fontstyle.Bold, Size: 7.5, Color: colorAlert, Top: 1, Left: 1,
			})),
			col.New(2).Add(text.New(nonEmpty(f.Reference, "-"), props.Text{Size: 7.5, Top: 1})),
			col.New(7).Add(text.New(f.Message, props.Text{Size: 7.5, Color: colorGray, Top: 1})),
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

// unitsPrinter formatea cantidades con separador de miles en español.
var unitsPrinter = message.NewPrinter(language.Spanish)

// formatUnits inserta puntos de miles conservando el signo.
// Ej: 25000 → "25.000", -1200 → "-1.200"
func formatUnits(n int64) string {
	return unitsPrinter.Sprintf("%d", n)
}
