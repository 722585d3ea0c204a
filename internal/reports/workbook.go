package reports

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Resumen"
	SheetDetail  = "Detalle"

	// ContentTypeXLSX is served with the workbook download.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	msgWorkbookFailed = "Error al generar reporte"
)

var detailHeader = []any{
	"Código", "Producto", "Unidad", "Marca", "Inventario actual",
	"Cantidad vendida", "Inventario resultante", "Faltante", "Precio", "Estado",
}

// Workbook renders the day's summary and per-product detail as an xlsx file.
func (s *service) Workbook(ctx context.Context, date string) (*excelize.File, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.reconcile(ctx, day)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgReportFailed)
	}
	orders, err := s.repo.CountOrders(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgSummaryFailed)
	}
	summary := summarize(day.Format(DateLayout), rows, orders)

	f, err := buildWorkbook(summary, rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, msgWorkbookFailed)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"fecha": summary.Date, "productos": len(rows)}), "reports.workbook.generated")
	return f, nil
}

func buildWorkbook(summary InventorySummary, rows []ProductReconciliation) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetDetail); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	summaryRows := [][]any{
		{"Fecha", summary.Date},
		{"Productos vendidos", summary.ProductsSold},
		{"Con inventario suficiente", summary.Sufficient},
		{"Con inventario insuficiente", summary.Insufficient},
		{"Unidades faltantes", summary.ShortfallUnits},
		{"Pedidos del día", summary.OrdersOfDay},
		{"Cobertura (%)", summary.CoveragePercent},
	}
	for i, r := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summaryRows)), bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 30); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(SheetDetail, "A1", &detailHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetDetail, "A1", "J1", bold); err != nil {
		return nil, err
	}
	for i, r := range rows {
		brand := ""
		if r.Brand != nil {
			brand = *r.Brand
		}
		values := []any{
			r.ProductCode, r.ProductName, r.Unit, brand, r.OnHand,
			r.Sold, r.Resultant, r.Shortfall, r.Price, r.Status.String(),
		}
		if err := f.SetSheetRow(SheetDetail, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(SheetDetail, "B", "B", 32); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}
