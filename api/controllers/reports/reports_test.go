package reports

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	internalreports "github.com/angelmondragon/gestor-pedidos/internal/reports"
	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

type stubReports struct {
	gotDate  string
	gotLimit int
}

func (s *stubReports) InventoryVsOrders(ctx context.Context, date string) ([]internalreports.ProductReconciliation, error) {
	s.gotDate = date
	return []internalreports.ProductReconciliation{{ProductCode: 7, Status: enums.InventoryStatusInsufficient}}, nil
}

func (s *stubReports) Summary(ctx context.Context, date string) (internalreports.InventorySummary, error) {
	s.gotDate = date
	return internalreports.InventorySummary{Date: date, CoveragePercent: 100}, nil
}

func (s *stubReports) CriticalProducts(ctx context.Context, limit int) ([]internalreports.CriticalProduct, error) {
	s.gotLimit = limit
	return []internalreports.CriticalProduct{}, nil
}

func (s *stubReports) Workbook(ctx context.Context, date string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "hola"); err != nil {
		return nil, err
	}
	return f, nil
}

func TestInventoryVsOrdersPassesDate(t *testing.T) {
	svc := &stubReports{}
	rec := httptest.NewRecorder()
	InventoryVsOrders(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/inventario-vs-pedidos?fecha=2025-03-14", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-14", svc.gotDate)
	assert.Contains(t, rec.Body.String(), `"estado":"INSUFFICIENT"`)
}

func TestSummaryRejectsBadDate(t *testing.T) {
	rec := httptest.NewRecorder()
	Summary(&stubReports{}, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/resumen-inventario?fecha=14-03-2025", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCriticalProductsLimit(t *testing.T) {
	svc := &stubReports{}

	rec := httptest.NewRecorder()
	CriticalProducts(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/productos-criticos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, internalreports.DefaultCriticalLimit, svc.gotLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	CriticalProducts(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/productos-criticos?limite=3", nil))
	assert.Equal(t, 3, svc.gotLimit)

	rec = httptest.NewRecorder()
	CriticalProducts(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/productos-criticos?limite=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkbookIsAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Workbook(&stubReports{}, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/reporte/inventario.xlsx?fecha=2025-03-14", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, internalreports.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="inventario_2025-03-14.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	value, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "hola", value)
}
