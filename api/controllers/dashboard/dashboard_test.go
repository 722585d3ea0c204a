package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	internaldashboard "github.com/angelmondragon/gestor-pedidos/internal/dashboard"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

type stubDashboard struct {
	err error
}

func (s stubDashboard) Totals(ctx context.Context) (internaldashboard.Totals, error) {
	return internaldashboard.Totals{Customers: 85, Orders: 3, Products: 272}, s.err
}

func (s stubDashboard) CustomersByDepartment(ctx context.Context) ([]internaldashboard.DepartmentCount, error) {
	return []internaldashboard.DepartmentCount{{Department: "Guatemala", Total: 4}}, s.err
}

func (s stubDashboard) ProductsByBrand(ctx context.Context) ([]internaldashboard.BrandCount, error) {
	return []internaldashboard.BrandCount{{Brand: "Ina", Total: 9}}, s.err
}

func TestDashboardEndpoints(t *testing.T) {
	svc := stubDashboard{}

	rec := httptest.NewRecorder()
	Totals(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/totales", nil))
	assert.JSONEq(t, `{"clientes":85,"pedidos":3,"productos":272}`, rec.Body.String())

	rec = httptest.NewRecorder()
	CustomersByDepartment(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/clientes-por-departamento", nil))
	assert.JSONEq(t, `[{"departamento":"Guatemala","total":4}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	ProductsByBrand(svc, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/productos-por-marca", nil))
	assert.JSONEq(t, `[{"marca":"Ina","total":9}]`, rec.Body.String())
}

func TestDashboardErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	Totals(stubDashboard{err: errors.New("boom")}, logger.Nop())(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/totales", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
