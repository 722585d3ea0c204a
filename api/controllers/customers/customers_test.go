package customers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	internalcustomers "github.com/angelmondragon/gestor-pedidos/internal/customers"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

type stubCustomers struct {
	input     internalcustomers.Input
	deleteErr error
	deleted   bool
}

func (s *stubCustomers) List(ctx context.Context) ([]internalcustomers.CustomerView, error) {
	return []internalcustomers.CustomerView{{Code: 1, Name: "Ana"}}, nil
}

func (s *stubCustomers) Create(ctx context.Context, input internalcustomers.Input) (int64, error) {
	s.input = input
	return 3, nil
}

func (s *stubCustomers) Update(ctx context.Context, input internalcustomers.Input) error {
	s.input = input
	return nil
}

func (s *stubCustomers) Delete(ctx context.Context, code int64) (bool, error) {
	return s.deleted, s.deleteErr
}

func router(svc internalcustomers.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/listado_clientes", List(svc, logger.Nop()))
	r.Post("/insertar_cliente", Create(svc, logger.Nop()))
	r.Put("/actualizar_cliente", Update(svc, logger.Nop()))
	r.Delete("/eliminar_cliente/{codigo}", Delete(svc, logger.Nop()))
	return r
}

func TestCreateCustomer(t *testing.T) {
	svc := &stubCustomers{}
	body := `{"Nombre":"Ana","NIT":"CF","Municipio":"101","Departamento":1,"Nivel_Precio":2}`
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/insertar_cliente", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Cliente insertado correctamente"}`, rec.Body.String())
	assert.Equal(t, "Ana", svc.input.Name)
}

func TestUpdateCustomer(t *testing.T) {
	svc := &stubCustomers{}
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/actualizar_cliente", strings.NewReader(`{"Codigo":3,"Nombre":"Ana B"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana B", svc.input.Name)
}

func TestDeleteCustomerOutcomes(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&stubCustomers{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/eliminar_cliente/3", nil))
	assert.JSONEq(t, `{"success":false,"error":"No se encontró el cliente a eliminar"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router(&stubCustomers{deleted: true}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/eliminar_cliente/3", nil))
	assert.JSONEq(t, `{"success":true,"message":"Cliente eliminado correctamente"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	svc := &stubCustomers{deleteErr: pkgerrors.New(pkgerrors.CodeConflict, "El cliente tiene pedidos registrados")}
	router(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/eliminar_cliente/3", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCustomers(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&stubCustomers{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/listado_clientes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Nombre":"Ana"`)
}
