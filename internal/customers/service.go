package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/gestor-pedidos/pkg/db"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
	"github.com/shopspring/decimal"
)

const (
	msgListFailed   = "Error al obtener clientes"
	msgCreateFailed = "Error al insertar cliente"
	msgUpdateFailed = "Error al actualizar cliente"
	msgDeleteFailed = "Error al eliminar cliente"
	msgInUse        = "El cliente tiene pedidos registrados"
)

// MsgDeleteMissing is the soft-failure text for a delete that matched nothing.
const MsgDeleteMissing = "No se encontró el cliente a eliminar"

type Service interface {
	List(ctx context.Context) ([]CustomerView, error)
	Create(ctx context.Context, input Input) (int64, error)
	Update(ctx context.Context, input Input) error
	Delete(ctx context.Context, code int64) (bool, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]CustomerView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Persistence(err, msgListFailed)
	}
	out := make([]CustomerView, 0, len(rows))
	for _, r := range rows {
		out = append(out, CustomerView{
			Code:         r.Code,
			Name:         r.Name,
			BusinessName: r.BusinessName,
			NIT:          r.NIT,
			Phone:        r.Phone,
			Address:      r.Address,
			Municipality: r.Municipality,
			Department:   r.Department,
			PriceLevel:   r.PriceLevel,
			Balance:      r.Balance.InexactFloat64(),
		})
	}
	return out, nil
}

// Create opens the account with a zero balance.
func (s *service) Create(ctx context.Context, input Input) (int64, error) {
	customer := models.Customer{
		Name:           strings.TrimSpace(input.Name),
		BusinessName:   input.BusinessName,
		NIT:            input.NIT,
		Phone:          input.Phone,
		Address:        input.Address,
		MunicipalityID: optionalCode(input.Municipality),
		DepartmentID:   optionalCode(input.Department),
		PriceLevel:     optionalCode(input.PriceLevel),
		Balance:        decimal.Zero,
	}
	if err := s.repo.Create(ctx, &customer); err != nil {
		return 0, s.writeError(err, msgCreateFailed)
	}
	s.logg.Info(s.logg.WithField(ctx, "codigo_cliente", customer.Code), "customers.created")
	return customer.Code, nil
}

// Update matches zero rows silently, the way the legacy endpoint did.
func (s *service) Update(ctx context.Context, input Input) error {
	code := input.Code.Decimal().IntPart()
	if code <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"Codigo": "is required"})
	}
	_, err := s.repo.Update(ctx, code, map[string]any{
		"nombre_cliente": strings.TrimSpace(input.Name),
		"nombre_negocio": input.BusinessName,
		"nit":            input.NIT,
		"telefono":       input.Phone,
		"direccion":      input.Address,
		"municipio":      optionalCode(input.Municipality),
		"departamento":   optionalCode(input.Department),
		"nivel_precio":   optionalCode(input.PriceLevel),
	})
	if err != nil {
		return s.writeError(err, msgUpdateFailed)
	}
	s.logg.Info(s.logg.WithField(ctx, "codigo_cliente", code), "customers.updated")
	return nil
}

func (s *service) Delete(ctx context.Context, code int64) (bool, error) {
	rows, err := s.repo.Delete(ctx, code)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return false, pkgerrors.New(pkgerrors.CodeConflict, msgInUse)
		}
		return false, pkgerrors.Persistence(err, msgDeleteFailed)
	}
	return rows > 0, nil
}

func (s *service) writeError(err error, prefix string) error {
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Municipio, departamento o nivel de precio inexistente")
	}
	return pkgerrors.Persistence(err, prefix)
}

func optionalCode(n types.LooseNumber) *int64 {
	if !n.Present || n.Decimal().IsZero() {
		return nil
	}
	v := n.Decimal().IntPart()
	return &v
}
