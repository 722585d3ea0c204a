// Package catalog lists the lookup tables the order and customer forms fill
// their dropdowns from.
package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"gorm.io/gorm"
)

// Entry is one dropdown option.
type Entry struct {
	ID   int64  `json:"id" gorm:"column:id"`
	Name string `json:"nombre" gorm:"column:nombre"`
}

type Service interface {
	Brands(ctx context.Context) ([]Entry, error)
	Municipalities(ctx context.Context) ([]Entry, error)
	Departments(ctx context.Context) ([]Entry, error)
	PriceLevels(ctx context.Context) ([]Entry, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &service{db: db}, nil
}

func (s *service) Brands(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, &models.Brand{}, "codigo_marca", "nombre_marca", "nombre_marca", "Error al obtener marcas")
}

func (s *service) Municipalities(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, &models.Municipality{}, "municipio", "nombre_municipio", "nombre_municipio", "Error al obtener municipios")
}

func (s *service) Departments(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, &models.Department{}, "departamento", "nombre_departamento", "nombre_departamento", "Error al obtener departamentos")
}

// PriceLevels keep tier order rather than name order.
func (s *service) PriceLevels(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, &models.PriceLevel{}, "nivel_precio", "descripcion_nivel", "nivel_precio", "Error al obtener niveles de precio")
}

func (s *service) list(ctx context.Context, model any, idCol, nameCol, orderCol, failMsg string) ([]Entry, error) {
	out := []Entry{}
	err := s.db.WithContext(ctx).
		Model(model).
		Select(fmt.Sprintf("%s AS id, %s AS nombre", idCol, nameCol)).
		Order(orderCol).
		Scan(&out).Error
	if err != nil {
		return nil, pkgerrors.Persistence(err, failMsg)
	}
	return out, nil
}
