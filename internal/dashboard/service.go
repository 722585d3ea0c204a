// Package dashboard serves the landing page counters and distributions.
package dashboard

import (
	"context"
	"fmt"

	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"gorm.io/gorm"
)

const brandTopN = 10

type Totals struct {
	Customers int64 `json:"clientes"`
	Orders    int64 `json:"pedidos"`
	Products  int64 `json:"productos"`
}

type DepartmentCount struct {
	Department string `json:"departamento" gorm:"column:departamento"`
	Total      int64  `json:"total" gorm:"column:total"`
}

type BrandCount struct {
	Brand string `json:"marca" gorm:"column:marca"`
	Total int64  `json:"total" gorm:"column:total"`
}

type Service interface {
	Totals(ctx context.Context) (Totals, error)
	CustomersByDepartment(ctx context.Context) ([]DepartmentCount, error)
	ProductsByBrand(ctx context.Context) ([]BrandCount, error)
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

func (s *service) Totals(ctx context.Context) (Totals, error) {
	var out Totals
	conn := s.db.WithContext(ctx)
	if err := conn.Model(&models.Customer{}).Count(&out.Customers).Error; err != nil {
		return Totals{}, pkgerrors.Persistence(err, "Error al obtener totales")
	}
	if err := conn.Model(&models.OrderHeader{}).Count(&out.Orders).Error; err != nil {
		return Totals{}, pkgerrors.Persistence(err, "Error al obtener totales")
	}
	if err := conn.Model(&models.Product{}).Count(&out.Products).Error; err != nil {
		return Totals{}, pkgerrors.Persistence(err, "Error al obtener totales")
	}
	return out, nil
}

func (s *service) CustomersByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	rows := []DepartmentCount{}
	err := s.db.WithContext(ctx).
		Table("clientes c").
		Select("d.nombre_departamento AS departamento, COUNT(*) AS total").
		Joins("INNER JOIN departamentos d ON c.departamento = d.departamento").
		Group("d.nombre_departamento").
		Order("total DESC").
		Order("departamento ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Persistence(err, "Error al obtener clientes por departamento")
	}
	return rows, nil
}

func (s *service) ProductsByBrand(ctx context.Context) ([]BrandCount, error) {
	rows := []BrandCount{}
	err := s.db.WithContext(ctx).
		Table("productos p").
		Select("m.nombre_marca AS marca, COUNT(*) AS total").
		Joins("INNER JOIN marcas m ON p.marca = m.codigo_marca").
		Group("m.nombre_marca").
		Order("total DESC").
		Order("marca ASC").
		Limit(brandTopN).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Persistence(err, "Error al obtener productos por marca")
	}
	return rows, nil
}
