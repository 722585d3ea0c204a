package reports

import (
	"context"
	"time"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SoldRow is one product that appears on the day's order lines.
type SoldRow struct {
	ProductCode int64           `gorm:"column:codigo_producto"`
	ProductName string          `gorm:"column:nombre_producto"`
	Unit        string          `gorm:"column:unidad_medida"`
	Brand       *string         `gorm:"column:nombre_marca"`
	OnHand      int64           `gorm:"column:existencia"`
	Sold        int64           `gorm:"column:cantidad_vendida"`
	Price       decimal.Decimal `gorm:"column:precio"`
}

// CriticalRow is a product at or below the low-stock threshold.
type CriticalRow struct {
	ProductCode int64   `gorm:"column:codigo_producto"`
	ProductName string  `gorm:"column:nombre_producto"`
	Unit        string  `gorm:"column:unidad_medida"`
	Brand       *string `gorm:"column:nombre_marca"`
	OnHand      int64   `gorm:"column:existencia"`
}

// Repository holds the read-only report queries.
type Repository interface {
	SoldOnDay(ctx context.Context, from, to time.Time) ([]SoldRow, error)
	CountOrders(ctx context.Context, from, to time.Time) (int64, error)
	LowStock(ctx context.Context, threshold int64, limit int) ([]CriticalRow, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds the report repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// The day window is a half-open range on pedidos_enc.fecha so the same SQL
// runs on every supported dialect.
const soldOnDaySQL = `
SELECT p.codigo_producto, p.nombre_producto, p.unidad_medida, m.nombre_marca,
       COALESCE(p.existencia, 0) AS existencia,
       v.cantidad_vendida,
       COALESCE(pr.precio, 0) AS precio
FROM productos p
INNER JOIN (
    SELECT pd.codigo_producto, COALESCE(SUM(pd.cantidad), 0) AS cantidad_vendida
    FROM pedidos_det pd
    INNER JOIN pedidos_enc pe ON pd.numero_pedido = pe.numero_pedido
    WHERE pe.fecha >= ? AND pe.fecha < ?
    GROUP BY pd.codigo_producto
) v ON p.codigo_producto = v.codigo_producto
LEFT JOIN marcas m ON p.marca = m.codigo_marca
LEFT JOIN precios pr ON pr.codigo_producto = p.codigo_producto AND pr.nivel_precio = ?`

func (r *repository) SoldOnDay(ctx context.Context, from, to time.Time) ([]SoldRow, error) {
	var rows []SoldRow
	err := r.DB(ctx).
		Raw(soldOnDaySQL, from, to, models.DefaultPriceLevel).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountOrders(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.OrderHeader{}).
		Where("fecha >= ? AND fecha < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) LowStock(ctx context.Context, threshold int64, limit int) ([]CriticalRow, error) {
	var rows []CriticalRow
	err := r.DB(ctx).
		Table("productos p").
		Select("p.codigo_producto, p.nombre_producto, p.unidad_medida, m.nombre_marca, COALESCE(p.existencia, 0) AS existencia").
		Joins("LEFT JOIN marcas m ON p.marca = m.codigo_marca").
		Where("COALESCE(p.existencia, 0) <= ?", threshold).
		Order("existencia ASC").
		Order("p.codigo_producto ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
