package products

import (
	"context"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListRow is the joined product/brand/price projection.
type ListRow struct {
	Code   int64           `gorm:"column:codigo_producto"`
	Name   string          `gorm:"column:nombre_producto"`
	Unit   *string         `gorm:"column:unidad_medida"`
	Brand  *string         `gorm:"column:nombre_marca"`
	OnHand int64           `gorm:"column:existencia"`
	Price  decimal.Decimal `gorm:"column:precio"`
}

// Repository persists productos and their tier prices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]ListRow, error)
	Search(ctx context.Context, term string, limit int) ([]ListRow, error)
	Find(ctx context.Context, code int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, code int64, fields map[string]any) (int64, error)
	UpsertPrice(ctx context.Context, price models.Price) error
	RecordMovement(ctx context.Context, movement *models.StockMovement) error
	Delete(ctx context.Context, code int64) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) base(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("productos p").
		Select("p.codigo_producto, p.nombre_producto, p.unidad_medida, m.nombre_marca, COALESCE(p.existencia, 0) AS existencia, COALESCE(pr.precio, 0) AS precio").
		Joins("LEFT JOIN marcas m ON p.marca = m.codigo_marca").
		Joins("LEFT JOIN precios pr ON pr.codigo_producto = p.codigo_producto AND pr.nivel_precio = ?", models.DefaultPriceLevel)
}

func (r *repository) List(ctx context.Context) ([]ListRow, error) {
	var rows []ListRow
	err := r.base(ctx).Order("p.codigo_producto ASC").Scan(&rows).Error
	return rows, err
}

// Search matches the term anywhere in the name, ignoring case.
func (r *repository) Search(ctx context.Context, term string, limit int) ([]ListRow, error) {
	var rows []ListRow
	err := r.base(ctx).
		Where("p.nombre_producto "+db.ContainsOperator(r.DB(nil))+" ?", db.ContainsPattern(term)).
		Order("p.nombre_producto ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, code int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("codigo_producto = ?", code).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

func (r *repository) Update(ctx context.Context, code int64, fields map[string]any) (int64, error) {
	return repo.Affected(r.DB(ctx).
		Model(&models.Product{}).
		Where("codigo_producto = ?", code).
		Updates(fields))
}

func (r *repository) UpsertPrice(ctx context.Context, price models.Price) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nivel_precio"}, {Name: "codigo_producto"}},
			DoUpdates: clause.AssignmentColumns([]string{"precio"}),
		}).
		Create(&price).Error
}

func (r *repository) RecordMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.DB(ctx).Create(movement).Error
}

// Delete removes prices and journal rows before the product itself.
func (r *repository) Delete(ctx context.Context, code int64) (int64, error) {
	conn := r.DB(ctx)
	if err := conn.Where("codigo_producto = ?", code).Delete(&models.Price{}).Error; err != nil {
		return 0, err
	}
	if err := conn.Where("codigo_producto = ?", code).Delete(&models.StockMovement{}).Error; err != nil {
		return 0, err
	}
	return repo.Affected(conn.Where("codigo_producto = ?", code).Delete(&models.Product{}))
}
