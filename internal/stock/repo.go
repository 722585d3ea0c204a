package stock

import (
	"context"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and writes on-hand quantities of productos.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetOnHand(ctx context.Context, code int64) (int64, error)
	Decrement(ctx context.Context, code, qty int64) (int64, error)
	DecrementIfAvailable(ctx context.Context, code, qty int64) (int64, error)
	RecordMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, code int64) ([]models.StockMovement, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

// GetOnHand returns gorm.ErrRecordNotFound when the product does not exist.
func (r *repository) GetOnHand(ctx context.Context, code int64) (int64, error) {
	var product models.Product
	err := r.DB(ctx).
		Select("codigo_producto", "existencia").
		Where("codigo_producto = ?", code).
		First(&product).Error
	if err != nil {
		return 0, err
	}
	return product.OnHand, nil
}

// Decrement subtracts qty without any floor and returns the affected row count.
func (r *repository) Decrement(ctx context.Context, code, qty int64) (int64, error) {
	return repo.Affected(r.DB(ctx).
		Model(&models.Product{}).
		Where("codigo_producto = ?", code).
		Update("existencia", gorm.Expr("existencia - ?", qty)))
}

// DecrementIfAvailable subtracts qty only while existencia >= qty.
func (r *repository) DecrementIfAvailable(ctx context.Context, code, qty int64) (int64, error) {
	return repo.Affected(r.DB(ctx).
		Model(&models.Product{}).
		Where("codigo_producto = ? AND existencia >= ?", code, qty).
		Update("existencia", gorm.Expr("existencia - ?", qty)))
}

func (r *repository) RecordMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.DB(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, code int64) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := r.DB(ctx).
		Where("codigo_producto = ?", code).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
