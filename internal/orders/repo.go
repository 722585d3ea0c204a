package orders

import (
	"context"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for pedidos_enc and pedidos_det.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateHeader(ctx context.Context, header *models.OrderHeader) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	ListHeaders(ctx context.Context) ([]models.OrderHeader, error)
	NextNumber(ctx context.Context) (int64, error)
	FindHeader(ctx context.Context, number int64) (*models.OrderHeader, error)
	ListLines(ctx context.Context, number int64) ([]models.OrderLine, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) CreateHeader(ctx context.Context, header *models.OrderHeader) error {
	return r.DB(ctx).Create(header).Error
}

// CreateLines inserts row by row so every line gets its own numero_linea in input order.
func (r *repository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	for i := range lines {
		if err := r.DB(ctx).Create(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) ListHeaders(ctx context.Context) ([]models.OrderHeader, error) {
	var headers []models.OrderHeader
	err := r.DB(ctx).
		Order("numero_pedido DESC").
		Find(&headers).Error
	return headers, err
}

// NextNumber is a display hint only; the real number is assigned on insert.
func (r *repository) NextNumber(ctx context.Context) (int64, error) {
	var next int64
	err := r.DB(ctx).
		Raw("SELECT COALESCE(MAX(numero_pedido), 0) + 1 FROM pedidos_enc").
		Scan(&next).Error
	return next, err
}

func (r *repository) FindHeader(ctx context.Context, number int64) (*models.OrderHeader, error) {
	var header models.OrderHeader
	err := r.DB(ctx).
		Where("numero_pedido = ?", number).
		First(&header).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *repository) ListLines(ctx context.Context, number int64) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.DB(ctx).
		Where("numero_pedido = ?", number).
		Order("numero_linea ASC").
		Find(&lines).Error
	return lines, err
}
