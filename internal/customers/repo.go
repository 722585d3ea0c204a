package customers

import (
	"context"

	"github.com/angelmondragon/gestor-pedidos/internal/repo"
	"github.com/angelmondragon/gestor-pedidos/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListRow is the customer projection joined with its catalog names.
type ListRow struct {
	Code         int64           `gorm:"column:codigo_cliente"`
	Name         string          `gorm:"column:nombre_cliente"`
	BusinessName *string         `gorm:"column:nombre_negocio"`
	NIT          *string         `gorm:"column:nit"`
	Phone        *string         `gorm:"column:telefono"`
	Address      *string         `gorm:"column:direccion"`
	Municipality *string         `gorm:"column:nombre_municipio"`
	Department   *string         `gorm:"column:nombre_departamento"`
	PriceLevel   *string         `gorm:"column:descripcion_nivel"`
	Balance      decimal.Decimal `gorm:"column:saldo"`
}

type Repository interface {
	List(ctx context.Context) ([]ListRow, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, code int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, code int64) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) List(ctx context.Context) ([]ListRow, error) {
	var rows []ListRow
	err := r.DB(ctx).
		Table("clientes c").
		Select(`c.codigo_cliente, c.nombre_cliente, c.nombre_negocio, c.nit, c.telefono, c.direccion,
			m.nombre_municipio, d.nombre_departamento, np.descripcion_nivel, COALESCE(c.saldo, 0) AS saldo`).
		Joins("LEFT JOIN municipios m ON c.municipio = m.municipio").
		Joins("LEFT JOIN departamentos d ON c.departamento = d.departamento").
		Joins("LEFT JOIN nivel_precio np ON c.nivel_precio = np.nivel_precio").
		Order("c.nombre_cliente ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

func (r *repository) Update(ctx context.Context, code int64, fields map[string]any) (int64, error) {
	return repo.Affected(r.DB(ctx).
		Model(&models.Customer{}).
		Where("codigo_cliente = ?", code).
		Updates(fields))
}

func (r *repository) Delete(ctx context.Context, code int64) (int64, error) {
	return repo.Affected(r.DB(ctx).
		Where("codigo_cliente = ?", code).
		Delete(&models.Customer{}))
}
