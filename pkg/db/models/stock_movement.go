package models

import (
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
)

// StockMovement journals every on-hand change with the before/after quantity.
type StockMovement struct {
	ID          int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ProductCode int64              `gorm:"column:codigo_producto;not null;index"`
	Kind        enums.MovementKind `gorm:"column:tipo;size:30;not null"`
	Quantity    int64              `gorm:"column:cantidad;not null"`
	Previous    int64              `gorm:"column:existencia_anterior;not null"`
	Current     int64              `gorm:"column:existencia_nueva;not null"`
	Reference   *int64             `gorm:"column:referencia"`
	CreatedAt   time.Time          `gorm:"column:creado_en;autoCreateTime"`
}

func (StockMovement) TableName() string { return "movimientos_stock" }
