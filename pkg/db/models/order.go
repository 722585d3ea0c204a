package models

import (
	"time"

	"github.com/angelmondragon/gestor-pedidos/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderHeader is one order (pedidos_enc). Customer fields are a snapshot taken at order time.
type OrderHeader struct {
	Number       int64             `gorm:"column:numero_pedido;primaryKey;autoIncrement"`
	Date         time.Time         `gorm:"column:fecha;not null"`
	UserCode     *int64            `gorm:"column:codigo_usuario"`
	CustomerCode *int64            `gorm:"column:codigo_cliente"`
	CustomerName string            `gorm:"column:nombre_cliente;size:200"`
	NIT          string            `gorm:"column:nit;size:30"`
	Address      string            `gorm:"column:direccion;size:300"`
	Total        decimal.Decimal   `gorm:"column:total_documento;type:numeric(12,2);not null;default:0"`
	Status       enums.OrderStatus `gorm:"column:estado;size:20;not null"`
	Comments     *string           `gorm:"column:comentarios;size:500"`
}

func (OrderHeader) TableName() string { return "pedidos_enc" }

// OrderLine is one product entry of an order (pedidos_det).
type OrderLine struct {
	LineNumber  int64           `gorm:"column:numero_linea;primaryKey;autoIncrement"`
	OrderNumber int64           `gorm:"column:numero_pedido;not null;index"`
	ProductCode int64           `gorm:"column:codigo_producto;not null"`
	ProductName string          `gorm:"column:nombre_producto;size:200"`
	Unit        string          `gorm:"column:unidad_medida;size:60"`
	Quantity    int64           `gorm:"column:cantidad;not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"column:precio_unitario;type:numeric(12,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"column:total_linea;type:numeric(12,2);not null;default:0"`
}

func (OrderLine) TableName() string { return "pedidos_det" }
