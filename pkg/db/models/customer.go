package models

import "github.com/shopspring/decimal"

// Customer is a buying account (clientes).
type Customer struct {
	Code           int64           `gorm:"column:codigo_cliente;primaryKey;autoIncrement"`
	Name           string          `gorm:"column:nombre_cliente;size:200;not null"`
	BusinessName   string          `gorm:"column:nombre_negocio;size:200"`
	NIT            string          `gorm:"column:nit;size:30"`
	Phone          string          `gorm:"column:telefono;size:30"`
	Address        string          `gorm:"column:direccion;size:300"`
	MunicipalityID *int64          `gorm:"column:municipio"`
	DepartmentID   *int64          `gorm:"column:departamento"`
	PriceLevel     *int64          `gorm:"column:nivel_precio"`
	Balance        decimal.Decimal `gorm:"column:saldo;type:numeric(12,2);not null;default:0"`
}

func (Customer) TableName() string { return "clientes" }
