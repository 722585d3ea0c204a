package models

import "github.com/shopspring/decimal"

// DefaultPriceLevel is the tier used for list prices and search results.
const DefaultPriceLevel int64 = 1

// Brand is a product manufacturer (marcas).
type Brand struct {
	Code int64  `gorm:"column:codigo_marca;primaryKey;autoIncrement"`
	Name string `gorm:"column:nombre_marca;size:120;not null"`
}

func (Brand) TableName() string { return "marcas" }

// PriceLevel names a price tier (nivel_precio).
type PriceLevel struct {
	Level       int64  `gorm:"column:nivel_precio;primaryKey;autoIncrement:false"`
	Description string `gorm:"column:descripcion_nivel;size:120;not null"`
}

func (PriceLevel) TableName() string { return "nivel_precio" }

// Price is the per-tier price of a product (precios).
type Price struct {
	Level       int64           `gorm:"column:nivel_precio;primaryKey;autoIncrement:false"`
	ProductCode int64           `gorm:"column:codigo_producto;primaryKey;autoIncrement:false"`
	Amount      decimal.Decimal `gorm:"column:precio;type:numeric(12,2);not null"`
}

func (Price) TableName() string { return "precios" }

type Department struct {
	ID   int64  `gorm:"column:departamento;primaryKey;autoIncrement:false"`
	Name string `gorm:"column:nombre_departamento;size:120;not null"`
}

func (Department) TableName() string { return "departamentos" }

type Municipality struct {
	ID           int64  `gorm:"column:municipio;primaryKey;autoIncrement:false"`
	Name         string `gorm:"column:nombre_municipio;size:120;not null"`
	DepartmentID int64  `gorm:"column:departamento;not null"`
}

func (Municipality) TableName() string { return "municipios" }
