package models

// Product is a stock-keeping item (productos). OnHand is not floored at zero.
type Product struct {
	Code      int64  `gorm:"column:codigo_producto;primaryKey;autoIncrement"`
	Name      string `gorm:"column:nombre_producto;size:200;not null"`
	Unit      string `gorm:"column:unidad_medida;size:60"`
	BrandCode *int64 `gorm:"column:marca"`
	OnHand    int64  `gorm:"column:existencia;not null;default:0"`
}

func (Product) TableName() string { return "productos" }
