package reports

import "github.com/angelmondragon/gestor-pedidos/pkg/enums"

const (
	// DateLayout is the YYYY-MM-DD form of the fecha query parameter.
	DateLayout = "2006-01-02"

	criticalThreshold int64 = 10
	criticalAlertMax  int64 = 5

	DefaultCriticalLimit = 10
	MaxCriticalLimit     = 500
)

// ProductReconciliation compares one product's on-hand with what was sold on the day.
type ProductReconciliation struct {
	ProductCode int64                 `json:"codigo_producto"`
	ProductName string                `json:"nombre_producto"`
	Unit        string                `json:"unidad_medida"`
	Brand       *string               `json:"marca"`
	OnHand      int64                 `json:"inventario_actual"`
	Sold        int64                 `json:"cantidad_vendida"`
	Resultant   int64                 `json:"inventario_resultante"`
	Shortfall   int64                 `json:"faltante"`
	Price       float64               `json:"precio"`
	Status      enums.InventoryStatus `json:"estado"`
}

// InventorySummary aggregates the reconciliation of one day.
type InventorySummary struct {
	Date            string  `json:"fecha"`
	ProductsSold    int     `json:"total_productos_vendidos"`
	Sufficient      int     `json:"productos_con_inventario_suficiente"`
	Insufficient    int     `json:"productos_con_inventario_insuficiente"`
	ShortfallUnits  int64   `json:"total_unidades_faltantes"`
	OrdersOfDay     int64   `json:"total_pedidos_dia"`
	CoveragePercent float64 `json:"porcentaje_cobertura"`
}

// CriticalProduct is a product at or below the low-stock threshold.
type CriticalProduct struct {
	ProductCode int64            `json:"codigo_producto"`
	ProductName string           `json:"nombre_producto"`
	Unit        string           `json:"unidad_medida"`
	Brand       *string          `json:"marca"`
	OnHand      int64            `json:"existencia"`
	Alert       enums.StockAlert `json:"nivel_alerta"`
}
