package enums

// InventoryStatus tells whether on-hand covers the units sold on a day.
type InventoryStatus string

const (
	InventoryStatusSufficient   InventoryStatus = "SUFFICIENT"
	InventoryStatusInsufficient InventoryStatus = "INSUFFICIENT"
)

func (s InventoryStatus) String() string {
	return string(s)
}

// InventoryStatusFor maps a shortfall onto its status.
func InventoryStatusFor(shortfall int64) InventoryStatus {
	if shortfall > 0 {
		return InventoryStatusInsufficient
	}
	return InventoryStatusSufficient
}

// StockAlert grades products in the critical-products view.
type StockAlert string

const (
	StockAlertCritical StockAlert = "CRITICAL"
	StockAlertLow      StockAlert = "LOW"
)

func (a StockAlert) String() string {
	return string(a)
}
