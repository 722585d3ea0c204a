package stock

import "time"

// LowStockThreshold is the on-hand level at or below which a product is reported as low.
const LowStockThreshold int64 = 10

// Availability is the advisory answer of CheckAvailability.
type Availability struct {
	Sufficient bool  `json:"success"`
	Available  int64 `json:"existencia"`
}

// Request describes one decrement. Reference is the order number, when known.
type Request struct {
	Code      int64
	Quantity  int64
	Reference *int64
	Guarded   bool
}

// Movement is the outcome of an applied decrement.
type Movement struct {
	Code     int64
	Quantity int64
	Previous int64
	Current  int64
}

// MovementView is one journal row as the history endpoint renders it.
type MovementView struct {
	ID          int64     `json:"id"`
	ProductCode int64     `json:"codigo_producto"`
	Kind        string    `json:"tipo"`
	Quantity    int64     `json:"cantidad"`
	Previous    int64     `json:"existencia_anterior"`
	Current     int64     `json:"existencia_nueva"`
	Reference   *int64    `json:"referencia"`
	CreatedAt   time.Time `json:"creado_en"`
}
