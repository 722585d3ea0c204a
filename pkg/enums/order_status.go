package enums

// OrderStatus is the estado column of an order header.
type OrderStatus string

const (
	// OrderStatusOpen is the only status the order workflow assigns.
	OrderStatusOpen OrderStatus = "ABIERTO"
)

func (s OrderStatus) String() string {
	return string(s)
}
