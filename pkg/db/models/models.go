package models

// All lists every persisted model, parents first, for sqlite schema bootstrapping.
func All() []any {
	return []any{
		&Brand{},
		&PriceLevel{},
		&Department{},
		&Municipality{},
		&Product{},
		&Price{},
		&Customer{},
		&User{},
		&OrderHeader{},
		&OrderLine{},
		&StockMovement{},
	}
}
