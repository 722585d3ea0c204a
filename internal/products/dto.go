package products

import "github.com/angelmondragon/gestor-pedidos/pkg/types"

// SearchLimit caps the typeahead result set.
const SearchLimit = 20

// ProductView is one row of the product list.
type ProductView struct {
	Code   int64   `json:"Codigo"`
	Name   string  `json:"Nombre"`
	Unit   *string `json:"Medida"`
	Brand  *string `json:"Marca"`
	OnHand int64   `json:"Existencia"`
	Price  float64 `json:"Precio"`
}

// SearchResult is one typeahead hit, priced at tier 1.
type SearchResult struct {
	Code        int64   `json:"Codigo"`
	Description string  `json:"Descripcion_producto"`
	Unit        string  `json:"Presentacion"`
	Price       float64 `json:"Precio"`
	OnHand      int64   `json:"EXISTENCIA"`
}

// CreateInput is the insert payload. PRECIO <= 0 leaves the product unpriced.
type CreateInput struct {
	Name   string            `json:"NOMBRE_PRODUCTO" validate:"required"`
	Unit   string            `json:"UNIDAD_MEDIDA"`
	Brand  types.LooseNumber `json:"MARCA"`
	OnHand types.LooseNumber `json:"EXISTENCIA"`
	Price  types.LooseNumber `json:"PRECIO"`
}

// UpdateInput is the update payload keyed by Codigo.
type UpdateInput struct {
	Code   types.LooseNumber `json:"Codigo"`
	Name   string            `json:"NOMBRE_PRODUCTO" validate:"required"`
	Unit   string            `json:"UNIDAD_MEDIDA"`
	OnHand types.LooseNumber `json:"EXISTENCIA"`
	Price  types.LooseNumber `json:"PRECIO"`
}
