package orders

import "github.com/angelmondragon/gestor-pedidos/pkg/types"

// DateLayout is the DD/MM/YYYY HH:MM:SS form clients send and list views show.
const DateLayout = "02/01/2006 15:04:05"

// HeaderInput is the create-header payload. Missing or malformed dates fall back to now.
type HeaderInput struct {
	Date         string            `json:"FECHA_PEDIDO"`
	UserCode     types.LooseNumber `json:"CODIGO_USUARIO"`
	CustomerCode types.LooseNumber `json:"CODIGO_CLIENTE"`
	CustomerName string            `json:"NOMBRE_CLIENTE"`
	NIT          string            `json:"NIT"`
	Address      string            `json:"DIRECCION"`
	Total        types.LooseNumber `json:"TOTAL_PEDIDO"`
	Comments     *string           `json:"COMENTARIOS"`
}

// LineInput is one order line. Numeric fields accept numbers or numeric strings.
type LineInput struct {
	OrderNumber types.LooseNumber `json:"NUMERO_PEDIDO"`
	ProductCode types.LooseNumber `json:"CODIGO_PRODUCTO"`
	ProductName string            `json:"NOMBRE_PRODUCTO"`
	Unit        string            `json:"UNIDAD_MEDIDA"`
	Quantity    types.LooseNumber `json:"CANTIDAD"`
	UnitPrice   types.LooseNumber `json:"PRECIO_UNITARIO"`
	Total       types.LooseNumber `json:"TOTAL"`
}

// StockDelta is one entry of the decrement-stock request.
type StockDelta struct {
	ProductCode types.LooseNumber `json:"CODIGO_PRODUCTO"`
	Quantity    types.LooseNumber `json:"CANTIDAD"`
}

// PlaceOrderInput carries a whole order for the single-transaction flow.
// NUMERO_PEDIDO on the lines is ignored.
type PlaceOrderInput struct {
	Header HeaderInput `json:"encabezado"`
	Lines  []LineInput `json:"detalles" validate:"required,min=1"`
}

// OrderSummary is one row of the order list.
type OrderSummary struct {
	Number       int64   `json:"NUMERO_PEDIDO"`
	Date         string  `json:"FECHA"`
	CustomerName string  `json:"NOMBRE_CLIENTE"`
	NIT          string  `json:"NIT"`
	Address      string  `json:"DIRECCION"`
	Total        float64 `json:"TOTAL_DOCUMENTO"`
	Status       string  `json:"ESTADO"`
}

// LineView is one stored line with numerics rendered as floats.
type LineView struct {
	ProductCode int64   `json:"CODIGO_PRODUCTO"`
	ProductName string  `json:"NOMBRE_PRODUCTO"`
	Unit        string  `json:"UNIDAD_MEDIDA"`
	Quantity    float64 `json:"CANTIDAD"`
	UnitPrice   float64 `json:"PRECIO_UNITARIO"`
	LineTotal   float64 `json:"TOTAL_LINEA"`
}

// Document is the printable form of an order.
type Document struct {
	Header    DocumentHeader `json:"pedido"`
	Lines     []DocumentLine `json:"detalles"`
	PrintedAt string         `json:"fecha_impresion"`
}

type DocumentHeader struct {
	Number       int64   `json:"numero"`
	Date         string  `json:"fecha"`
	CustomerName string  `json:"cliente"`
	NIT          string  `json:"nit"`
	Address      string  `json:"direccion"`
	Total        float64 `json:"total"`
	Status       string  `json:"estado"`
	Comments     string  `json:"comentarios"`
}

type DocumentLine struct {
	ProductCode int64   `json:"codigo"`
	ProductName string  `json:"producto"`
	Unit        string  `json:"unidad"`
	Quantity    float64 `json:"cantidad"`
	UnitPrice   float64 `json:"precio"`
	LineTotal   float64 `json:"total"`
}
