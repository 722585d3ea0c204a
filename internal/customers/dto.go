package customers

import "github.com/angelmondragon/gestor-pedidos/pkg/types"

// CustomerView is one row of the customer list with catalog names resolved.
type CustomerView struct {
	Code         int64   `json:"Codigo"`
	Name         string  `json:"Nombre"`
	BusinessName *string `json:"Nombre_Negocio"`
	NIT          *string `json:"NIT"`
	Phone        *string `json:"Telefono"`
	Address      *string `json:"Direccion"`
	Municipality *string `json:"Municipio"`
	Department   *string `json:"Departamento"`
	PriceLevel   *string `json:"Nivel_Precio"`
	Balance      float64 `json:"Saldo"`
}

// Input is the create and update payload. Codigo is ignored on create.
type Input struct {
	Code         types.LooseNumber `json:"Codigo"`
	Name         string            `json:"Nombre" validate:"required"`
	BusinessName string            `json:"Nombre_Negocio"`
	NIT          string            `json:"NIT"`
	Phone        string            `json:"Telefono"`
	Address      string            `json:"Direccion"`
	Municipality types.LooseNumber `json:"Municipio"`
	Department   types.LooseNumber `json:"Departamento"`
	PriceLevel   types.LooseNumber `json:"Nivel_Precio"`
}
