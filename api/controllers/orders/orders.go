package orders

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/api/validators"
	internalorders "github.com/angelmondragon/gestor-pedidos/internal/orders"
	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
)

const (
	msgLinesInserted  = "Detalles insertados correctamente"
	msgStockUpdated   = "Stock actualizado correctamente"
	msgStockCheckFail = "Error al verificar stock"
	msgInsufficient   = "Stock insuficiente. Disponible: %d"
)

type stockCheckRequest struct {
	ProductCode types.LooseNumber `json:"codigo_producto"`
	Quantity    types.LooseNumber `json:"cantidad"`
}

type stockCheckResponse struct {
	Success   bool   `json:"success"`
	Available *int64 `json:"existencia,omitempty"`
	Message   string `json:"message,omitempty"`
}

type orderCreatedResponse struct {
	Success     bool  `json:"success"`
	OrderNumber int64 `json:"numero_pedido"`
}

type nextNumberResponse struct {
	Next int64 `json:"ultimo_numero_pedido"`
}

// CheckStock answers the advisory availability check. Every outcome is a 200:
// the form reads success/message and never the status code.
func CheckStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stockCheckRequest
		if err := validators.DecodeLegacyBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := req.ProductCode.Int64()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "codigo_producto inválido"))
			return
		}
		qty, err := req.Quantity.Int64()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cantidad inválida"))
			return
		}

		availability, err := svc.CheckAvailability(r.Context(), code, qty)
		if err != nil {
			message := msgStockCheckFail
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				message = pkgerrors.As(err).Message()
			} else if logg != nil {
				logg.Error(r.Context(), "stock.check_failed", err)
			}
			responses.WriteOK(w, stockCheckResponse{Success: false, Message: message})
			return
		}

		available := availability.Available
		if !availability.Sufficient {
			responses.WriteOK(w, stockCheckResponse{
				Success:   false,
				Available: &available,
				Message:   fmt.Sprintf(msgInsufficient, available),
			})
			return
		}
		responses.WriteOK(w, stockCheckResponse{Success: true, Available: &available})
	}
}

func InsertHeader(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.HeaderInput
		if err := validators.DecodeLegacyBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		number, err := svc.InsertHeader(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, orderCreatedResponse{Success: true, OrderNumber: number})
	}
}

func InsertLines(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lines []internalorders.LineInput
		if err := validators.DecodeLegacyBody(r, &lines); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.InsertLines(r.Context(), lines); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgLinesInserted})
	}
}

func UpdateStock(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var deltas []internalorders.StockDelta
		if err := validators.DecodeLegacyBody(r, &deltas); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ApplyStockDeltas(r.Context(), deltas); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgStockUpdated})
	}
}

// Place creates header, lines and stock movements in one transaction.
func Place(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.PlaceOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		number, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, orderCreatedResponse{Success: true, OrderNumber: number})
	}
}

func Lines(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParsePathInt64(r, "numero")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := svc.Lines(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, lines)
	}
}

func Print(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := validators.ParsePathInt64(r, "numero")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doc, err := svc.Document(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, doc)
	}
}

func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, list)
	}
}

// NextNumber falls back to 1 when the store cannot be read, which the order
// form treats as "first order".
func NextNumber(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next, err := svc.NextOrderNumber(r.Context())
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "orders.next_number_failed", err)
			}
			next = 1
		}
		responses.WriteOK(w, nextNumberResponse{Next: next})
	}
}
