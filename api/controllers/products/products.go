package products

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/api/validators"
	internalproducts "github.com/angelmondragon/gestor-pedidos/internal/products"
	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
)

const (
	msgCreated = "Producto insertado correctamente"
	msgUpdated = "Producto actualizado correctamente"
	msgDeleted = "Producto eliminado correctamente"
)

type createdResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    int64  `json:"codigo"`
}

func Search(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := strings.TrimSpace(r.URL.Query().Get("term"))
		rows, err := svc.Search(r.Context(), term)
		if err != nil {
			rows = []internalproducts.SearchResult{}
		}
		responses.WriteOK(w, rows)
	}
}

func List(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}

func Create(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalproducts.CreateInput
		if err := validators.DecodeLegacyBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, createdResponse{Success: true, Message: msgCreated, Code: code})
	}
}

func Update(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalproducts.UpdateInput
		if err := validators.DecodeLegacyBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Update(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgUpdated})
	}
}

func Delete(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := validators.ParsePathInt64(r, "codigo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deleted, err := svc.Delete(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !deleted {
			responses.WriteResult(w, types.Result{Success: false, Error: internalproducts.MsgDeleteMissing})
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgDeleted})
	}
}

// Movements lists the stock journal of one product, newest first.
func Movements(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := validators.ParsePathInt64(r, "codigo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.History(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}
