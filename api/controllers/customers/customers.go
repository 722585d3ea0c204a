package customers

import (
	"net/http"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/api/validators"
	internalcustomers "github.com/angelmondragon/gestor-pedidos/internal/customers"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/types"
)

const (
	msgCreated = "Cliente insertado correctamente"
	msgUpdated = "Cliente actualizado correctamente"
	msgDeleted = "Cliente eliminado correctamente"
)

func List(svc internalcustomers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}

func Create(svc internalcustomers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalcustomers.Input
		if err := validators.DecodeLegacyBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.Create(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgCreated})
	}
}

func Update(svc internalcustomers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalcustomers.Input
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

func Delete(svc internalcustomers.Service, logg *logger.Logger) http.HandlerFunc {
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
			responses.WriteResult(w, types.Result{Success: false, Error: internalcustomers.MsgDeleteMissing})
			return
		}
		responses.WriteResult(w, types.Result{Success: true, Message: msgDeleted})
	}
}
