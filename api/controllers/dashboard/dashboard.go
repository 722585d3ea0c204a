package dashboard

import (
	"net/http"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	internaldashboard "github.com/angelmondragon/gestor-pedidos/internal/dashboard"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

func Totals(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := svc.Totals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, totals)
	}
}

func CustomersByDepartment(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.CustomersByDepartment(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}

func ProductsByBrand(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ProductsByBrand(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}
