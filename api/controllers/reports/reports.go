package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/api/validators"
	internalreports "github.com/angelmondragon/gestor-pedidos/internal/reports"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

func InventoryVsOrders(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "fecha")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.InventoryVsOrders(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}

func Summary(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "fecha")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.Summary(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, summary)
	}
}

func CriticalProducts(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limite", internalreports.DefaultCriticalLimit, 1, internalreports.MaxCriticalLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.CriticalProducts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}

// Workbook streams the day's reconciliation as an xlsx attachment.
func Workbook(svc internalreports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "fecha")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, err := svc.Workbook(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		buf, err := file.WriteToBuffer()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render workbook"))
			return
		}

		if date == "" {
			date = time.Now().Format(internalreports.DateLayout)
		}
		w.Header().Set("Content-Type", internalreports.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="inventario_%s.xlsx"`, date))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Error(r.Context(), "reports.workbook.write_failed", err)
		}
	}
}
