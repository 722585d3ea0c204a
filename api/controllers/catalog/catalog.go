package catalog

import (
	"context"
	"net/http"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	internalcatalog "github.com/angelmondragon/gestor-pedidos/internal/catalog"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

type lister func(ctx context.Context) ([]internalcatalog.Entry, error)

func Brands(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return list(func(ctx context.Context) ([]internalcatalog.Entry, error) {
		return svc.Brands(ctx)
	}, logg)
}

func Municipalities(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return list(func(ctx context.Context) ([]internalcatalog.Entry, error) {
		return svc.Municipalities(ctx)
	}, logg)
}

func Departments(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return list(func(ctx context.Context) ([]internalcatalog.Entry, error) {
		return svc.Departments(ctx)
	}, logg)
}

func PriceLevels(svc internalcatalog.Service, logg *logger.Logger) http.HandlerFunc {
	return list(func(ctx context.Context) ([]internalcatalog.Entry, error) {
		return svc.PriceLevels(ctx)
	}, logg)
}

func list(fn lister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := fn(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w, rows)
	}
}
