package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/gestor-pedidos/api/responses"
	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	pkgerrors "github.com/angelmondragon/gestor-pedidos/pkg/errors"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gestor-Env", cfg.App.Env)
		responses.WriteOK(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency; nil entries are skipped.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Gestor-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteOK(w, map[string]string{"status": "ready"})
	}
}

// Health keeps the status/timestamp shape older monitors poll.
func Health(db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().Format(time.RFC3339),
		}
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "health.database_unreachable")
				}
				payload["status"] = "unhealthy"
				payload["database"] = "disconnected"
				responses.WriteJSON(w, http.StatusServiceUnavailable, payload)
				return
			}
		}
		responses.WriteOK(w, payload)
	}
}

type apiInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Features    map[string]bool   `json:"features"`
}

func APIInfo(cfg *config.Config) http.HandlerFunc {
	info := apiInfo{
		Name:        "Gestor de Pedidos API",
		Version:     cfg.App.Version,
		Description: "API unificada para gestión de pedidos",
		Endpoints: map[string]string{
			"authentication": "/api/autenticacion",
			"products":       "/api/productos",
			"orders":         "/insertar_pedido_enc",
			"health":         "/health",
		},
		Features: map[string]bool{
			"atomic_orders":           cfg.FeatureFlags.AtomicOrders,
			"guarded_stock_decrement": cfg.FeatureFlags.GuardedStockDecrement,
		},
	}
	if cfg.FeatureFlags.AtomicOrders {
		info.Endpoints["orders"] = "/api/pedidos"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteOK(w, info)
	}
}
