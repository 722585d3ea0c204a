package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/gestor-pedidos/api/controllers"
	authcontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/auth"
	catalogcontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/catalog"
	customercontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/customers"
	dashboardcontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/dashboard"
	ordercontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/orders"
	productcontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/products"
	reportcontrollers "github.com/angelmondragon/gestor-pedidos/api/controllers/reports"
	"github.com/angelmondragon/gestor-pedidos/api/middleware"
	"github.com/angelmondragon/gestor-pedidos/internal/auth"
	"github.com/angelmondragon/gestor-pedidos/internal/catalog"
	"github.com/angelmondragon/gestor-pedidos/internal/customers"
	"github.com/angelmondragon/gestor-pedidos/internal/dashboard"
	"github.com/angelmondragon/gestor-pedidos/internal/orders"
	"github.com/angelmondragon/gestor-pedidos/internal/products"
	"github.com/angelmondragon/gestor-pedidos/internal/reports"
	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/auth/session"
	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/metrics"
)

// Deps carries everything the router wires. Redis-backed members (Redis,
// Sessions, RateLimits, Idempotency) are nil when redis is disabled.
type Deps struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Sessions    session.Checker
	RateLimits  middleware.RateLimitStore
	Idempotency middleware.IdempotencyStore
	HTTPMetrics *metrics.HTTPMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	Orders    orders.Service
	Stock     stock.Service
	Reports   reports.Service
	Products  products.Service
	Customers customers.Service
	Auth      auth.Service
	Dashboard dashboard.Service
	Catalog   catalog.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	r.Get("/health", controllers.Health(deps.DB, logg))
	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
		"database": deps.DB,
		"redis":    deps.Redis,
	}, logg))
	r.Get("/api/info", controllers.APIInfo(cfg))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	requireSession := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)

	// order builder: the mutating steps stay open to the legacy form
	r.Post("/verificar_stock", ordercontrollers.CheckStock(deps.Stock, logg))
	r.With(idempotent).Post("/insertar_pedido_enc", ordercontrollers.InsertHeader(deps.Orders, logg))
	r.Post("/insertar_pedido_det", ordercontrollers.InsertLines(deps.Orders, logg))
	r.Post("/actualizar_stock", ordercontrollers.UpdateStock(deps.Orders, logg))
	if cfg.FeatureFlags.AtomicOrders {
		r.With(idempotent).Post("/api/pedidos", ordercontrollers.Place(deps.Orders, logg))
	}
	r.Get("/detalle_pedido/{numero}", ordercontrollers.Lines(deps.Orders, logg))
	r.Get("/imprimir_pedido/{numero}", ordercontrollers.Print(deps.Orders, logg))

	r.Route("/reporte", func(r chi.Router) {
		r.Get("/inventario-vs-pedidos", reportcontrollers.InventoryVsOrders(deps.Reports, logg))
		r.Get("/resumen-inventario", reportcontrollers.Summary(deps.Reports, logg))
		r.Get("/productos-criticos", reportcontrollers.CriticalProducts(deps.Reports, logg))
		r.With(requireSession).Get("/inventario.xlsx", reportcontrollers.Workbook(deps.Reports, logg))
	})

	r.Get("/buscar_productos", productcontrollers.Search(deps.Products, logg))
	r.Post("/api/productos/insertar", productcontrollers.Create(deps.Products, logg))
	r.Put("/api/productos/actualizar", productcontrollers.Update(deps.Products, logg))
	r.Delete("/api/productos/{codigo}", productcontrollers.Delete(deps.Products, logg))

	r.Post("/insertar_cliente", customercontrollers.Create(deps.Customers, logg))
	r.Put("/actualizar_cliente", customercontrollers.Update(deps.Customers, logg))
	r.Delete("/eliminar_cliente/{codigo}", customercontrollers.Delete(deps.Customers, logg))

	r.Post("/api/autenticacion", authcontrollers.Authenticate(deps.Auth, logg))
	r.With(middleware.AuthRateLimit(middleware.LoginPolicy(cfg.AuthRateLimit), deps.RateLimits, logg)).
		Post("/api/login", authcontrollers.Login(deps.Auth, logg))

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.Post("/api/logout", authcontrollers.Logout(deps.Auth, logg))

		r.Get("/listado_pedidos", ordercontrollers.List(deps.Orders, logg))
		r.Get("/numero_pedido", ordercontrollers.NextNumber(deps.Orders, logg))

		r.Get("/api/productos", productcontrollers.List(deps.Products, logg))
		r.Get("/listado_productos", productcontrollers.List(deps.Products, logg))
		r.Get("/api/productos/{codigo}/movimientos", productcontrollers.Movements(deps.Stock, logg))

		r.Get("/listado_clientes", customercontrollers.List(deps.Customers, logg))

		r.Get("/api/marcas", catalogcontrollers.Brands(deps.Catalog, logg))
		r.Get("/listado_municipios", catalogcontrollers.Municipalities(deps.Catalog, logg))
		r.Get("/listado_departamentos", catalogcontrollers.Departments(deps.Catalog, logg))
		r.Get("/listado_niveles_precio", catalogcontrollers.PriceLevels(deps.Catalog, logg))

		r.Route("/api/dashboard", func(r chi.Router) {
			r.Get("/totales", dashboardcontrollers.Totals(deps.Dashboard, logg))
			r.Get("/clientes-por-departamento", dashboardcontrollers.CustomersByDepartment(deps.Dashboard, logg))
			r.Get("/productos-por-marca", dashboardcontrollers.ProductsByBrand(deps.Dashboard, logg))
		})
	})

	return r
}
