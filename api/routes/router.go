package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mnavarro-dev/storefront-backend/api/controllers"
	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	alertsvc "github.com/mnavarro-dev/storefront-backend/internal/alerts"
	cartsvc "github.com/mnavarro-dev/storefront-backend/internal/cart"
	catalogsvc "github.com/mnavarro-dev/storefront-backend/internal/catalog"
	checkoutsvc "github.com/mnavarro-dev/storefront-backend/internal/checkout"
	ordersvc "github.com/mnavarro-dev/storefront-backend/internal/orders"
	sessionsvc "github.com/mnavarro-dev/storefront-backend/internal/session"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Session  sessionsvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Alerts   alertsvc.Service
	Orders   ordersvc.Service
}

// NewRouter assembles the storefront HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisClient,
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/auth/login", controllers.Login(svcs.Session, logg))

		r.Get("/products", controllers.Products(svcs.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, svcs.Session, logg))

			r.Post("/auth/logout", controllers.Logout(svcs.Session, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svcs.Cart, logg))
				r.Delete("/", controllers.CartClear(svcs.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
				r.Patch("/items/{productID}/offer", controllers.CartSetOfferPrice(svcs.Cart, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(svcs.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutOpen(svcs.Checkout, logg))
				r.Get("/", controllers.CheckoutStatus(svcs.Checkout, logg))
				r.Delete("/", controllers.CheckoutClose(svcs.Checkout, logg))
				r.Patch("/form", controllers.CheckoutUpdateForm(svcs.Checkout, logg))
				r.Post("/submit", controllers.CheckoutSubmit(svcs.Checkout, logg))
				r.Post("/retry-location", controllers.CheckoutRetryLocation(svcs.Checkout, logg))
			})

			r.Get("/alerts", controllers.AlertsList(svcs.Alerts, logg))
			r.Delete("/alerts/{alertID}", controllers.AlertsDismiss(svcs.Alerts, logg))

			r.Get("/orders", controllers.OrdersList(svcs.Orders, logg))
		})
	})

	return r
}
