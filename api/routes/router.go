package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salonworks/pos-terminal/api/controllers"
	"github.com/salonworks/pos-terminal/api/middleware"
	"github.com/salonworks/pos-terminal/internal/catalog"
	checkoutsvc "github.com/salonworks/pos-terminal/internal/checkout"
	"github.com/salonworks/pos-terminal/internal/customers"
	"github.com/salonworks/pos-terminal/internal/receipts"
	"github.com/salonworks/pos-terminal/internal/session"
	"github.com/salonworks/pos-terminal/pkg/backend"
	"github.com/salonworks/pos-terminal/pkg/config"
	"github.com/salonworks/pos-terminal/pkg/enums"
	"github.com/salonworks/pos-terminal/pkg/logger"
	"github.com/salonworks/pos-terminal/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	backendClient *backend.Client,
	sessionManager *session.Manager,
	catalogService catalog.Service,
	registrationService customers.RegistrationService,
	checkoutService checkoutsvc.Service,
	receiptService receipts.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	signOnPolicy := middleware.NewAuthRateLimitPolicy(
		"sign-on",
		cfg.AuthRateLimit.SignOnWindow,
		cfg.AuthRateLimit.SignOnIPLimit,
		cfg.AuthRateLimit.SignOnEmployeeLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, backendClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signOnPolicy, redisClient, logg)).
			Post("/sign-on", controllers.AuthSignOn(cfg.JWT, backendClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.BranchContext(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Get("/catalog", controllers.CatalogBrowse(catalogService, logg))

		r.Post("/customers", controllers.CustomerRegister(registrationService, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionOpen(sessionManager, logg))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", controllers.SessionGet(sessionManager, logg))
				r.Delete("/", controllers.SessionClose(sessionManager, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Post("/items", controllers.CartAddItem(sessionManager, logg))
					r.Put("/items/{kind}/{itemID}", controllers.CartUpdateQuantity(sessionManager, logg))
					r.Delete("/items/{kind}/{itemID}", controllers.CartRemoveItem(sessionManager, logg))
					r.Delete("/", controllers.CartClear(sessionManager, logg))
				})

				r.Route("/customer", func(r chi.Router) {
					r.Put("/phone", controllers.CustomerPhoneInput(sessionManager, logg))
					r.Get("/", controllers.CustomerVerification(sessionManager, logg))
					r.Post("/register", controllers.SessionCustomerRegister(sessionManager, registrationService, logg))
					r.Post("/membership", controllers.MembershipSelect(sessionManager, logg))
					r.Delete("/membership", controllers.MembershipClear(sessionManager, logg))
				})

				r.Route("/pricing", func(r chi.Router) {
					r.Get("/", controllers.PricingBreakdown(sessionManager, logg))
					r.With(middleware.RequireRole(logg,
						string(enums.CashierRoleManager),
						string(enums.CashierRoleAdmin),
					)).Put("/discount", controllers.PricingManualDiscount(sessionManager, logg))
					r.Put("/tip", controllers.PricingTip(sessionManager, logg))
				})

				r.Post("/checkout", controllers.CheckoutSubmit(sessionManager, checkoutService, logg))
			})
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Post("/", controllers.ReceiptRender(receiptService, logg))
			r.Post("/{transactionID}/reprint", controllers.ReceiptReprint(receiptService, logg))
			r.Post("/{transactionID}/share", controllers.ReceiptShare(receiptService, logg))
		})

		r.Get("/transactions", controllers.TransactionHistory(receiptService, logg))
	})

	return r
}
