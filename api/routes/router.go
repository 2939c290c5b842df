package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/westwooddairy/storefront-backend/api/controllers"
	webhookcontrollers "github.com/westwooddairy/storefront-backend/api/controllers/webhooks"
	"github.com/westwooddairy/storefront-backend/api/middleware"
	cartsvc "github.com/westwooddairy/storefront-backend/internal/cart"
	checkoutsvc "github.com/westwooddairy/storefront-backend/internal/checkout"
	"github.com/westwooddairy/storefront-backend/internal/payments"
	"github.com/westwooddairy/storefront-backend/internal/products"
	paystackwebhook "github.com/westwooddairy/storefront-backend/internal/webhooks/paystack"
	"github.com/westwooddairy/storefront-backend/pkg/config"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	cachePinger controllers.Pinger,
	gatherer prometheus.Gatherer,
	productService products.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	paymentService payments.Service,
	paystackClient *paystack.Client,
	webhookService *paystackwebhook.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, cachePinger))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	var webhookProcessor webhookcontrollers.PaystackWebhookService
	if webhookService != nil {
		webhookProcessor = webhookService
	}
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paystack", webhookcontrollers.PaystackWebhook(webhookProcessor, paystackClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.ProductCategories(productService, logg))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductCatalog(productService, logg))
			r.Get("/{slug}", controllers.ProductFetch(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Put("/items", controllers.CartSetQuantity(cartService, logg))
			r.Post("/adjust", controllers.CartAdjust(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Get("/checkout/summary", controllers.CheckoutSummary(cartService, checkoutService, logg))

		r.Route("/payments", func(r chi.Router) {
			r.Post("/initialize", controllers.PaymentInitialize(paymentService, logg))
			r.Get("/verify", controllers.PaymentVerify(paymentService, logg))
			r.Get("/verify/{reference}", controllers.PaymentVerify(paymentService, logg))
		})
	})

	return r
}
