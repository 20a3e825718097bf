package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecocycle/ecocycle-backend/api/controllers"
	"github.com/ecocycle/ecocycle-backend/api/middleware"
	"github.com/ecocycle/ecocycle-backend/internal/cart"
	"github.com/ecocycle/ecocycle-backend/internal/catalog"
	checkoutsvc "github.com/ecocycle/ecocycle-backend/internal/checkout"
	"github.com/ecocycle/ecocycle-backend/internal/orders"
	"github.com/ecocycle/ecocycle-backend/internal/sellers"
	"github.com/ecocycle/ecocycle-backend/internal/session"
	"github.com/ecocycle/ecocycle-backend/internal/watchlist"
	"github.com/ecocycle/ecocycle-backend/pkg/config"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	kv storage.KV,
	registry *prometheus.Registry,
	sessionService session.Service,
	cartService cart.Service,
	watchlistService watchlist.Service,
	catalogService catalog.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	sellerService sellers.Service,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, kv))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Post("/login", controllers.SessionLogin(sessionService, logg))
		r.Post("/signup", controllers.SessionSignup(sessionService, logg))
		r.Post("/logout", controllers.SessionLogout(sessionService, logg))
		r.Get("/", controllers.SessionCurrent(sessionService, logg))
		r.Patch("/profile", controllers.SessionUpdateProfile(sessionService, logg))
		r.Put("/preferences", controllers.SessionUpdatePreferences(sessionService, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", controllers.CartGet(cartService, logg))
		r.Post("/items", controllers.CartAddItem(cartService, logg))
		r.Patch("/items/{itemId}", controllers.CartUpdateQuantity(cartService, logg))
		r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		r.Delete("/", controllers.CartClear(cartService, logg))
	})

	r.Route("/api/v1/watchlist", func(r chi.Router) {
		r.Get("/", controllers.WatchlistList(watchlistService, logg))
		r.Post("/items", controllers.WatchlistAddItem(watchlistService, logg))
		r.Delete("/items/{itemId}", controllers.WatchlistRemoveItem(watchlistService, logg))
		r.Get("/items/{itemId}/watched", controllers.WatchlistIsWatched(watchlistService, logg))
		r.Delete("/", controllers.WatchlistClear(watchlistService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(catalogService, logg))
		r.Post("/", controllers.ProductCreate(catalogService, logg))
		r.Get("/{productId}", controllers.ProductGet(catalogService, logg))
		r.Patch("/{productId}", controllers.ProductUpdate(catalogService, logg))
		r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Get("/", controllers.CheckoutState(checkoutService, logg))
		r.Post("/continue", controllers.CheckoutContinue(checkoutService, logg))
		r.Post("/back", controllers.CheckoutBack(checkoutService, logg))
		r.Put("/delivery", controllers.CheckoutSetDelivery(checkoutService, logg))
		r.Put("/payment", controllers.CheckoutSetPayment(checkoutService, logg))
		r.Post("/submit", controllers.CheckoutSubmit(checkoutService, logg))
		r.Post("/reset", controllers.CheckoutReset(checkoutService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/", controllers.OrdersList(ordersService, logg))
		r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
		r.Post("/{orderId}/rate", controllers.OrderRate(ordersService, logg))
	})

	r.Route("/api/v1/seller/profile", func(r chi.Router) {
		r.Get("/", controllers.SellerProfileGet(sellerService, logg))
		r.Put("/", controllers.SellerProfileSave(sellerService, logg))
	})

	return r
}
