package routes

import (
	"net/http"
	"net/url"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sharikirostov/balloon-store/app/configs"
	"github.com/sharikirostov/balloon-store/app/handlers"
	"github.com/sharikirostov/balloon-store/app/handlers/admin"
	"github.com/sharikirostov/balloon-store/app/middlewares"
	"github.com/sharikirostov/balloon-store/app/services"
	"github.com/sharikirostov/balloon-store/app/utils/renderer"
	"github.com/sharikirostov/balloon-store/app/utils/sessions"
)

const csrfHeader = "X-CSRF-Token"

func NewRouter(app *services.Container, env configs.ENV, keys *configs.SessionKeys) http.Handler {
	render := renderer.New(env.IsDevelopment())
	validate := validator.New()
	secure := !env.IsDevelopment()
	store := sessions.NewCookieSessionStore(secure, keys.AuthKey, keys.EncKey)

	productHandler := handlers.NewProductHandler(app.Catalog, render)
	categoryHandler := handlers.NewCategoryHandler(app.Categories, render)
	homeHandler := handlers.NewHomeHandler(render, app.Catalog)
	imageHandler := handlers.NewImageHandler(app.Images, render)
	cartHandler := handlers.NewCartHandler(app.Cart, store, render, validate)
	orderHandler := handlers.NewOrderHandler(app.Orders, store, render, validate)
	authHandler := handlers.NewAuthHandler(render, app.Auth, validate)
	adminHandler := admin.NewAdminHandler(render, validate, app.Categories, app.Products, app.Bulk, app.Export, app.Images)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(render, w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(render, w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	router.Use(middlewares.LoggingMiddleware)

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/api/health", homeHandler.Health).Methods("GET")
	router.HandleFunc("/images/{path:.+}", imageHandler.ServeImage).Methods("GET", "HEAD")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", homeHandler.Home).Methods("GET")
	api.HandleFunc("/products", productHandler.Products).Methods("GET")
	api.HandleFunc("/products/{slug}", productHandler.ProductDetail).Methods("GET")
	api.HandleFunc("/categories", categoryHandler.Categories).Methods("GET")
	api.HandleFunc("/categories/tree", categoryHandler.Tree).Methods("GET")
	api.HandleFunc("/categories/{id}", categoryHandler.CategoryDetail).Methods("GET")

	protect := csrfProtection(keys.AuthKey, secure, env.CORSAllowedOrigins)
	api.Handle("/csrf", protect(http.HandlerFunc(cartHandler.CSRFToken))).Methods("GET")
	api.Handle("/cart", protect(http.HandlerFunc(cartHandler.GetCart))).Methods("GET")
	api.Handle("/cart", protect(http.HandlerFunc(cartHandler.ClearCart))).Methods("DELETE")
	api.Handle("/cart/items", protect(http.HandlerFunc(cartHandler.AddToCart))).Methods("POST")
	api.Handle("/cart/items/{id}", protect(http.HandlerFunc(cartHandler.UpdateCartItem))).Methods("PUT")
	api.Handle("/cart/items/{id}", protect(http.HandlerFunc(cartHandler.RemoveCartItem))).Methods("DELETE")
	api.Handle("/order", protect(http.HandlerFunc(orderHandler.PlaceOrder))).Methods("POST")
	api.Handle("/order/cancel", protect(http.HandlerFunc(orderHandler.CancelOrder))).Methods("POST")
	api.Handle("/contact", protect(http.HandlerFunc(orderHandler.Contact))).Methods("POST")

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.HandleFunc("/auth/login", authHandler.LoginPostHandler).Methods("POST")

	protected := adminRouter.NewRoute().Subrouter()
	protected.Use(middlewares.AdminAuthMiddleware(app.Auth, render))
	protected.HandleFunc("/auth/register", authHandler.RegisterPostHandler).Methods("POST")
	protected.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")

	protected.HandleFunc("/categories", adminHandler.GetCategories).Methods("GET")
	protected.HandleFunc("/categories", adminHandler.AddCategoryPost).Methods("POST")
	protected.HandleFunc("/categories/tree", adminHandler.GetCategoryTree).Methods("GET")
	protected.HandleFunc("/categories/{id}", adminHandler.EditCategoryPost).Methods("PUT")
	protected.HandleFunc("/categories/{id}", adminHandler.DeleteCategoryPost).Methods("DELETE")
	protected.HandleFunc("/categories/{id}/move-products", adminHandler.MoveCategoryProducts).Methods("POST")

	protected.HandleFunc("/products", adminHandler.GetProducts).Methods("GET")
	protected.HandleFunc("/products", adminHandler.AddProductPost).Methods("POST")
	protected.HandleFunc("/products/export", adminHandler.ExportProducts).Methods("GET")
	protected.HandleFunc("/products/bulk-update-categories", adminHandler.BulkUpdateCategories).Methods("POST")
	protected.HandleFunc("/products/{id}", adminHandler.GetProduct).Methods("GET")
	protected.HandleFunc("/products/{id}", adminHandler.EditProductPost).Methods("PUT")
	protected.HandleFunc("/products/{id}", adminHandler.DeleteProductPost).Methods("DELETE")

	protected.HandleFunc("/images/upload", adminHandler.UploadImage).Methods("POST")

	var handler http.Handler = router
	handler = cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(env),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", csrfHeader, middlewares.RequestIDHeader},
		ExposedHeaders:   []string{csrfHeader, middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
	handler = middlewares.RecoverMiddleware(handler)
	handler = middlewares.RequestIDMiddleware(handler)
	return handler
}

func allowedOrigins(env configs.ENV) []string {
	if len(env.CORSAllowedOrigins) > 0 {
		return env.CORSAllowedOrigins
	}
	if env.IsDevelopment() {
		return []string{"http://localhost:3000"}
	}
	return nil
}

// csrfProtection guards the session-backed cart and order routes. Admin
// routes authenticate with bearer tokens and are not wrapped.
func csrfProtection(authKey []byte, secure bool, trusted []string) func(http.Handler) http.Handler {
	key := authKey
	if len(key) > 32 {
		key = key[:32]
	}
	return csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(csrfHeader),
		csrf.TrustedOrigins(originHosts(trusted)),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=UTF-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Invalid CSRF token"}`))
		})),
	)
}

func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, origin)
	}
	return hosts
}
