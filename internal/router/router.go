package router

import (
	"net/http"
	"time"

	"rental-booking/internal/config"
	"rental-booking/internal/handlers"
	"rental-booking/internal/middleware"
	"rental-booking/internal/models"
	"rental-booking/internal/repository"
	"rental-booking/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// SetupRouter builds the API. CORS wraps the whole router so preflight
// requests are answered before route method matching.
func SetupRouter(store *repository.Store, cfg config.Config, logger zerolog.Logger) http.Handler {
	authService := services.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := services.NewUserService(store, logger)
	propertyService := services.NewPropertyService(store, logger)
	bookingService := services.NewBookingService(store, logger)
	inquiryService := services.NewInquiryService(store, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)
	propertyHandler := handlers.NewPropertyHandler(propertyService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService, logger)

	if cfg.UsingDefaultSecret() {
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	authenticate := middleware.Authentication(authService, logger)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger, time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestValidation())

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.Handle("/refresh", authenticate(http.HandlerFunc(authHandler.Refresh))).Methods("POST")

	users := api.PathPrefix("/users").Subrouter()
	users.Use(authenticate)
	users.HandleFunc("/me", userHandler.Me).Methods("GET")
	users.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")

	properties := api.PathPrefix("/properties").Subrouter()
	properties.HandleFunc("", propertyHandler.List).Methods("GET")
	properties.HandleFunc("/{id}", propertyHandler.Get).Methods("GET")
	properties.Handle("", authenticate(http.HandlerFunc(propertyHandler.Submit))).Methods("POST")
	properties.Handle("/{id}/update-request", authenticate(http.HandlerFunc(propertyHandler.RequestUpdate))).Methods("POST")
	properties.Handle("/{id}/delete-request", authenticate(http.HandlerFunc(propertyHandler.RequestDelete))).Methods("POST")

	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(authenticate)
	bookings.HandleFunc("", bookingHandler.List).Methods("GET")
	bookings.HandleFunc("", bookingHandler.Create).Methods("POST")
	bookings.HandleFunc("/{id}", bookingHandler.Get).Methods("GET")
	bookings.HandleFunc("/{id}", bookingHandler.Update).Methods("PUT")
	bookings.HandleFunc("/{id}", bookingHandler.Delete).Methods("DELETE")

	inquiries := api.PathPrefix("/inquiries").Subrouter()
	inquiries.Use(authenticate)
	inquiries.HandleFunc("", inquiryHandler.Submit).Methods("POST")
	inquiries.HandleFunc("", inquiryHandler.ListOwn).Methods("GET")
	inquiries.Handle("/all", adminOnly(http.HandlerFunc(inquiryHandler.ListAll))).Methods("GET")
	inquiries.Handle("/{id}/respond", adminOnly(http.HandlerFunc(inquiryHandler.Respond))).Methods("PUT")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authenticate)
	admin.Use(adminOnly)
	admin.HandleFunc("/bookings/{id}/confirm", bookingHandler.Confirm).Methods("PUT")
	admin.HandleFunc("/bookings/{id}/reject", bookingHandler.Reject).Methods("PUT")
	admin.HandleFunc("/properties/pending", propertyHandler.ListPending).Methods("GET")
	admin.HandleFunc("/properties/{id}/approve", propertyHandler.Approve).Methods("PUT")
	admin.HandleFunc("/properties/{id}/reject", propertyHandler.Reject).Methods("PUT")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return middleware.CORS()(r)
}
