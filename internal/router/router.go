package router

import (
	"net/http"

	"foodapp/internal/db"
	"foodapp/internal/handlers"
	"foodapp/internal/middleware"
	"foodapp/internal/models"
	"foodapp/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Options struct {
	JWTSecret string
	// RateLimit is requests per second across all clients; zero disables it.
	RateLimit rate.Limit
	RateBurst int
}

func SetupRouter(store db.Store, opts Options, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(opts.JWTSecret, logger)
	userService := services.NewUserService(store, logger)
	menuService := services.NewMenuService(store, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	menuHandler := handlers.NewMenuHandler(menuService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	r := mux.NewRouter()

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	if opts.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst).Middleware())
	}

	public := r.PathPrefix("").Subrouter()
	public.Use(middleware.RequestValidation("application/json"))
	public.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	public.HandleFunc("/login", authHandler.Login).Methods("POST")

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.Authentication(authService, logger))
	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	protected.HandleFunc("/profile", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile", userHandler.UpdateProfile).Methods("PUT")

	seller := r.PathPrefix("").Subrouter()
	seller.Use(middleware.Authentication(authService, logger))
	seller.Use(middleware.RequireRole(models.RoleSeller))
	seller.Use(middleware.RequestValidation("multipart/form-data"))
	seller.HandleFunc("/add-food-item", menuHandler.AddFoodItem).Methods("POST")
	seller.HandleFunc("/menu", menuHandler.ListFoodItems).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
