// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"net/http"
	"time"

	"nutritrack/internal/app"
	"nutritrack/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Services are the application services the adapter dispatches to.
type Services struct {
	Auth        *app.AuthService
	Users       *app.UserService
	Meals       *app.MealService
	Intakes     *app.IntakeService
	Ingredients *app.IngredientService
	Water       *app.WaterService
	Activities  *app.ActivityService
	Reports     *app.ReportService
	Food        *app.FoodService
}

// OIDCConfig holds the single sign-on settings. SSO routes answer 404 when
// Enabled is false.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Options tune the server. Zero values are usable.
type Options struct {
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	CookieSecure    bool
	CORSOrigins     []string
	LoginRatePerMin int
	WebDir          string
	OIDC            OIDCConfig
	// Ping reports storage health for /api/health. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc     Services
	opts    Options
	log     *zap.Logger
	limiter *ipLimiter
}

// New creates a Server wired to the given application services.
func New(svc Services, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.LoginRatePerMin <= 0 {
		opts.LoginRatePerMin = 10
	}
	return &Server{
		svc:     svc,
		opts:    opts,
		log:     log,
		limiter: newIPLimiter(opts.LoginRatePerMin, time.Minute),
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.loggingMiddleware)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.InstrumentHandler)
	}
	r.Use(withNoCache)

	// Public allow-list. Every other route sits behind requireSession.
	r.Group(func(r chi.Router) {
		r.With(s.rateLimit).Post("/user/register", s.handleRegister)
		r.With(s.rateLimit).Post("/user/login", s.handleLogin)
		r.Post("/user/logout", s.handleLogout)

		r.Get("/api/health", s.handleHealth)
		r.Get("/api/config", s.handleConfig)
		if s.opts.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
		}

		r.Get("/auth/sso/login", s.handleSSOLogin)
		r.Get("/auth/sso/callback", s.handleSSOCallback)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/user/details/{id}", s.handleUserDetails)
		r.Put("/user/update/{id}", s.handleUserUpdate)
		r.Delete("/user/{id}", s.handleUserDelete)

		r.Post("/meals/create", s.handleMealCreate)
		r.Get("/meals/save", s.handleMealList)
		r.Get("/saveMeals/save", s.handleMealList)
		r.Delete("/meals/delete/{mealId}", s.handleMealDelete)

		r.Post("/intakes/record", s.handleIntakeRecord)
		r.Get("/intakes/mealIntakes", s.handleIntakeList)
		r.Put("/intakes/update/{intakeId}", s.handleIntakeUpdate)
		r.Delete("/intakes/delete/{intakeId}", s.handleIntakeDelete)

		r.Get("/ingredient/ingredientDetails", s.handleIngredientDetails)
		r.Post("/ingredient/registerIngredient", s.handleIngredientRegister)
		r.Get("/ingredient/ingredientIntakes", s.handleIngredientList)
		r.Put("/ingredient/updateIngredient/{intakeId}", s.handleIngredientUpdate)
		r.Delete("/ingredient/deleteIngredient/{intakeId}", s.handleIngredientDelete)

		r.Post("/water/addWater", s.handleWaterAdd)
		r.Get("/water/waterIntakes", s.handleWaterList)
		r.Put("/water/updateWater/{waterIntakeId}", s.handleWaterUpdate)
		r.Delete("/water/deleteWater/{waterIntakeId}", s.handleWaterDelete)

		r.Get("/activity", s.handleActivityLookup)
		r.Post("/activity/add", s.handleActivityAdd)
		r.Get("/activity/activities", s.handleActivityList)
		r.Get("/activity/calculate", s.handleActivityCalculate)
		r.Post("/bmr/add", s.handleBMRAdd)
		r.Get("/bmr", s.handleBMRList)

		r.Get("/nutrition/calories", s.handleCaloriesReport)
		r.Get("/nutrition/water/intake", s.handleWaterReport)
		r.Get("/nutrition/calories-burned", s.handleBurnedReport)

		r.Get("/search", s.handleFoodSearch)
		r.Get("/FoodCompSpecs", s.handleFoodCompSpecs)
		r.Get("/food/nutrients", s.handleFoodNutrients)
	})

	if s.opts.WebDir != "" {
		r.NotFound(spaFromDisk(s.opts.WebDir).ServeHTTP)
	}
	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.opts.CORSOrigins) == 0 {
		return []string{"http://localhost:*"}
	}
	return s.opts.CORSOrigins
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ping(ctx); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
