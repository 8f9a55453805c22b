package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutritrack/internal/adapter/foodapi"
	adapthttp "nutritrack/internal/adapter/http"
	"nutritrack/internal/app"
	"nutritrack/internal/config"
	"nutritrack/internal/domain"
	"nutritrack/internal/jobs"
	"nutritrack/internal/metrics"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server.

Migrations are applied on start when STORAGE=postgres. Expired sessions are
swept on SESSION_SWEEP_SCHEDULE. SIGINT or SIGTERM drains in-flight requests
before exiting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	m := metrics.New()
	food := foodapi.New(cfg.FoodAPIBaseURL, cfg.FoodAPIKey, cfg.FoodAPITimeout)
	food.OnRequest(m.FoodAPIRequest)
	if cfg.FoodAPIKey == "" {
		logger.Warn("FOOD_API_KEY is not set; food lookups will be rejected upstream")
	}

	policy := domain.NewOwnershipPolicy(b.repo)
	auth := b.authService(cfg)
	svc := adapthttp.Services{
		Auth:        auth,
		Users:       app.NewUserService(b.repo, policy),
		Meals:       app.NewMealService(b.repo, policy),
		Intakes:     app.NewIntakeService(b.repo, policy),
		Ingredients: app.NewIngredientService(b.repo, policy),
		Water:       app.NewWaterService(b.repo, policy),
		Activities:  app.NewActivityService(b.repo, b.repo),
		Reports:     app.NewReportService(b.repo),
		Food:        app.NewFoodService(food),
	}

	oidcCfg, err := setupOIDC(ctx, cfg)
	if err != nil {
		return err
	}

	sweeper := jobs.NewSessionSweeper(auth, logger.Named("sweeper"), m.SessionsPruned)
	if err := sweeper.Start(cfg.SessionSweepSchedule); err != nil {
		return fmt.Errorf("session sweeper: %w", err)
	}

	h := adapthttp.New(svc, adapthttp.Options{
		Logger:          logger.Named("http"),
		Metrics:         m,
		CookieSecure:    cfg.CookieSecure,
		CORSOrigins:     cfg.CORSOrigins,
		LoginRatePerMin: cfg.LoginRatePerMin,
		WebDir:          cfg.WebDir,
		OIDC:            oidcCfg,
		Ping:            b.Ping,
	}).Handler()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("sso", oidcCfg.Enabled))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sweeper.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func setupOIDC(ctx context.Context, c *config.Config) (adapthttp.OIDCConfig, error) {
	if !c.OIDCEnabled() {
		return adapthttp.OIDCConfig{}, nil
	}
	provider, err := oidc.NewProvider(ctx, c.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, fmt.Errorf("oidc provider %s: %w", c.OIDCIssuer, err)
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     c.OIDCClientID,
			ClientSecret: c.OIDCClientSecret,
			RedirectURL:  c.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
