package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mpetrovskiy/reward-service/internal/config"
	"github.com/mpetrovskiy/reward-service/internal/handler"
	"github.com/mpetrovskiy/reward-service/internal/repository"
	"github.com/mpetrovskiy/reward-service/internal/service"
	"github.com/mpetrovskiy/reward-service/internal/utils"
	"github.com/mpetrovskiy/reward-service/pkg/observability"
	"github.com/mpetrovskiy/reward-service/pkg/payment"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry.Duration)

	blacklistService := service.NewTokenBlacklistService(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	rewardMetrics, err := observability.NewRewardMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reward metrics: %w", err)
	}

	notifier := service.NewNotifier(infra.Mailer(), infra.Queue(), repos.DeviceToken, cfg.FrontendURL, infra.Logger())
	gateway := payment.NewStripeGateway(cfg.Stripe.APIKey)

	authService := service.NewAuthService(
		repos,
		repos,
		jwtManager,
		blacklistService,
		notifier,
		rewardMetrics,
		cfg.Security.BCryptCost,
		cfg.Security.ResetTokenTTL.Duration,
		infra.Logger(),
	)
	activityService := service.NewActivityService(repos)
	paymentService := service.NewPaymentService(repos, repos, gateway, infra.Logger())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, activityService, infra.Storage(), infra.Logger())
	paymentHandler := handler.NewPaymentHandler(paymentService)
	serviceHandler := handler.NewServiceHandler(infra.Storage(), infra.Queue(), infra.Logger())

	router := gin.Default()
	router.Use(otelgin.Middleware("reward-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, userHandler, paymentHandler, serviceHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	paymentHandler *handler.PaymentHandler,
	serviceHandler *handler.ServiceHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimit := handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)
	authRequired := handler.AuthMiddleware(authService)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", rateLimit, authHandler.Register)
			auth.POST("/login", rateLimit, authHandler.Login)
			auth.POST("/forgot-password", rateLimit, authHandler.ForgotPassword)
			auth.POST("/reset-password", rateLimit, authHandler.ResetPassword)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.POST("/change-password", authRequired, authHandler.ChangePassword)
			auth.GET("/me", authRequired, authHandler.GetMe)
		}

		users := api.Group("/users", authRequired)
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.GET("/activity", userHandler.GetActivity)
		}

		payments := api.Group("/payments", authRequired)
		{
			payments.POST("/customer", paymentHandler.CreateCustomer)
			payments.POST("/cards", paymentHandler.AddCard)
			payments.POST("/charges", paymentHandler.Charge)
		}

		api.POST("/uploads", authRequired, serviceHandler.Upload)
		api.POST("/queue/messages", authRequired, serviceHandler.PublishMessage)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
