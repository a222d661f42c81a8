package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/flowtada/crm/internal/config"
	"github.com/flowtada/crm/internal/infra/database"
	"github.com/flowtada/crm/internal/infra/http/handlers"
	"github.com/flowtada/crm/internal/infra/http/middleware"
	"github.com/flowtada/crm/internal/infra/mail"
	"github.com/flowtada/crm/internal/infra/queue"
	"github.com/flowtada/crm/internal/infra/token"
	"github.com/flowtada/crm/internal/usecase"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	// Declared feature flags with no implemented code paths; logged so
	// operators can see what a deployment claims to enable.
	logger.Info("starting flowtada-crm",
		zap.String("addr", cfg.Addr),
		zap.Bool("feature_multi_tenant", cfg.FeatureMultiTenant),
		zap.Bool("feature_realtime", cfg.FeatureRealtime),
		zap.Strings("locales", cfg.Locales),
	)

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
	if err != nil {
		logger.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	defer rabbitMQ.Close()

	// Repositories
	customerRepo := database.NewCustomerRepository(db)
	companyRepo := database.NewCompanyRepository(db)
	dealRepo := database.NewDealRepository(db)
	interactionRepo := database.NewInteractionRepository(db)
	userRepo := database.NewUserRepository(db)

	// Collaborators
	producer := queue.NewProducer(rabbitMQ.Ch)
	tokenStore := token.NewStore(rdb, cfg.CredentialTTL)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.SalesEmail)

	// Notification worker drains the queue and delivers email out-of-band.
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender, logger)
	go worker.Start(queue.QueueName)

	// Use cases
	credentialService := usecase.NewCredentialService(userRepo, tokenStore, producer, cfg.BaseURL+"/portal/login/", logger)
	intakeUC := usecase.NewIntakeUseCase(customerRepo, companyRepo, credentialService, producer, logger)
	portalUC := usecase.NewPortalUseCase(customerRepo, dealRepo, interactionRepo)
	authUC := usecase.NewAuthUseCase(userRepo, tokenStore, logger)

	// Handlers
	sessions := middleware.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	pagesHandler := handlers.NewPagesHandler(logger)
	intakeHandler := handlers.NewIntakeHandler(intakeUC)
	authHandler := handlers.NewAuthHandler(authUC, sessions, pagesHandler)
	portalHandler := handlers.NewPortalHandler(portalUC)
	adminHandler := handlers.NewAdminHandler(customerRepo, companyRepo, dealRepo, interactionRepo)
	healthHandler := handlers.NewHealthHandler(db, rdb, rabbitMQ.Conn)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Marketing site
	r.Get("/", pagesHandler.Home)
	r.Get("/about/", pagesHandler.About)
	r.Get("/pricing/", pagesHandler.Pricing)

	// Public intake, no CSRF or session: anonymous JSON forms.
	r.Post("/api/contact/", intakeHandler.Contact)
	r.Post("/api/trial-signup/", intakeHandler.TrialSignup)

	// Portal
	r.Get("/portal/login/", authHandler.LoginPage)
	r.Post("/portal/login/", authHandler.Login)
	r.Get("/portal/logout/", authHandler.Logout)
	r.Post("/portal/logout/", authHandler.Logout)
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireSession)
		r.Post("/portal/password/", authHandler.SetPassword)
		r.Get("/portal/dashboard/", portalHandler.Dashboard)
		r.Get("/portal/profile/", portalHandler.Profile)
		r.Post("/portal/profile/", portalHandler.Profile)
		r.Get("/portal/deals/", portalHandler.Deals)
		r.Get("/portal/interactions/", portalHandler.Interactions)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(sessions.RequireSession)
		r.Mount("/", adminHandler.Routes())
	})

	// Ops
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
