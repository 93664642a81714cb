package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"family-finance-go/internal/auth"
	"family-finance-go/internal/config"
	"family-finance-go/internal/db"
	"family-finance-go/internal/domain/access"
	assetsdomain "family-finance-go/internal/domain/assets"
	documentsdomain "family-finance-go/internal/domain/documents"
	familydomain "family-finance-go/internal/domain/family"
	identitydomain "family-finance-go/internal/domain/identity"
	insightsdomain "family-finance-go/internal/domain/insights"
	notificationsdomain "family-finance-go/internal/domain/notifications"
	transactionsdomain "family-finance-go/internal/domain/transactions"
	"family-finance-go/internal/jobs"
	"family-finance-go/internal/repository/inmemory"
	assetsrepo "family-finance-go/internal/repository/postgres/assets"
	documentsrepo "family-finance-go/internal/repository/postgres/documents"
	familyrepo "family-finance-go/internal/repository/postgres/family"
	identityrepo "family-finance-go/internal/repository/postgres/identity"
	insightsrepo "family-finance-go/internal/repository/postgres/insights"
	notificationsrepo "family-finance-go/internal/repository/postgres/notifications"
	transactionsrepo "family-finance-go/internal/repository/postgres/transactions"
	"family-finance-go/internal/storage"
	"family-finance-go/internal/transport/httpserver"
	"family-finance-go/internal/transport/httpserver/handler"
	commonhandler "family-finance-go/internal/transport/httpserver/handler/common"
	documentshandler "family-finance-go/internal/transport/httpserver/handler/documents"
	financehandler "family-finance-go/internal/transport/httpserver/handler/finance"
	groupshandler "family-finance-go/internal/transport/httpserver/handler/groups"
	notificationshandler "family-finance-go/internal/transport/httpserver/handler/notifications"
	"family-finance-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	services   *Services
	log        logger.Logger
}

// Services is the wired domain layer shared by the HTTP router and the jobs.
type Services struct {
	Tokens        *auth.TokenManager
	Identity      *identitydomain.Service
	Families      *familydomain.Service
	Assets        *assetsdomain.Service
	Transactions  *transactionsdomain.Service
	Documents     *documentsdomain.Service
	Notifications *notificationsdomain.Service
	Insights      *insightsdomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn, log); err != nil {
		return nil, err
	}

	log.Info("app: initializing blob storage", "driver", cfg.Storage.Driver)
	blobs, err := newBlobStore(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	services := NewServices(cfg, dbConn, blobs, log)

	if cfg.Bootstrap.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := services.Identity.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			log.Info("app: bootstrap admin created", "email", cfg.Bootstrap.AdminEmail)
		}
	}

	log.Info("app: initializing router")
	router := NewRouter(cfg, services, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		services:   services,
		log:        log,
	}, nil
}

// NewServices wires repositories, the access engine and the domain services.
func NewServices(cfg config.Config, dbConn *gorm.DB, blobs documentsdomain.BlobStore, log logger.Logger) *Services {
	familyRepo := familyrepo.NewPostgres(dbConn)
	engine := access.NewEngine(familyRepo)

	identityService := identitydomain.NewService(identityrepo.NewPostgres(dbConn), blobs, log)
	familyService := familydomain.NewService(familyRepo, engine, blobs, log)
	notificationsService := notificationsdomain.NewService(notificationsrepo.NewPostgres(dbConn))

	assetRepo := assetsrepo.NewPostgres(dbConn)
	assetsService := assetsdomain.NewService(assetRepo, familyService, engine)
	transactionsService := transactionsdomain.NewService(
		transactionsrepo.NewPostgres(dbConn),
		assetRepo,
		familyService,
		engine,
		notificationsService,
		log,
	)
	documentsService := documentsdomain.NewService(documentsrepo.NewPostgres(dbConn), blobs, familyService, engine, log)
	insightsService := insightsdomain.NewService(insightsrepo.NewPostgres(dbConn), engine, notificationsService, cfg.Insights.BudgetRatio)

	return &Services{
		Tokens:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Identity:      identityService,
		Families:      familyService,
		Assets:        assetsService,
		Transactions:  transactionsService,
		Documents:     documentsService,
		Notifications: notificationsService,
		Insights:      insightsService,
	}
}

func NewRouter(cfg config.Config, services *Services, log logger.Logger) http.Handler {
	handlers := handler.New(
		commonhandler.New(services.Identity, services.Tokens, log),
		groupshandler.New(services.Families, log),
		financehandler.New(services.Assets, services.Transactions, services.Insights, log),
		documentshandler.New(services.Documents, log),
		notificationshandler.New(services.Notifications, log),
	)
	return httpserver.NewRouter(cfg, handlers, services.Tokens, log)
}

func newBlobStore(cfg config.StorageConfig, log logger.Logger) (documentsdomain.BlobStore, error) {
	if cfg.Driver != config.StorageDriverMinIO {
		log.Warn("app: using in-memory blob storage, documents are lost on restart")
		return inmemory.NewBlobStore(), nil
	}

	store, err := storage.NewMinIOStore(cfg, log)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	return store, nil
}

// StartJobs launches background workers; they stop when ctx is cancelled.
func (a *App) StartJobs(ctx context.Context) {
	if !a.cfg.Reminders.Enabled {
		a.log.Info("app: expiry reminders disabled")
		return
	}
	reminder := jobs.NewExpiryReminder(
		a.services.Documents,
		a.services.Families,
		a.services.Notifications,
		a.cfg.Reminders.Interval,
		a.cfg.Reminders.Lookahead,
		a.log,
	)
	go reminder.Run(ctx)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
