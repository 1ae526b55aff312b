package app

import (
	"context"
	"log"
	"os"
	"time"

	"internmatch/internal/config"
	"internmatch/internal/database"
	dbpostgres "internmatch/internal/database/postgres"
	"internmatch/internal/delivery/http/handler"
	"internmatch/internal/delivery/http/middleware"
	"internmatch/internal/delivery/http/routes"
	"internmatch/internal/infrastructure/cache"
	"internmatch/internal/infrastructure/oauth"
	"internmatch/internal/infrastructure/storage"
	"internmatch/internal/pkg/jwt"
	"internmatch/internal/repository"
	"internmatch/internal/session"
	ucapplication "internmatch/internal/usecase/application"
	ucauth "internmatch/internal/usecase/auth"
	uccompany "internmatch/internal/usecase/company"
	ucinternship "internmatch/internal/usecase/internship"
	ucmessage "internmatch/internal/usecase/message"
	"internmatch/internal/usecase/orchestrator"
	"internmatch/internal/usecase/provision"
	"internmatch/internal/usecase/resolver"
	ucstudent "internmatch/internal/usecase/student"
	"internmatch/internal/ws"
)

// Container wires configuration, infrastructure, repositories, usecases,
// and delivery into one graph.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis

	Events       *session.Events
	Orchestrator *orchestrator.Orchestrator
	Hub          *ws.Hub

	Routes *routes.Registry
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)

	profileRepo := repository.NewPostgresProfileRepository(db)
	studentRepo := repository.NewPostgresStudentRepository(db)
	companyRepo := repository.NewPostgresCompanyRepository(db)
	authUserRepo := repository.NewPostgresAuthUserRepository(db)
	internshipRepo := repository.NewPostgresInternshipRepository(db)
	applicationRepo := repository.NewPostgresApplicationRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	tokenStore := session.NewRedisTokenStore(redisCache.Client())
	events := session.NewEvents(logger)

	var uploader *storage.Uploader
	if cfg.Storage.Endpoint != "" {
		uploader, err = storage.NewUploader(cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	providers := buildOAuthRegistry(cfg.OAuth)

	provisioner := provision.NewService(
		profileRepo, studentRepo, companyRepo, redisCache,
		provision.Options{
			ProfileInsertAttempts: cfg.Provision.ProfileInsertAttempts,
			RetryDelay:            cfg.Provision.RetryDelay,
			SettleDelay:           cfg.Provision.SettleDelay,
		},
		logger,
	)
	resolverSvc := resolver.NewService(profileRepo, studentRepo, companyRepo, redisCache, logger)

	authSvc := ucauth.NewService(authUserRepo, tokenStore, jwtSvc, provisioner, providers, events, logger)
	studentSvc := ucstudent.NewService(studentRepo, uploaderOrNil(uploader), redisCache, logger)
	companySvc := uccompany.NewService(companyRepo, logoUploaderOrNil(uploader), redisCache, logger)
	internshipSvc := ucinternship.NewService(internshipRepo, companyRepo, logger)
	applicationSvc := ucapplication.NewService(applicationRepo, internshipRepo, studentRepo, companyRepo, logger)

	hub := ws.NewHub(logger)
	messageSvc := ucmessage.NewService(messageRepo, hub, logger)

	directions := handler.NewDirections()
	profileCache := orchestrator.NewLocalProfileCache()
	resolverSvc.SetSink(profileCache)

	orch := orchestrator.New(
		events, resolverSvc, provisioner, profileCache,
		directions, directions, cfg.Provision.SettleDelay, logger,
	)

	registry := &routes.Registry{
		Health:       handler.NewHealthHandler(),
		Auth:         handler.NewAuthHandler(authSvc),
		Directions:   handler.NewDirectionsHandler(directions),
		Students:     handler.NewStudentHandler(studentSvc),
		Companies:    handler.NewCompanyHandler(companySvc),
		Internships:  handler.NewInternshipHandler(internshipSvc),
		Applications: handler.NewApplicationHandler(applicationSvc),
		Messages:     handler.NewMessageHandler(messageSvc),
		WS:           ws.NewHandler(hub, logger),

		AuthMW:   middleware.NewAuthMiddleware(jwtSvc),
		ErrorMW:  middleware.NewErrorMiddleware(),
		AccessMW: middleware.NewAccessLogMiddleware(logger),
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		Cache:        redisCache,
		Events:       events,
		Orchestrator: orch,
		Hub:          hub,
		Routes:       registry,
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func buildOAuthRegistry(cfg config.OAuthConfig) *oauth.Registry {
	var providers []oauth.Provider
	if cfg.GitHubClientID != "" {
		providers = append(providers, oauth.NewGitHubProvider(oauth.GitHubConfig{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.RedirectBaseURL + "/api/v1/auth/oauth/github/callback",
		}))
	}
	if cfg.LinkedInClientID != "" {
		providers = append(providers, oauth.NewLinkedInProvider(oauth.LinkedInConfig{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  cfg.RedirectBaseURL + "/api/v1/auth/oauth/linkedin/callback",
		}))
	}
	return oauth.NewRegistry(providers...)
}

// A typed nil *storage.Uploader inside a non-nil interface would defeat the
// nil checks in the usecases, so map nil to nil explicitly.
func uploaderOrNil(u *storage.Uploader) ucstudent.AvatarUploader {
	if u == nil {
		return nil
	}
	return u
}

func logoUploaderOrNil(u *storage.Uploader) uccompany.LogoUploader {
	if u == nil {
		return nil
	}
	return u
}
