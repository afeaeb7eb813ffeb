package app

import (
	"net/http"

	"gorm.io/gorm"

	"tutormatch-go/internal/config"
	"tutormatch-go/internal/db"
	applicationsdomain "tutormatch-go/internal/domain/applications"
	contractsdomain "tutormatch-go/internal/domain/contracts"
	identitydomain "tutormatch-go/internal/domain/identity"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	tutorsdomain "tutormatch-go/internal/domain/tutors"
	inmemoryrepo "tutormatch-go/internal/repository/inmemory"
	applicationspg "tutormatch-go/internal/repository/postgres/applications"
	contractspg "tutormatch-go/internal/repository/postgres/contracts"
	identitypg "tutormatch-go/internal/repository/postgres/identity"
	jobspg "tutormatch-go/internal/repository/postgres/jobs"
	tutorspg "tutormatch-go/internal/repository/postgres/tutors"
	redisrepo "tutormatch-go/internal/repository/redis"
	"tutormatch-go/internal/transport/httpserver"
	"tutormatch-go/internal/transport/httpserver/handler"
	authmw "tutormatch-go/internal/transport/httpserver/middleware"
	"tutormatch-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
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

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var categoryCache jobsdomain.CategoryCache
	if cfg.Redis.Enabled {
		log.Info("app: using redis category cache", "addr", cfg.Redis.Addr)
		client := redisrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		categoryCache = redisrepo.NewCategoryCache(client)
	} else {
		categoryCache = inmemoryrepo.NewCategoryCache()
	}

	identityService := identitydomain.NewService(identitypg.NewPostgres(dbConn))
	tutorsService := tutorsdomain.NewService(tutorspg.NewPostgres(dbConn))
	jobsService := jobsdomain.NewService(jobspg.NewPostgres(dbConn), categoryCache, cfg.Redis.CacheTTL)
	applicationsService := applicationsdomain.NewService(applicationspg.NewPostgres(dbConn))
	contractsService := contractsdomain.NewService(contractspg.NewPostgres(dbConn))

	auth := authmw.NewJWTAuth(cfg.Auth, log)

	handlers := handler.New(
		identityService,
		tutorsService,
		jobsService,
		applicationsService,
		contractsService,
		auth,
		log,
	)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, auth, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
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
