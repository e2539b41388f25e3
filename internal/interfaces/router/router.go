package router

import (
	authsvc "papertrade-backend/internal/application/auth"
	portfoliosvc "papertrade-backend/internal/application/portfolio"
	quotesvc "papertrade-backend/internal/application/quotes"
	settlementsvc "papertrade-backend/internal/application/settlement"
	usersvc "papertrade-backend/internal/application/user"
	"papertrade-backend/internal/config"
	"papertrade-backend/internal/infrastructure/database"
	authhandler "papertrade-backend/internal/interfaces/handlers/auth"
	healthhandler "papertrade-backend/internal/interfaces/handlers/health"
	portfoliohandler "papertrade-backend/internal/interfaces/handlers/portfolio"
	quotehandler "papertrade-backend/internal/interfaces/handlers/quotes"
	tradehandler "papertrade-backend/internal/interfaces/handlers/trading"
	userhandler "papertrade-backend/internal/interfaces/handlers/user"
	"papertrade-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with the full middleware chain and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb}
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		hh.DB = &gormDBPinger{db: db}
	}

	oracle := &quotesvc.FinnhubClient{APIKey: cfg.FinnhubAPIKey, Rdb: rdb}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{UserFinder: userFinder, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil {
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us, Config: sessionCfg}
		// register is public; everything below requires a session
		app.Post("/api/v1/users/register", uh.Register)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Patch("/change-password", uh.ChangePassword)

		ss := &settlementsvc.Service{DB: db, Quotes: oracle}
		th := &tradehandler.Handlers{Service: ss}
		tg := app.Group("/api/v1/trading", middleware.RequireAuth())
		tg.Post("/buy", th.Buy)
		tg.Post("/sell", th.Sell)
		tg.Post("/deposit", th.Deposit)

		ps := &portfoliosvc.Service{DB: db, Quotes: oracle}
		ph := &portfoliohandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/portfolio", middleware.RequireAuth())
		pg.Get("/", ph.Portfolio)
		pg.Get("/history", ph.History)
	}

	qh := &quotehandler.Handlers{Client: oracle}
	qg := app.Group("/api/v1/quotes", middleware.RequireAuth())
	qg.Get("/search", qh.Search)
	qg.Get("/:symbol", qh.Quote)

	return app, db, rdb, nil
}
