package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/config"
	"github.com/iliyamo/charity-donation-platform/internal/database"
	"github.com/iliyamo/charity-donation-platform/internal/handler"
	"github.com/iliyamo/charity-donation-platform/internal/middleware"
	"github.com/iliyamo/charity-donation-platform/internal/queue"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
	"github.com/iliyamo/charity-donation-platform/internal/router"
	"github.com/iliyamo/charity-donation-platform/internal/service"
	"github.com/iliyamo/charity-donation-platform/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, "migrations"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	files, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("init upload store: %v", err)
	}

	profiles := repository.NewProfileRepo(db)
	accounts := repository.NewAccountRepo(db, profiles)
	campaigns := repository.NewCampaignRepo(db)
	donations := repository.NewDonationRepo(db)

	provisioner := service.NewProvisioner(accounts, cfg.AdminAccessCode, cfg.BcryptCost)
	sessions := service.NewSessionIssuer(accounts, profiles, cfg.JWTSecret, cfg.TokenTTL)

	var rateLimit, cache echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	} else {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	queue.StartAuditConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 30 * time.Second

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(provisioner, sessions, accounts, files),
		Admin:     handler.NewAdminHandler(profiles),
		Campaigns: handler.NewCampaignHandler(campaigns, files),
		Donations: handler.NewDonationHandler(donations),
		JWTSecret: cfg.JWTSecret,
		RateLimit: rateLimit,
		Cache:     cache,
		UploadDir: cfg.UploadDir,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
