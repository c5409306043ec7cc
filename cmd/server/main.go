package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/config"
	"github.com/iliyamo/dog-daycare-reservation/internal/database"
	"github.com/iliyamo/dog-daycare-reservation/internal/handler"
	"github.com/iliyamo/dog-daycare-reservation/internal/middleware"
	"github.com/iliyamo/dog-daycare-reservation/internal/queue"
	"github.com/iliyamo/dog-daycare-reservation/internal/repository"
	"github.com/iliyamo/dog-daycare-reservation/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	dogRepo := repository.NewDogRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Admission engine and read paths. The ceiling comes from config;
	// it is never mutated after this point.
	engine := booking.NewEngine(bookingRepo, dogRepo, booking.NewCapacityPolicy(cfg.DailyCapacity))
	queries := booking.NewQueryService(bookingRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	dogHandler := handler.NewDogHandler(dogRepo)
	bookingHandler := handler.NewBookingHandler(engine, queries, dogRepo)

	e := echo.New()

	// Redis backs the rate limiter and the public-read response cache.
	// A nil client disables both and the service degrades gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterDogs(e, dogHandler, cfg.JWTSecret)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret, cacheMW)

	// Background consumer appending booking.created events to the audit log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, daily capacity=%d)", addr, cfg.Env, engine.Ceiling())

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
