package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/campus-space-booking/internal/approval"
	"github.com/iliyamo/campus-space-booking/internal/config"
	"github.com/iliyamo/campus-space-booking/internal/database"
	"github.com/iliyamo/campus-space-booking/internal/handler"
	"github.com/iliyamo/campus-space-booking/internal/middleware"
	"github.com/iliyamo/campus-space-booking/internal/notify"
	"github.com/iliyamo/campus-space-booking/internal/queue"
	"github.com/iliyamo/campus-space-booking/internal/repository"
	"github.com/iliyamo/campus-space-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // load .env when present; real env wins

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: dedupe and rate limiting degrade gracefully
	// when it is absent.
	rdb := config.NewRedisClient()

	reservations := repository.NewReservationRepo(db)
	events := repository.NewEventRepo(db)
	rooms := repository.NewRoomRepo(db)
	orgs := repository.NewOrganizationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	binder := approval.NewRoomBinder(rooms)
	resolver := approval.NewRecipientResolver(users)
	dispatcher := notify.NewQueueDispatcher(rdb)
	flow := approval.NewOrchestrator(reservations, events, orgs, binder, resolver, dispatcher)

	// Notification consumer runs alongside the API and reconnects on
	// broker failure.
	go func() {
		if err := queue.StartNoticeConsumer(); err != nil {
			log.Printf("notice consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewFixedWindow(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret, limiter)
	router.RegisterReservations(e, handler.NewReservationHandler(reservations, orgs, flow), cfg.JWTSecret)
	router.RegisterReview(e, handler.NewReviewHandler(reservations, flow), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(orgs, events))
	router.RegisterRooms(e, handler.NewRoomHandler(rooms), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
