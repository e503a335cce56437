package main // Entry point package

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mgaillard/cinema-listings/internal/config"
	"github.com/mgaillard/cinema-listings/internal/database"
	"github.com/mgaillard/cinema-listings/internal/handler"
	"github.com/mgaillard/cinema-listings/internal/queue"
	"github.com/mgaillard/cinema-listings/internal/repository"
	"github.com/mgaillard/cinema-listings/internal/router"
	queue_publisher "github.com/mgaillard/cinema-listings/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	// The DB handle is constructed here and closed at shutdown; nothing
	// else in the process owns a connection.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables the response cache
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Println("redis unavailable, response cache disabled")
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	screenings := repository.NewScreeningRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	movieHandler := handler.NewMovieHandler(movies, screenings, queue_publisher.Publisher{})

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.SessionSecret)
	router.RegisterCatalogue(e, movieHandler, cfg.SessionSecret, rdb, config.LoadCacheConfig())

	// Audit consumer runs for the life of the process and reconnects on
	// broker failures.
	go func() {
		if err := queue.StartCatalogueConsumer(); err != nil {
			log.Printf("catalogue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
