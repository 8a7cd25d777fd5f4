package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/foodgram/internal/api"
	"github.com/Spok95/foodgram/internal/auth"
	"github.com/Spok95/foodgram/internal/bot"
	"github.com/Spok95/foodgram/internal/config"
	"github.com/Spok95/foodgram/internal/domain/ingredients"
	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/domain/recipes"
	"github.com/Spok95/foodgram/internal/domain/relations"
	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/domain/subscriptions"
	"github.com/Spok95/foodgram/internal/domain/users"
	"github.com/Spok95/foodgram/internal/infra/db"
	httpx "github.com/Spok95/foodgram/internal/infra/http"
	"github.com/Spok95/foodgram/internal/infra/links"
	"github.com/Spok95/foodgram/internal/infra/logger"
)

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	tokens, err := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("auth config", "err", err)
		return
	}

	usersRepo := users.NewRepo(pool)
	ingredientsRepo := ingredients.NewRepo(pool)
	recipesRepo := recipes.NewRepo(pool)
	relationsRepo := relations.NewRepo(pool)
	followsRepo := subscriptions.NewRepo(pool)

	ingredientLedger := ledger.New(ledger.NewRepo(pool), ingredientsRepo, log)
	recipeService := recipes.NewService(recipesRepo, ingredientLedger, relationsRepo, db.NewTransactor(pool), log)
	aggregator := shopping.New(shopping.NewRepo(pool), log, shopping.WithLocation(cfg.Location()))
	linkService := links.NewService(cfg.App.BaseURL)

	router := api.NewRouter(api.Deps{
		Log:         log,
		Users:       usersRepo,
		Ingredients: ingredientsRepo,
		Recipes:     recipeService,
		Relations:   relationsRepo,
		Follows:     followsRepo,
		Shopping:    aggregator,
		Tokens:      tokens,
		Links:       linkService,
		ShortLinks:  links.NewHandler(log, recipesRepo),
	})

	srv := httpx.New(cfg.HTTP.Addr, router, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	if cfg.Telegram.Token != "" {
		botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Error("telegram init failed", "err", err)
		} else {
			b := bot.New(botAPI, log, usersRepo, aggregator)
			go func() {
				if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("bot stopped", "err", err)
				}
			}()
			log.Info("telegram bot started", "username", botAPI.Self.UserName)
		}
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
