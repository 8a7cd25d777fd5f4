// Команда loader загружает справочник ингредиентов из JSON или XLSX.
//
//	loader -config config/example.yaml -file data/ingredients.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Spok95/foodgram/internal/config"
	"github.com/Spok95/foodgram/internal/domain/ingredients"
	"github.com/Spok95/foodgram/internal/infra/db"
	"github.com/Spok95/foodgram/internal/infra/logger"
)

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to YAML config")
	file := flag.String("file", "data/ingredients.json", "ingredients file (.json or .xlsx)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.App.Env).With("component", "loader")

	if err := run(cfg, *file, log); err != nil {
		log.Error("load failed", "file", *file, "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, file string, log *slog.Logger) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	items, err := ingredients.Parse(file, data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	inserted, err := ingredients.NewRepo(pool).BulkInsert(ctx, items)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	log.Info("ingredients loaded",
		"file", file,
		"parsed", len(items),
		"inserted", inserted,
		"skipped", int64(len(items))-inserted,
	)
	return nil
}
