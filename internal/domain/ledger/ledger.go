// Package ledger хранит состав рецептов: какие ингредиенты и в каком количестве.
// Набор всегда заменяется целиком и атомарно; в одном рецепте ингредиент встречается один раз.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Spok95/foodgram/internal/infra/metrics"
)

// MaxAmount — предел колонки amount (INTEGER).
const MaxAmount = math.MaxInt32

type Store interface {
	// Replace атомарно заменяет весь набор позиций рецепта.
	Replace(ctx context.Context, recipeID int64, entries []Entry) error
	Lines(ctx context.Context, recipeID int64) ([]Line, error)
	LinesByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]Line, error)
}

type IngredientChecker interface {
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type Ledger struct {
	store       Store
	ingredients IngredientChecker
	log         *slog.Logger
}

func New(store Store, ingredients IngredientChecker, log *slog.Logger) *Ledger {
	return &Ledger{store: store, ingredients: ingredients, log: log.With("component", "ledger")}
}

// Validate проверяет набор без обращения к БД: не пустой, без повторов, количества от 1 до MaxAmount.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return emptyIngredients()
	}
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.IngredientID]; dup {
			return duplicateIngredient()
		}
		seen[e.IngredientID] = struct{}{}
	}
	for _, e := range entries {
		if e.Amount < 1 {
			return invalidAmount()
		}
		if e.Amount > MaxAmount {
			return amountTooLarge()
		}
	}
	return nil
}

func (l *Ledger) SetIngredients(ctx context.Context, recipeID int64, entries []Entry) error {
	if err := Validate(entries); err != nil {
		return l.reject(recipeID, err)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.IngredientID)
	}
	missing, err := l.ingredients.MissingIDs(ctx, ids)
	if err != nil {
		metrics.LedgerReplacements.WithLabelValues("error").Inc()
		return fmt.Errorf("check ingredients: %w", err)
	}
	if len(missing) > 0 {
		l.log.Debug("unknown ingredients", "recipe_id", recipeID, "ids", missing)
		return l.reject(recipeID, unknownIngredient())
	}

	if err := l.store.Replace(ctx, recipeID, entries); err != nil {
		if verr := fromStorage(err); verr != nil {
			return l.reject(recipeID, verr)
		}
		metrics.LedgerReplacements.WithLabelValues("error").Inc()
		if errors.Is(err, ErrRecipeNotFound) {
			return err
		}
		return fmt.Errorf("replace recipe %d ingredients: %w", recipeID, err)
	}

	metrics.LedgerReplacements.WithLabelValues("ok").Inc()
	l.log.Debug("ingredients replaced", "recipe_id", recipeID, "count", len(entries))
	return nil
}

func (l *Ledger) Entries(ctx context.Context, recipeID int64) ([]Line, error) {
	return l.store.Lines(ctx, recipeID)
}

// EntriesByRecipes отдаёт составы нескольких рецептов одним запросом.
func (l *Ledger) EntriesByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]Line, error) {
	return l.store.LinesByRecipes(ctx, recipeIDs)
}

func (l *Ledger) reject(recipeID int64, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		metrics.LedgerValidationErrors.WithLabelValues(verr.Code()).Inc()
		l.log.Info("ingredients rejected", "recipe_id", recipeID, "code", verr.Code())
	}
	metrics.LedgerReplacements.WithLabelValues("invalid").Inc()
	return err
}
