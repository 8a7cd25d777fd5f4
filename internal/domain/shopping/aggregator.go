// Package shopping собирает список покупок: рецепты из корзины пользователя
// и суммарное количество каждого ингредиента по ним.
package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Spok95/foodgram/internal/infra/metrics"
)

type Source interface {
	// Snapshot вызывает fn так, чтобы все чтения внутри видели одно состояние корзины.
	Snapshot(ctx context.Context, fn func(ctx context.Context) error) error
	CartRecipes(ctx context.Context, userID int64) ([]CartRecipe, error)
	CartIngredients(ctx context.Context, userID int64) ([]CartIngredient, error)
}

type Aggregator struct {
	src Source
	log *slog.Logger
	now func() time.Time
	loc *time.Location
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLocation задаёт часовой пояс отметки времени в отчёте.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.loc = loc
		}
	}
}

func New(src Source, log *slog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		src: src,
		log: log.With("component", "shopping"),
		now: time.Now,
		loc: time.UTC,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// BuildReport читает корзину и строит отчёт. Пустая корзина — пустой отчёт, не ошибка.
func (a *Aggregator) BuildReport(ctx context.Context, userID int64) (*Report, error) {
	start := time.Now()
	defer func() { metrics.ShoppingReportDuration.Observe(time.Since(start).Seconds()) }()

	var (
		recipes []CartRecipe
		items   []CartIngredient
	)
	err := a.src.Snapshot(ctx, func(ctx context.Context) error {
		var err error
		if recipes, err = a.src.CartRecipes(ctx, userID); err != nil {
			return fmt.Errorf("cart recipes: %w", err)
		}
		if items, err = a.src.CartIngredients(ctx, userID); err != nil {
			return fmt.Errorf("cart ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep := &Report{
		GeneratedAt: a.now().In(a.loc),
		Recipes:     make([]RecipeSummary, 0, len(recipes)),
		Ingredients: Aggregate(items),
	}
	for _, r := range recipes {
		rep.Recipes = append(rep.Recipes, RecipeSummary{Name: r.Name, Author: r.Author})
	}

	a.log.Debug("shopping list built",
		"user_id", userID,
		"recipes", len(rep.Recipes),
		"ingredients", len(rep.Ingredients),
	)
	return rep, nil
}

// Aggregate суммирует количества по паре (название, единица) и сортирует результат:
// по названию без учёта регистра, затем по единице, затем по исходному названию.
// Названия в результате с заглавной буквы.
func Aggregate(items []CartIngredient) []IngredientSummary {
	type key struct{ name, unit string }
	totals := make(map[key]int, len(items))
	for _, it := range items {
		totals[key{it.Name, it.MeasurementUnit}] += it.Amount
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i].name), strings.ToLower(keys[j].name)
		if li != lj {
			return li < lj
		}
		if keys[i].unit != keys[j].unit {
			return keys[i].unit < keys[j].unit
		}
		return keys[i].name < keys[j].name
	})

	out := make([]IngredientSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, IngredientSummary{
			Name:            capitalize(k.name),
			MeasurementUnit: k.unit,
			Total:           totals[k],
		})
	}
	return out
}

// capitalize: первая буква заглавная, остальные строчные.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
