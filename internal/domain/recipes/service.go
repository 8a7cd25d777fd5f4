// Package recipes — рецепты: создание и обновление вместе с составом в одной
// транзакции, проверка авторства, выдача с отметками избранного и корзины.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/domain/relations"
)

var (
	ErrNotFound  = errors.New("recipes: not found")
	ErrForbidden = errors.New("recipes: only the author can change the recipe")
)

type Store interface {
	Insert(ctx context.Context, authorID int64, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Recipe, error)
	List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, error)
	Count(ctx context.Context, viewerID int64, f Filter) (int, error)
}

type Ledger interface {
	SetIngredients(ctx context.Context, recipeID int64, entries []ledger.Entry) error
	Entries(ctx context.Context, recipeID int64) ([]ledger.Line, error)
	EntriesByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]ledger.Line, error)
}

type Marks interface {
	Marked(ctx context.Context, userID int64, recipeIDs []int64, kind relations.Kind) (map[int64]bool, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	store  Store
	ledger Ledger
	marks  Marks
	tx     Transactor
	log    *slog.Logger
}

func NewService(store Store, l Ledger, marks Marks, tx Transactor, log *slog.Logger) *Service {
	return &Service{store: store, ledger: l, marks: marks, tx: tx, log: log.With("component", "recipes")}
}

func (s *Service) Create(ctx context.Context, authorID int64, in Input) (*Recipe, error) {
	if err := ledger.Validate(in.Ingredients); err != nil {
		return nil, err
	}
	var id int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if id, err = s.store.Insert(ctx, authorID, in); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return s.ledger.SetIngredients(ctx, id, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("recipe created", "recipe_id", id, "author_id", authorID)
	return s.Get(ctx, authorID, id)
}

// Update полностью заменяет поля и состав рецепта.
func (s *Service) Update(ctx context.Context, actorID, recipeID int64, in Input) (*Recipe, error) {
	if err := ledger.Validate(in.Ingredients); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, recipeID); err != nil {
		return nil, err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.store.Update(ctx, recipeID, in); err != nil {
			return err
		}
		return s.ledger.SetIngredients(ctx, recipeID, in.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("recipe updated", "recipe_id", recipeID)
	return s.Get(ctx, actorID, recipeID)
}

// SetIngredients заменяет только состав рецепта.
func (s *Service) SetIngredients(ctx context.Context, actorID, recipeID int64, entries []ledger.Entry) ([]ledger.Line, error) {
	if err := s.authorize(ctx, actorID, recipeID); err != nil {
		return nil, err
	}
	if err := s.ledger.SetIngredients(ctx, recipeID, entries); err != nil {
		if errors.Is(err, ledger.ErrRecipeNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.ledger.Entries(ctx, recipeID)
}

func (s *Service) Delete(ctx context.Context, actorID, recipeID int64) error {
	if err := s.authorize(ctx, actorID, recipeID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, recipeID); err != nil {
		return err
	}
	s.log.Info("recipe deleted", "recipe_id", recipeID)
	return nil
}

// Get возвращает рецепт с составом; viewerID == 0 — анонимный зритель.
func (s *Service) Get(ctx context.Context, viewerID, recipeID int64) (*Recipe, error) {
	rc, err := s.store.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, ErrNotFound
	}
	if rc.Ingredients, err = s.ledger.Entries(ctx, recipeID); err != nil {
		return nil, err
	}
	list := []Recipe{*rc}
	if err := s.mark(ctx, viewerID, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List возвращает страницу рецептов и общее число подходящих под фильтр.
// Для анонима фильтры избранного и корзины не применяются.
func (s *Service) List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, int, error) {
	if viewerID == 0 {
		f.Favorited, f.InShoppingCart = false, false
	}
	total, err := s.store.Count(ctx, viewerID, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, viewerID, f)
	if err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	lines, err := s.ledger.EntriesByRecipes(ctx, ids(items))
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Ingredients = lines[items[i].ID]
		if items[i].Ingredients == nil {
			items[i].Ingredients = []ledger.Line{}
		}
	}
	if err := s.mark(ctx, viewerID, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) authorize(ctx context.Context, actorID, recipeID int64) error {
	rc, err := s.store.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if rc == nil {
		return ErrNotFound
	}
	if rc.Author.ID != actorID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) mark(ctx context.Context, viewerID int64, items []Recipe) error {
	if viewerID == 0 {
		return nil
	}
	recipeIDs := ids(items)
	fav, err := s.marks.Marked(ctx, viewerID, recipeIDs, relations.KindFavorite)
	if err != nil {
		return err
	}
	cart, err := s.marks.Marked(ctx, viewerID, recipeIDs, relations.KindShoppingCart)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].IsFavorited = fav[items[i].ID]
		items[i].IsInShoppingCart = cart[items[i].ID]
	}
	return nil
}

func ids(items []Recipe) []int64 {
	out := make([]int64, 0, len(items))
	for _, rc := range items {
		out = append(out, rc.ID)
	}
	return out
}
