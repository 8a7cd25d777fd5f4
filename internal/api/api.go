// Package api — HTTP API поверх chi: пользователи, подписки, ингредиенты,
// рецепты, избранное, корзина и выгрузка списка покупок.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Spok95/foodgram/internal/domain/ingredients"
	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/domain/recipes"
	"github.com/Spok95/foodgram/internal/domain/relations"
	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/domain/subscriptions"
	"github.com/Spok95/foodgram/internal/domain/users"
)

type UserStore interface {
	Create(ctx context.Context, nu users.NewUser) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	List(ctx context.Context, limit, offset int) ([]users.User, error)
	Count(ctx context.Context) (int, error)
	SetTelegramID(ctx context.Context, userID, tgID int64) error
	SetAvatar(ctx context.Context, userID int64, avatar string) error
	SetPassword(ctx context.Context, userID int64, password string) error
}

type IngredientStore interface {
	GetByID(ctx context.Context, id int64) (*ingredients.Ingredient, error)
	Search(ctx context.Context, prefix string) ([]ingredients.Ingredient, error)
}

type RecipeService interface {
	Create(ctx context.Context, authorID int64, in recipes.Input) (*recipes.Recipe, error)
	Update(ctx context.Context, actorID, recipeID int64, in recipes.Input) (*recipes.Recipe, error)
	SetIngredients(ctx context.Context, actorID, recipeID int64, entries []ledger.Entry) ([]ledger.Line, error)
	Delete(ctx context.Context, actorID, recipeID int64) error
	Get(ctx context.Context, viewerID, recipeID int64) (*recipes.Recipe, error)
	List(ctx context.Context, viewerID int64, f recipes.Filter) ([]recipes.Recipe, int, error)
}

type RelationStore interface {
	Add(ctx context.Context, userID, recipeID int64, kind relations.Kind) error
	Remove(ctx context.Context, userID, recipeID int64, kind relations.Kind) error
}

type FollowStore interface {
	Subscribe(ctx context.Context, followerID, authorID int64) error
	Unsubscribe(ctx context.Context, followerID, authorID int64) error
	SubscribedTo(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error)
	ListAuthors(ctx context.Context, followerID int64, limit, offset, recipesLimit int) ([]subscriptions.Author, error)
	GetAuthor(ctx context.Context, authorID int64, recipesLimit int) (*subscriptions.Author, error)
	Count(ctx context.Context, followerID int64) (int, error)
}

type ReportBuilder interface {
	BuildReport(ctx context.Context, userID int64) (*shopping.Report, error)
}

type Tokens interface {
	Issue(userID int64, username string) (string, error)
	Parse(token string) (int64, error)
}

type Links interface {
	ShortURL(recipeID int64) string
}

type Deps struct {
	Log         *slog.Logger
	Users       UserStore
	Ingredients IngredientStore
	Recipes     RecipeService
	Relations   RelationStore
	Follows     FollowStore
	Shopping    ReportBuilder
	Tokens      Tokens
	Links       Links
	// ShortLinks обслуживает /s/{id}/; nil — маршрут не подключается.
	ShortLinks http.Handler
}

type API struct {
	log         *slog.Logger
	users       UserStore
	ingredients IngredientStore
	recipes     RecipeService
	relations   RelationStore
	follows     FollowStore
	shopping    ReportBuilder
	tokens      Tokens
	links       Links
}

func NewRouter(d Deps) http.Handler {
	a := &API{
		log:         d.Log.With("component", "api"),
		users:       d.Users,
		ingredients: d.Ingredients,
		recipes:     d.Recipes,
		relations:   d.Relations,
		follows:     d.Follows,
		shopping:    d.Shopping,
		tokens:      d.Tokens,
		links:       d.Links,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.logRequests)
	r.Use(middleware.Recoverer)

	if d.ShortLinks != nil {
		r.Method(http.MethodGet, "/s/{id}/", d.ShortLinks)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(a.authenticate)

		r.Post("/auth/token/login", a.login)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", a.registerUser)
			r.Get("/", a.listUsers)
			r.Get("/{id}", a.getUser)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", a.me)
				r.Put("/me/telegram", a.linkTelegram)
				r.Put("/me/avatar", a.setAvatar)
				r.Delete("/me/avatar", a.deleteAvatar)
				r.Post("/set_password", a.setPassword)
				r.Get("/subscriptions", a.listSubscriptions)
				r.Post("/{id}/subscribe", a.subscribe)
				r.Delete("/{id}/subscribe", a.unsubscribe)
			})
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", a.searchIngredients)
			r.Get("/{id}", a.getIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", a.listRecipes)
			r.Get("/{id}", a.getRecipe)
			r.Get("/{id}/get-link", a.getLink)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", a.createRecipe)
				r.Patch("/{id}", a.updateRecipe)
				r.Delete("/{id}", a.deleteRecipe)
				r.Put("/{id}/ingredients", a.setIngredients)
				r.Post("/{id}/favorite", a.addRelation(relations.KindFavorite))
				r.Delete("/{id}/favorite", a.removeRelation(relations.KindFavorite))
				r.Post("/{id}/shopping_cart", a.addRelation(relations.KindShoppingCart))
				r.Delete("/{id}/shopping_cart", a.removeRelation(relations.KindShoppingCart))
				r.Get("/download_shopping_cart", a.downloadShoppingCart)
			})
		})
	})

	return r
}
