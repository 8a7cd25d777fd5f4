package api

import (
	"github.com/Spok95/foodgram/internal/domain/ingredients"
	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/domain/recipes"
	"github.com/Spok95/foodgram/internal/domain/subscriptions"
	"github.com/Spok95/foodgram/internal/domain/users"
)

type userJSON struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// avatarOrNull: без аватара в ответе null.
func avatarOrNull(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUser(u users.User, subscribed bool) userJSON {
	return userJSON{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
		Avatar:       avatarOrNull(u.Avatar),
	}
}

type ingredientJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func toIngredient(i ingredients.Ingredient) ingredientJSON {
	return ingredientJSON{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

type recipeIngredientJSON struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

func toLines(lines []ledger.Line) []recipeIngredientJSON {
	out := make([]recipeIngredientJSON, 0, len(lines))
	for _, l := range lines {
		out = append(out, recipeIngredientJSON{
			ID:              l.IngredientID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}
	return out
}

type recipeJSON struct {
	ID               int64                  `json:"id"`
	Author           userJSON               `json:"author"`
	Ingredients      []recipeIngredientJSON `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

func toRecipe(rc recipes.Recipe, authorSubscribed bool) recipeJSON {
	a := rc.Author
	return recipeJSON{
		ID: rc.ID,
		Author: userJSON{
			ID:           a.ID,
			Email:        a.Email,
			Username:     a.Username,
			FirstName:    a.FirstName,
			LastName:     a.LastName,
			IsSubscribed: authorSubscribed,
			Avatar:       avatarOrNull(a.Avatar),
		},
		Ingredients:      toLines(rc.Ingredients),
		IsFavorited:      rc.IsFavorited,
		IsInShoppingCart: rc.IsInShoppingCart,
		Name:             rc.Name,
		Image:            rc.Image,
		Text:             rc.Text,
		CookingTime:      rc.CookingTime,
	}
}

// recipeShortJSON — рецепт без автора и состава (избранное, корзина, подписки).
type recipeShortJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type subscriptionJSON struct {
	userJSON
	Recipes      []recipeShortJSON `json:"recipes"`
	RecipesCount int               `json:"recipes_count"`
}

func toSubscription(a subscriptions.Author) subscriptionJSON {
	out := subscriptionJSON{
		userJSON: userJSON{
			ID:           a.ID,
			Email:        a.Email,
			Username:     a.Username,
			FirstName:    a.FirstName,
			LastName:     a.LastName,
			IsSubscribed: true,
			Avatar:       avatarOrNull(a.Avatar),
		},
		Recipes:      make([]recipeShortJSON, 0, len(a.Recipes)),
		RecipesCount: a.RecipesCount,
	}
	for _, rb := range a.Recipes {
		out.Recipes = append(out.Recipes, recipeShortJSON{
			ID: rb.ID, Name: rb.Name, Image: rb.Image, CookingTime: rb.CookingTime,
		})
	}
	return out
}

// Запросы.

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type avatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

type telegramRequest struct {
	TelegramID int64 `json:"telegram_id" validate:"required,gt=0"`
}

type ingredientAmount struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func toEntries(in []ingredientAmount) []ledger.Entry {
	out := make([]ledger.Entry, 0, len(in))
	for _, ia := range in {
		out = append(out, ledger.Entry{IngredientID: ia.ID, Amount: ia.Amount})
	}
	return out
}

// Ограничения на состав (пустой, повторы, количество) проверяет ledger,
// здесь только форма остальных полей.
type recipeRequest struct {
	Ingredients []ingredientAmount `json:"ingredients"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"gte=1"`
}

func (rr recipeRequest) input() recipes.Input {
	return recipes.Input{
		Name:        rr.Name,
		Image:       rr.Image,
		Text:        rr.Text,
		CookingTime: rr.CookingTime,
		Ingredients: toEntries(rr.Ingredients),
	}
}

type ingredientsRequest struct {
	Ingredients []ingredientAmount `json:"ingredients"`
}
