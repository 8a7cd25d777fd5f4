package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Spok95/foodgram/internal/domain/recipes"
	"github.com/Spok95/foodgram/internal/domain/relations"
)

// recipeError отвечает на ошибку сервиса рецептов.
func (a *API) recipeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case writeLedgerError(w, err):
	case errors.Is(err, recipes.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Страница не найдена.")
	case errors.Is(err, recipes.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "У вас недостаточно прав для выполнения данного действия.")
	default:
		a.internalError(w, r, op, err)
	}
}

// recipesJSON добавляет к рецептам отметку подписки на автора. При ошибке ответ уже записан.
func (a *API) recipesJSON(w http.ResponseWriter, r *http.Request, list []recipes.Recipe) ([]recipeJSON, bool) {
	ids := make([]int64, 0, len(list))
	for _, rc := range list {
		ids = append(ids, rc.Author.ID)
	}
	subscribed, err := a.subscribedTo(r, ids)
	if err != nil {
		a.internalError(w, r, "recipe authors subscriptions", err)
		return nil, false
	}
	out := make([]recipeJSON, 0, len(list))
	for _, rc := range list {
		out = append(out, toRecipe(rc, subscribed[rc.Author.ID]))
	}
	return out, true
}

func (a *API) writeRecipe(w http.ResponseWriter, r *http.Request, status int, rc *recipes.Recipe) {
	out, ok := a.recipesJSON(w, r, []recipes.Recipe{*rc})
	if !ok {
		return
	}
	writeJSON(w, status, out[0])
}

func boolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || v == "true"
}

func (a *API) listRecipes(w http.ResponseWriter, r *http.Request) {
	p := pageFrom(r)
	f := recipes.Filter{
		Favorited:      boolParam(r, "is_favorited"),
		InShoppingCart: boolParam(r, "is_in_shopping_cart"),
		Limit:          p.Limit,
		Offset:         p.Offset(),
	}
	if v := r.URL.Query().Get("author"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeFieldErrors(w, map[string][]string{"author": {"Выберите корректный вариант."}})
			return
		}
		f.AuthorID = id
	}

	list, total, err := a.recipes.List(r.Context(), UserID(r.Context()), f)
	if err != nil {
		a.internalError(w, r, "list recipes", err)
		return
	}
	out, ok := a.recipesJSON(w, r, list)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newPaginated(r, p, total, out))
}

func (a *API) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	rc, err := a.recipes.Get(r.Context(), UserID(r.Context()), id)
	if err != nil {
		a.recipeError(w, r, "get recipe", err)
		return
	}
	a.writeRecipe(w, r, http.StatusOK, rc)
}

func (a *API) createRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !decode(w, r, &req) {
		return
	}
	rc, err := a.recipes.Create(r.Context(), UserID(r.Context()), req.input())
	if err != nil {
		a.recipeError(w, r, "create recipe", err)
		return
	}
	a.writeRecipe(w, r, http.StatusCreated, rc)
}

func (a *API) updateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req recipeRequest
	if !decode(w, r, &req) {
		return
	}
	rc, err := a.recipes.Update(r.Context(), UserID(r.Context()), id, req.input())
	if err != nil {
		a.recipeError(w, r, "update recipe", err)
		return
	}
	a.writeRecipe(w, r, http.StatusOK, rc)
}

func (a *API) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := a.recipes.Delete(r.Context(), UserID(r.Context()), id); err != nil {
		a.recipeError(w, r, "delete recipe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setIngredients заменяет состав рецепта целиком, не трогая остальные поля.
func (a *API) setIngredients(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req ingredientsRequest
	if !decode(w, r, &req) {
		return
	}
	lines, err := a.recipes.SetIngredients(r.Context(), UserID(r.Context()), id, toEntries(req.Ingredients))
	if err != nil {
		a.recipeError(w, r, "set recipe ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, toLines(lines))
}

func (a *API) getLink(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if _, err := a.recipes.Get(r.Context(), 0, id); err != nil {
		a.recipeError(w, r, "get link", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"short-link": a.links.ShortURL(id)})
}

func (a *API) addRelation(kind relations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		rc, err := a.recipes.Get(ctx, 0, id)
		if err != nil {
			a.recipeError(w, r, "add "+string(kind), err)
			return
		}
		err = a.relations.Add(ctx, UserID(ctx), id, kind)
		if errors.Is(err, relations.ErrAlreadyAdded) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "Рецепт уже добавлен"})
			return
		}
		if err != nil {
			a.internalError(w, r, "add "+string(kind), err)
			return
		}
		writeJSON(w, http.StatusCreated, recipeShortJSON{
			ID: rc.ID, Name: rc.Name, Image: rc.Image, CookingTime: rc.CookingTime,
		})
	}
}

func (a *API) removeRelation(kind relations.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if _, err := a.recipes.Get(ctx, 0, id); err != nil {
			a.recipeError(w, r, "remove "+string(kind), err)
			return
		}
		err := a.relations.Remove(ctx, UserID(ctx), id, kind)
		if errors.Is(err, relations.ErrNotAdded) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "Рецепт не был добавлен"})
			return
		}
		if err != nil {
			a.internalError(w, r, "remove "+string(kind), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
