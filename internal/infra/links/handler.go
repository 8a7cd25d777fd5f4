package links

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type RecipeChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	log     *slog.Logger
	recipes RecipeChecker
}

func NewHandler(log *slog.Logger, recipes RecipeChecker) *Handler {
	return &Handler{
		log:     log.With("component", "links"),
		recipes: recipes,
	}
}

// ServeHTTP: /s/{id}/ -> 302 на страницу рецепта, 404 если рецепта нет.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	ok, err := h.recipes.Exists(r.Context(), id)
	if err != nil {
		h.log.Error("failed to resolve short link",
			"recipe_id", id,
			"err", err,
		)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to resolve link"))
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, RecipePath(id), http.StatusFound)
}
