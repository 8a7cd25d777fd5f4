package api

import "net/http"

// searchIngredients: ?name= — поиск по началу названия без учёта регистра, без пагинации.
func (a *API) searchIngredients(w http.ResponseWriter, r *http.Request) {
	list, err := a.ingredients.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		a.internalError(w, r, "search ingredients", err)
		return
	}
	out := make([]ingredientJSON, 0, len(list))
	for _, i := range list {
		out = append(out, toIngredient(i))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ing, err := a.ingredients.GetByID(r.Context(), id)
	if err != nil {
		a.internalError(w, r, "get ingredient", err)
		return
	}
	if ing == nil {
		writeDetail(w, http.StatusNotFound, "Страница не найдена.")
		return
	}
	writeJSON(w, http.StatusOK, toIngredient(*ing))
}
