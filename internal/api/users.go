package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Spok95/foodgram/internal/domain/subscriptions"
	"github.com/Spok95/foodgram/internal/domain/users"
)

// idParam читает {id} из пути; при ошибке отвечает 404.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, "Страница не найдена.")
		return 0, false
	}
	return id, true
}

func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.users.Create(r.Context(), users.NewUser{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		writeFieldErrors(w, map[string][]string{"email": {"Пользователь с таким email уже существует."}})
		return
	case errors.Is(err, users.ErrUsernameTaken):
		writeFieldErrors(w, map[string][]string{"username": {"Пользователь с таким именем уже существует."}})
		return
	case err != nil:
		a.internalError(w, r, "register user", err)
		return
	}
	a.log.Info("user registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, toUser(*u, false))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		a.internalError(w, r, "login lookup", err)
		return
	}
	if u == nil || u.CheckPassword(req.Password) != nil {
		writeFieldErrors(w, map[string][]string{"non_field_errors": {"Неверный email или пароль."}})
		return
	}
	token, err := a.tokens.Issue(u.ID, u.Username)
	if err != nil {
		a.internalError(w, r, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := pageFrom(r)
	total, err := a.users.Count(ctx)
	if err != nil {
		a.internalError(w, r, "count users", err)
		return
	}
	list, err := a.users.List(ctx, p.Limit, p.Offset())
	if err != nil {
		a.internalError(w, r, "list users", err)
		return
	}

	ids := make([]int64, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	subscribed, err := a.subscribedTo(r, ids)
	if err != nil {
		a.internalError(w, r, "list users subscriptions", err)
		return
	}

	out := make([]userJSON, 0, len(list))
	for _, u := range list {
		out = append(out, toUser(u, subscribed[u.ID]))
	}
	writeJSON(w, http.StatusOK, newPaginated(r, p, total, out))
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	u, err := a.users.GetByID(r.Context(), id)
	if err != nil {
		a.internalError(w, r, "get user", err)
		return
	}
	if u == nil {
		writeDetail(w, http.StatusNotFound, "Страница не найдена.")
		return
	}
	subscribed, err := a.subscribedTo(r, []int64{id})
	if err != nil {
		a.internalError(w, r, "get user subscription", err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u, subscribed[id]))
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, err := a.users.GetByID(r.Context(), UserID(r.Context()))
	if err != nil {
		a.internalError(w, r, "get current user", err)
		return
	}
	if u == nil {
		writeDetail(w, http.StatusUnauthorized, "Пользователь не найден.")
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u, false))
}

func (a *API) linkTelegram(w http.ResponseWriter, r *http.Request) {
	var req telegramRequest
	if !decode(w, r, &req) {
		return
	}
	err := a.users.SetTelegramID(r.Context(), UserID(r.Context()), req.TelegramID)
	if errors.Is(err, users.ErrTelegramLinked) {
		writeFieldErrors(w, map[string][]string{"telegram_id": {"Этот Telegram уже привязан к другому пользователю."}})
		return
	}
	if err != nil {
		a.internalError(w, r, "link telegram", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// subscribedTo — на кого из ids подписан текущий пользователь; для анонима пусто.
func (a *API) subscribedTo(r *http.Request, ids []int64) (map[int64]bool, error) {
	viewer := UserID(r.Context())
	if viewer == 0 || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	return a.follows.SubscribedTo(r.Context(), viewer, ids)
}

func (a *API) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := UserID(ctx)
	p := pageFrom(r)

	total, err := a.follows.Count(ctx, viewer)
	if err != nil {
		a.internalError(w, r, "count subscriptions", err)
		return
	}
	authors, err := a.follows.ListAuthors(ctx, viewer, p.Limit, p.Offset(), recipesLimit(r))
	if err != nil {
		a.internalError(w, r, "list subscriptions", err)
		return
	}
	out := make([]subscriptionJSON, 0, len(authors))
	for _, au := range authors {
		out = append(out, toSubscription(au))
	}
	writeJSON(w, http.StatusOK, newPaginated(r, p, total, out))
}

// recipesLimit читает ?recipes_limit=; отсутствующее или некорректное значение — без ограничения.
func recipesLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorID, ok := idParam(w, r)
	if !ok {
		return
	}
	author, err := a.users.GetByID(ctx, authorID)
	if err != nil {
		a.internalError(w, r, "subscribe lookup", err)
		return
	}
	if author == nil {
		writeDetail(w, http.StatusNotFound, "Страница не найдена.")
		return
	}

	err = a.follows.Subscribe(ctx, UserID(ctx), authorID)
	switch {
	case errors.Is(err, subscriptions.ErrSelfSubscription):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "Нельзя подписаться на самого себя"})
		return
	case errors.Is(err, subscriptions.ErrAlreadySubscribed):
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "Вы уже подписаны на этого пользователя"})
		return
	case err != nil:
		a.internalError(w, r, "subscribe", err)
		return
	}

	au, err := a.follows.GetAuthor(ctx, authorID, recipesLimit(r))
	if err != nil || au == nil {
		a.internalError(w, r, "subscribe response", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubscription(*au))
}

func (a *API) unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorID, ok := idParam(w, r)
	if !ok {
		return
	}
	err := a.follows.Unsubscribe(ctx, UserID(ctx), authorID)
	if errors.Is(err, subscriptions.ErrNotSubscribed) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "Вы не подписаны на этого пользователя"})
		return
	}
	if err != nil {
		a.internalError(w, r, "unsubscribe", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) setAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if !decode(w, r, &req) {
		return
	}
	if err := a.users.SetAvatar(r.Context(), UserID(r.Context()), req.Avatar); err != nil {
		a.internalError(w, r, "set avatar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar": req.Avatar})
}

func (a *API) deleteAvatar(w http.ResponseWriter, r *http.Request) {
	if err := a.users.SetAvatar(r.Context(), UserID(r.Context()), ""); err != nil {
		a.internalError(w, r, "delete avatar", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setPassword меняет пароль после проверки текущего. Выданные токены остаются
// действительными до истечения срока.
func (a *API) setPassword(w http.ResponseWriter, r *http.Request) {
	var req setPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	u, err := a.users.GetByID(ctx, UserID(ctx))
	if err != nil {
		a.internalError(w, r, "set password lookup", err)
		return
	}
	if u == nil {
		writeDetail(w, http.StatusUnauthorized, "Пользователь не найден.")
		return
	}
	if u.CheckPassword(req.CurrentPassword) != nil {
		writeFieldErrors(w, map[string][]string{"current_password": {"Неправильный пароль."}})
		return
	}
	if err := a.users.SetPassword(ctx, u.ID, req.NewPassword); err != nil {
		a.internalError(w, r, "set password", err)
		return
	}
	a.log.Info("password changed", "user_id", u.ID)
	w.WriteHeader(http.StatusNoContent)
}
