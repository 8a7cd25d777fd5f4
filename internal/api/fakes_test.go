package api

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Spok95/foodgram/internal/auth"
	"github.com/Spok95/foodgram/internal/domain/ingredients"
	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/domain/recipes"
	"github.com/Spok95/foodgram/internal/domain/relations"
	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/domain/subscriptions"
	"github.com/Spok95/foodgram/internal/domain/users"
	"github.com/Spok95/foodgram/internal/infra/links"
	"github.com/Spok95/foodgram/internal/infra/logger"
)

// world — общая in-memory БД для фейков всех хранилищ.
type world struct {
	mu        sync.Mutex
	users     map[int64]*users.User
	catalog   map[int64]ingredients.Ingredient
	recipes   map[int64]*recipes.Recipe
	relations map[relations.Kind]map[[2]int64]bool
	follows   map[[2]int64]bool
	nextID    int64
}

func newWorld() *world {
	return &world{
		users: map[int64]*users.User{},
		catalog: map[int64]ingredients.Ingredient{
			1: {ID: 1, Name: "мука", MeasurementUnit: "г"},
			2: {ID: 2, Name: "молоко", MeasurementUnit: "мл"},
			3: {ID: 3, Name: "яйца", MeasurementUnit: "шт"},
		},
		recipes: map[int64]*recipes.Recipe{},
		relations: map[relations.Kind]map[[2]int64]bool{
			relations.KindFavorite:     {},
			relations.KindShoppingCart: {},
		},
		follows: map[[2]int64]bool{},
		nextID:  100,
	}
}

func (w *world) id() int64 { w.nextID++; return w.nextID }

// users

type fakeUsers struct{ *world }

func (f fakeUsers) Create(_ context.Context, nu users.NewUser) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == nu.Email {
			return nil, users.ErrEmailTaken
		}
		if u.Username == nu.Username {
			return nil, users.ErrUsernameTaken
		}
	}
	hash, err := users.HashPassword(nu.Password)
	if err != nil {
		return nil, err
	}
	u := &users.User{
		ID: f.id(), Email: nu.Email, Username: nu.Username,
		FirstName: nu.FirstName, LastName: nu.LastName, PasswordHash: hash,
	}
	f.users[u.ID] = u
	return u, nil
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) sorted() []users.User {
	out := []users.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (f fakeUsers) List(_ context.Context, limit, offset int) ([]users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted()
	if offset >= len(all) {
		return []users.User{}, nil
	}
	all = all[offset:]
	return all[:min(limit, len(all))], nil
}

func (f fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

func (f fakeUsers) SetTelegramID(_ context.Context, userID, tgID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.TelegramID != nil && *u.TelegramID == tgID && u.ID != userID {
			return users.ErrTelegramLinked
		}
	}
	f.users[userID].TelegramID = &tgID
	return nil
}

func (f fakeUsers) SetAvatar(_ context.Context, userID int64, avatar string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].Avatar = avatar
	return nil
}

func (f fakeUsers) SetPassword(_ context.Context, userID int64, password string) error {
	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].PasswordHash = hash
	return nil
}

// ingredients

type fakeIngredients struct{ *world }

func (f fakeIngredients) GetByID(_ context.Context, id int64) (*ingredients.Ingredient, error) {
	ing, ok := f.catalog[id]
	if !ok {
		return nil, nil
	}
	return &ing, nil
}

func (f fakeIngredients) Search(_ context.Context, prefix string) ([]ingredients.Ingredient, error) {
	out := []ingredients.Ingredient{}
	for _, ing := range f.catalog {
		if strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(prefix)) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// recipes: упрощённый сервис с теми же правилами (валидация состава, авторство).

type fakeRecipes struct{ *world }

func (f fakeRecipes) lines(entries []ledger.Entry) ([]ledger.Line, error) {
	if err := ledger.Validate(entries); err != nil {
		return nil, err
	}
	out := []ledger.Line{}
	for _, e := range entries {
		ing, ok := f.catalog[e.IngredientID]
		if !ok {
			return nil, &ledger.ValidationError{Field: "ingredients", Message: "Ингредиент не найден", Err: ledger.ErrUnknownIngredient}
		}
		out = append(out, ledger.Line{IngredientID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit, Amount: e.Amount})
	}
	return out, nil
}

func (f fakeRecipes) Create(_ context.Context, authorID int64, in recipes.Input) (*recipes.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines, err := f.lines(in.Ingredients)
	if err != nil {
		return nil, err
	}
	u := f.users[authorID]
	rc := &recipes.Recipe{
		ID:     f.id(),
		Author: recipes.Author{ID: u.ID, Email: u.Email, Username: u.Username, Avatar: u.Avatar},
		Name:   in.Name, Image: in.Image, Text: in.Text, CookingTime: in.CookingTime,
		Ingredients: lines, CreatedAt: time.Now(),
	}
	f.recipes[rc.ID] = rc
	cp := *rc
	return &cp, nil
}

func (f fakeRecipes) owned(actorID, recipeID int64) (*recipes.Recipe, error) {
	rc, ok := f.recipes[recipeID]
	if !ok {
		return nil, recipes.ErrNotFound
	}
	if rc.Author.ID != actorID {
		return nil, recipes.ErrForbidden
	}
	return rc, nil
}

func (f fakeRecipes) Update(_ context.Context, actorID, recipeID int64, in recipes.Input) (*recipes.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ledger.Validate(in.Ingredients); err != nil {
		return nil, err
	}
	rc, err := f.owned(actorID, recipeID)
	if err != nil {
		return nil, err
	}
	lines, err := f.lines(in.Ingredients)
	if err != nil {
		return nil, err
	}
	rc.Name, rc.Image, rc.Text, rc.CookingTime, rc.Ingredients = in.Name, in.Image, in.Text, in.CookingTime, lines
	cp := *rc
	return &cp, nil
}

func (f fakeRecipes) SetIngredients(_ context.Context, actorID, recipeID int64, entries []ledger.Entry) ([]ledger.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, err := f.owned(actorID, recipeID)
	if err != nil {
		return nil, err
	}
	lines, err := f.lines(entries)
	if err != nil {
		return nil, err
	}
	rc.Ingredients = lines
	return lines, nil
}

func (f fakeRecipes) Delete(_ context.Context, actorID, recipeID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(actorID, recipeID); err != nil {
		return err
	}
	delete(f.recipes, recipeID)
	return nil
}

func (f fakeRecipes) mark(viewerID int64, rc recipes.Recipe) recipes.Recipe {
	if viewerID != 0 {
		rc.IsFavorited = f.relations[relations.KindFavorite][[2]int64{viewerID, rc.ID}]
		rc.IsInShoppingCart = f.relations[relations.KindShoppingCart][[2]int64{viewerID, rc.ID}]
	}
	return rc
}

func (f fakeRecipes) Get(_ context.Context, viewerID, recipeID int64) (*recipes.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc, ok := f.recipes[recipeID]
	if !ok {
		return nil, recipes.ErrNotFound
	}
	out := f.mark(viewerID, *rc)
	return &out, nil
}

func (f fakeRecipes) List(_ context.Context, viewerID int64, flt recipes.Filter) ([]recipes.Recipe, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []recipes.Recipe{}
	for _, rc := range f.recipes {
		m := f.mark(viewerID, *rc)
		if flt.AuthorID != 0 && m.Author.ID != flt.AuthorID {
			continue
		}
		if viewerID != 0 && flt.Favorited && !m.IsFavorited {
			continue
		}
		if viewerID != 0 && flt.InShoppingCart && !m.IsInShoppingCart {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	if flt.Offset >= total {
		return []recipes.Recipe{}, total, nil
	}
	all = all[flt.Offset:]
	return all[:min(flt.Limit, len(all))], total, nil
}

func (f fakeRecipes) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.recipes[id]
	return ok, nil
}

// relations

type fakeRelations struct{ *world }

func (f fakeRelations) Add(_ context.Context, userID, recipeID int64, kind relations.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]int64{userID, recipeID}
	if f.relations[kind][k] {
		return relations.ErrAlreadyAdded
	}
	f.relations[kind][k] = true
	return nil
}

func (f fakeRelations) Remove(_ context.Context, userID, recipeID int64, kind relations.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]int64{userID, recipeID}
	if !f.relations[kind][k] {
		return relations.ErrNotAdded
	}
	delete(f.relations[kind], k)
	return nil
}

// follows

type fakeFollows struct{ *world }

func (f fakeFollows) Subscribe(_ context.Context, followerID, authorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if followerID == authorID {
		return subscriptions.ErrSelfSubscription
	}
	k := [2]int64{followerID, authorID}
	if f.follows[k] {
		return subscriptions.ErrAlreadySubscribed
	}
	f.follows[k] = true
	return nil
}

func (f fakeFollows) Unsubscribe(_ context.Context, followerID, authorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]int64{followerID, authorID}
	if !f.follows[k] {
		return subscriptions.ErrNotSubscribed
	}
	delete(f.follows, k)
	return nil
}

func (f fakeFollows) SubscribedTo(_ context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[int64]bool{}
	for _, id := range authorIDs {
		if f.follows[[2]int64{followerID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func (f fakeFollows) author(id int64, recipesLimit int) subscriptions.Author {
	u := f.users[id]
	a := subscriptions.Author{ID: u.ID, Email: u.Email, Username: u.Username, Avatar: u.Avatar, Recipes: []subscriptions.RecipeBrief{}}
	var own []*recipes.Recipe
	for _, rc := range f.recipes {
		if rc.Author.ID == id {
			own = append(own, rc)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].ID > own[j].ID })
	a.RecipesCount = len(own)
	for i, rc := range own {
		if recipesLimit > 0 && i >= recipesLimit {
			break
		}
		a.Recipes = append(a.Recipes, subscriptions.RecipeBrief{ID: rc.ID, Name: rc.Name, Image: rc.Image, CookingTime: rc.CookingTime})
	}
	return a
}

func (f fakeFollows) ListAuthors(_ context.Context, followerID int64, limit, offset, recipesLimit int) ([]subscriptions.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for k := range f.follows {
		if k[0] == followerID {
			ids = append(ids, k[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []subscriptions.Author{}
	for _, id := range ids {
		out = append(out, f.author(id, recipesLimit))
	}
	if offset >= len(out) {
		return []subscriptions.Author{}, nil
	}
	out = out[offset:]
	return out[:min(limit, len(out))], nil
}

func (f fakeFollows) GetAuthor(_ context.Context, authorID int64, recipesLimit int) (*subscriptions.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[authorID]; !ok {
		return nil, nil
	}
	a := f.author(authorID, recipesLimit)
	return &a, nil
}

func (f fakeFollows) Count(_ context.Context, followerID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.follows {
		if k[0] == followerID {
			n++
		}
	}
	return n, nil
}

// shopping: настоящий Aggregator поверх корзины из world.

type fakeCart struct{ *world }

func (f fakeCart) Snapshot(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (f fakeCart) CartRecipes(_ context.Context, userID int64) ([]shopping.CartRecipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []shopping.CartRecipe{}
	for k := range f.relations[relations.KindShoppingCart] {
		if k[0] != userID {
			continue
		}
		rc := f.recipes[k[1]]
		out = append(out, shopping.CartRecipe{ID: rc.ID, Name: rc.Name, Author: rc.Author.Username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeCart) CartIngredients(_ context.Context, userID int64) ([]shopping.CartIngredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []shopping.CartIngredient{}
	for k := range f.relations[relations.KindShoppingCart] {
		if k[0] != userID {
			continue
		}
		for _, l := range f.recipes[k[1]].Ingredients {
			out = append(out, shopping.CartIngredient{RecipeID: k[1], Name: l.Name, MeasurementUnit: l.MeasurementUnit, Amount: l.Amount})
		}
	}
	return out, nil
}

var reportTime = time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)

func newTestRouter(t *testing.T, w *world) (http.Handler, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	log := logger.Discard()
	h := NewRouter(Deps{
		Log:         log,
		Users:       fakeUsers{w},
		Ingredients: fakeIngredients{w},
		Recipes:     fakeRecipes{w},
		Relations:   fakeRelations{w},
		Follows:     fakeFollows{w},
		Shopping:    shopping.New(fakeCart{w}, log, shopping.WithClock(func() time.Time { return reportTime })),
		Tokens:      tokens,
		Links:       links.NewService("http://food.test"),
		ShortLinks:  links.NewHandler(log, fakeRecipes{w}),
	})
	return h, tokens
}
