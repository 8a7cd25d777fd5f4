package recipes

import (
	"time"

	"github.com/Spok95/foodgram/internal/domain/ledger"
)

type Author struct {
	ID        int64
	Email     string
	Username  string
	FirstName string
	LastName  string
	Avatar    string
}

type Recipe struct {
	ID          int64
	Author      Author
	Name        string
	Image       string
	Text        string
	CookingTime int
	CreatedAt   time.Time

	Ingredients []ledger.Line

	// Флаги относительно текущего зрителя; у анонима всегда false.
	IsFavorited      bool
	IsInShoppingCart bool
}

// Input используется и при создании, и при полном обновлении рецепта.
type Input struct {
	Name        string
	Image       string
	Text        string
	CookingTime int
	Ingredients []ledger.Entry
}

type Filter struct {
	AuthorID       int64
	Favorited      bool
	InShoppingCart bool
	Limit          int
	Offset         int
}
