package subscriptions

import "time"

// Follow — подписка follower на автора рецептов.
type Follow struct {
	FollowerID int64
	AuthorID   int64
	CreatedAt  time.Time
}

// RecipeBrief — рецепт в укороченном виде для списка подписок.
type RecipeBrief struct {
	ID          int64
	Name        string
	Image       string
	CookingTime int
}

// Author — автор из списка подписок с последними рецептами и общим их числом.
type Author struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Avatar       string
	Recipes      []RecipeBrief
	RecipesCount int
}
