package relations

import "time"

// Kind — вид связи пользователя с рецептом. Избранное и корзина устроены одинаково
// и различаются только видом; уникальна тройка (пользователь, рецепт, вид).
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
)

func (k Kind) Valid() bool {
	return k == KindFavorite || k == KindShoppingCart
}

type Relation struct {
	UserID    int64
	RecipeID  int64
	Kind      Kind
	CreatedAt time.Time
}
