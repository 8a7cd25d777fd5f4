package shopping

import "time"

// CartRecipe — рецепт из корзины пользователя, как его отдаёт источник.
type CartRecipe struct {
	ID     int64
	Name   string
	Author string
}

// CartIngredient — одна позиция состава одного рецепта из корзины (ещё не просуммированная).
type CartIngredient struct {
	RecipeID        int64
	Name            string
	MeasurementUnit string
	Amount          int
}

type RecipeSummary struct {
	Name   string
	Author string
}

// IngredientSummary — итог по паре (название, единица) по всей корзине.
type IngredientSummary struct {
	Name            string
	MeasurementUnit string
	Total           int
}

type Report struct {
	GeneratedAt time.Time
	Recipes     []RecipeSummary
	Ingredients []IngredientSummary
}
