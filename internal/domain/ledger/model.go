package ledger

// Entry — одна позиция рецепта во входных данных: какой ингредиент и сколько.
type Entry struct {
	IngredientID int64
	Amount       int
}

// Line — сохранённая позиция рецепта вместе с данными ингредиента.
type Line struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int
}
