package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/infra/db"
)

const constraintUniqueIngredient = "unique_ingredient_in_recipe"

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Replace: блокируем строку рецепта (параллельные замены одного рецепта идут по очереди),
// удаляем старые позиции и заливаем новые через COPY, всё в одной транзакции.
func (r *Repo) Replace(ctx context.Context, recipeID int64, entries []Entry) error {
	return db.RunInTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.Conn(ctx, r.pool)

		var id int64
		if err := q.QueryRow(ctx, `SELECT id FROM recipes WHERE id = $1 FOR UPDATE`, recipeID).Scan(&id); err != nil {
			if err == pgx.ErrNoRows {
				return ErrRecipeNotFound
			}
			return err
		}

		if _, err := q.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
			return err
		}

		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{recipeID, e.IngredientID, int32(e.Amount)})
		}
		_, err := q.CopyFrom(ctx,
			pgx.Identifier{"recipe_ingredients"},
			[]string{"recipe_id", "ingredient_id", "amount"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
}

func (r *Repo) Lines(ctx context.Context, recipeID int64) ([]Line, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = $1
		ORDER BY i.name, i.measurement_unit
	`, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.IngredientID, &l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LinesByRecipes — позиции сразу нескольких рецептов (для списков без N+1).
func (r *Repo) LinesByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]Line, error) {
	out := make(map[int64][]Line, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, i.name, i.measurement_unit
	`, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		var l Line
		if err := rows.Scan(&recipeID, &l.IngredientID, &l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, err
		}
		out[recipeID] = append(out[recipeID], l)
	}
	return out, rows.Err()
}
