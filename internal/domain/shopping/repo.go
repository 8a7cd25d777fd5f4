package shopping

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/domain/relations"
	"github.com/Spok95/foodgram/internal/infra/db"
)

// Repo читает корзину из user_recipe_relations; суммирование делает Aggregator.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Snapshot: обе выборки отчёта читаются из одного снимка БД.
func (r *Repo) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.RunInSnapshot(ctx, r.pool, fn)
}

func (r *Repo) CartRecipes(ctx context.Context, userID int64) ([]CartRecipe, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT rc.id, rc.name, u.username
		FROM user_recipe_relations x
		JOIN recipes rc ON rc.id = x.recipe_id
		JOIN users u ON u.id = rc.author_id
		WHERE x.user_id = $1 AND x.kind = $2
		ORDER BY rc.created_at DESC, rc.id DESC
	`, userID, string(relations.KindShoppingCart))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CartRecipe{}
	for rows.Next() {
		var c CartRecipe
		if err := rows.Scan(&c.ID, &c.Name, &c.Author); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) CartIngredients(ctx context.Context, userID int64) ([]CartIngredient, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT ri.recipe_id, i.name, i.measurement_unit, ri.amount
		FROM user_recipe_relations x
		JOIN recipe_ingredients ri ON ri.recipe_id = x.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE x.user_id = $1 AND x.kind = $2
	`, userID, string(relations.KindShoppingCart))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CartIngredient{}
	for rows.Next() {
		var c CartIngredient
		if err := rows.Scan(&c.RecipeID, &c.Name, &c.MeasurementUnit, &c.Amount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
