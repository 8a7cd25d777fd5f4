package ingredients

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByID(ctx context.Context, id int64) (*Ingredient, error) {
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE id = $1
	`, id)
	var it Ingredient
	if err := row.Scan(&it.ID, &it.Name, &it.MeasurementUnit); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// Search ищет ингредиенты по началу названия без учёта регистра. Пустой запрос — все ингредиенты.
func (r *Repo) Search(ctx context.Context, prefix string) ([]Ingredient, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	like := escapeLike(prefix) + "%"

	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE LOWER(name) LIKE $1
		ORDER BY name, measurement_unit
	`, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ingredient{}
	for rows.Next() {
		var it Ingredient
		if err := rows.Scan(&it.ID, &it.Name, &it.MeasurementUnit); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// MissingIDs возвращает те id из списка, которых нет в справочнике.
func (r *Repo) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT want.id
		FROM unnest($1::bigint[]) AS want(id)
		LEFT JOIN ingredients i ON i.id = want.id
		WHERE i.id IS NULL
		ORDER BY want.id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

// BulkInsert добавляет ингредиенты, пропуская уже существующие пары (name, measurement_unit).
// Возвращает число реально добавленных строк.
func (r *Repo) BulkInsert(ctx context.Context, items []Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	names := make([]string, 0, len(items))
	units := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
		units = append(units, it.MeasurementUnit)
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO ingredients (name, measurement_unit)
		SELECT * FROM unnest($1::text[], $2::text[])
		ON CONFLICT ON CONSTRAINT unique_ingredient DO NOTHING
	`, names, units)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM ingredients`).Scan(&n)
	return n, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
