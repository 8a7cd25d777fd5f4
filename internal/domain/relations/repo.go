package relations

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/infra/db"
)

var (
	ErrAlreadyAdded = errors.New("relations: recipe already added")
	ErrNotAdded     = errors.New("relations: recipe was not added")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Add(ctx context.Context, userID, recipeID int64, kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("relations: unknown kind %q", kind)
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO user_recipe_relations (user_id, recipe_id, kind)
		VALUES ($1,$2,$3)
		ON CONFLICT ON CONSTRAINT unique_user_recipe_kind DO NOTHING
	`, userID, recipeID, string(kind))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAdded
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, recipeID int64, kind Kind) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		DELETE FROM user_recipe_relations
		WHERE user_id = $1 AND recipe_id = $2 AND kind = $3
	`, userID, recipeID, string(kind))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotAdded
	}
	return nil
}

func (r *Repo) Exists(ctx context.Context, userID, recipeID int64, kind Kind) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_recipe_relations
			WHERE user_id = $1 AND recipe_id = $2 AND kind = $3
		)
	`, userID, recipeID, string(kind)).Scan(&ok)
	return ok, err
}

// Marked возвращает подмножество recipeIDs, у которых есть связь данного вида с пользователем.
func (r *Repo) Marked(ctx context.Context, userID int64, recipeIDs []int64, kind Kind) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT recipe_id FROM user_recipe_relations
		WHERE user_id = $1 AND kind = $2 AND recipe_id = ANY($3)
	`, userID, string(kind), recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
