package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/domain/relations"
	"github.com/Spok95/foodgram/internal/infra/db"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const recipeColumns = `r.id, r.name, r.image, r.text, r.cooking_time, r.created_at,
	u.id, u.email, u.username, u.first_name, u.last_name, u.avatar`

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rc Recipe
	err := row.Scan(
		&rc.ID, &rc.Name, &rc.Image, &rc.Text, &rc.CookingTime, &rc.CreatedAt,
		&rc.Author.ID, &rc.Author.Email, &rc.Author.Username, &rc.Author.FirstName, &rc.Author.LastName, &rc.Author.Avatar,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

func (r *Repo) Insert(ctx context.Context, authorID int64, in Input) (int64, error) {
	var id int64
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO recipes (author_id, name, image, text, cooking_time)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, authorID, in.Name, in.Image, in.Text, in.CookingTime).Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE recipes
		SET name = $2, image = $3, text = $4, cooking_time = $5
		WHERE id = $1
	`, id, in.Name, in.Image, in.Text, in.CookingTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет рецепт; позиции состава и связи уходят каскадом.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Recipe, error) {
	rc, err := scanRecipe(db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE r.id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rc, err
}

// where собирает условия фильтра; viewerID нужен только для избранного и корзины.
func where(viewerID int64, f Filter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.AuthorID != 0 {
		add("r.author_id = $%d", f.AuthorID)
	}
	relation := func(kind relations.Kind) {
		args = append(args, viewerID, string(kind))
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_recipe_relations x WHERE x.recipe_id = r.id AND x.user_id = $%d AND x.kind = $%d)",
			len(args)-1, len(args),
		))
	}
	if f.Favorited && viewerID != 0 {
		relation(relations.KindFavorite)
	}
	if f.InShoppingCart && viewerID != 0 {
		relation(relations.KindShoppingCart)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repo) List(ctx context.Context, viewerID int64, f Filter) ([]Recipe, error) {
	cond, args := where(viewerID, f)
	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`
		SELECT %s
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, recipeColumns, cond, len(args)-1, len(args))

	rows, err := db.Conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Recipe{}
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rc)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context, viewerID int64, f Filter) (int, error) {
	cond, args := where(viewerID, f)
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM recipes r `+cond, args...).Scan(&n)
	return n, err
}

func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM recipes WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}
