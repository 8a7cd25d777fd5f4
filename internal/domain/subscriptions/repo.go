package subscriptions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/infra/db"
)

var (
	ErrSelfSubscription  = errors.New("subscriptions: cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("subscriptions: already subscribed")
	ErrNotSubscribed     = errors.New("subscriptions: not subscribed")
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Subscribe(ctx context.Context, followerID, authorID int64) error {
	if followerID == authorID {
		return ErrSelfSubscription
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO follows (follower_id, author_id)
		VALUES ($1,$2)
		ON CONFLICT ON CONSTRAINT unique_subscription DO NOTHING
	`, followerID, authorID)
	if err != nil {
		if db.IsCheckViolation(err, "follows_no_self") {
			return ErrSelfSubscription
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadySubscribed
	}
	return nil
}

func (r *Repo) Unsubscribe(ctx context.Context, followerID, authorID int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND author_id = $2`,
		followerID, authorID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotSubscribed
	}
	return nil
}

func (r *Repo) IsSubscribed(ctx context.Context, followerID, authorID int64) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND author_id = $2)`,
		followerID, authorID,
	).Scan(&ok)
	return ok, err
}

// SubscribedTo возвращает, на кого из authorIDs подписан follower.
func (r *Repo) SubscribedTo(ctx context.Context, followerID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT author_id FROM follows WHERE follower_id = $1 AND author_id = ANY($2)`,
		followerID, authorIDs,
	)
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

func (r *Repo) Count(ctx context.Context, followerID int64) (int, error) {
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`, followerID,
	).Scan(&n)
	return n, err
}

// ListAuthors — авторы, на которых подписан follower, по username.
// recipesLimit <= 0 означает «все рецепты автора».
func (r *Repo) ListAuthors(ctx context.Context, followerID int64, limit, offset, recipesLimit int) ([]Author, error) {
	return r.authors(ctx, `
		SELECT `+authorColumns+`
		FROM follows f
		JOIN users u ON u.id = f.author_id
		WHERE f.follower_id = $1
		ORDER BY u.username, u.id
		LIMIT $2 OFFSET $3
	`, recipesLimit, followerID, limit, offset)
}

// GetAuthor — один автор в том же виде, что и в ListAuthors; nil, если его нет.
func (r *Repo) GetAuthor(ctx context.Context, authorID int64, recipesLimit int) (*Author, error) {
	out, err := r.authors(ctx, `
		SELECT `+authorColumns+`
		FROM users u
		WHERE u.id = $1
	`, recipesLimit, authorID)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

const authorColumns = `u.id, u.email, u.username, u.first_name, u.last_name, u.avatar,
	(SELECT COUNT(*) FROM recipes rc WHERE rc.author_id = u.id)`

func (r *Repo) authors(ctx context.Context, query string, recipesLimit int, args ...any) ([]Author, error) {
	q := db.Conn(ctx, r.pool)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	idx := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName, &a.Avatar, &a.RecipesCount); err != nil {
			return nil, err
		}
		a.Recipes = []RecipeBrief{}
		idx[a.ID] = len(out)
		ids = append(ids, a.ID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(ids) == 0 {
		return out, nil
	}

	recRows, err := q.Query(ctx, `
		SELECT author_id, id, name, image, cooking_time
		FROM (
			SELECT author_id, id, name, image, cooking_time,
			       ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id DESC) AS rn
			FROM recipes
			WHERE author_id = ANY($1)
		) t
		WHERE $2::int <= 0 OR rn <= $2::int
		ORDER BY author_id, rn
	`, ids, recipesLimit)
	if err != nil {
		return nil, err
	}
	defer recRows.Close()
	for recRows.Next() {
		var authorID int64
		var rb RecipeBrief
		if err := recRows.Scan(&authorID, &rb.ID, &rb.Name, &rb.Image, &rb.CookingTime); err != nil {
			return nil, err
		}
		i := idx[authorID]
		out[i].Recipes = append(out[i].Recipes, rb)
	}
	return out, recRows.Err()
}
