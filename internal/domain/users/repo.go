package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/foodgram/internal/infra/db"
)

var (
	ErrEmailTaken     = errors.New("users: email already registered")
	ErrUsernameTaken  = errors.New("users: username already taken")
	ErrTelegramLinked = errors.New("users: telegram account linked to another user")
)

const userColumns = `id, email, username, first_name, last_name, password_hash, avatar, telegram_id, created_at, updated_at`

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Avatar, &u.TelegramID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, nu NewUser) (*User, error) {
	hash, err := HashPassword(nu.Password)
	if err != nil {
		return nil, err
	}
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+userColumns,
		nu.Email, nu.Username, nu.FirstName, nu.LastName, hash)

	u, err := scanUser(row)
	switch {
	case db.IsUniqueViolation(err, "users_email_key"):
		return nil, ErrEmailTaken
	case db.IsUniqueViolation(err, "users_username_key"):
		return nil, ErrUsernameTaken
	case err != nil:
		return nil, err
	}
	return u, nil
}

func (r *Repo) getBy(ctx context.Context, where string, arg any) (*User, error) {
	row := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg)
	u, err := scanUser(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	return r.getBy(ctx, "telegram_id", tgID)
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY username
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// SetTelegramID привязывает Telegram-аккаунт к пользователю (нужно боту для /cart).
func (r *Repo) SetTelegramID(ctx context.Context, userID, tgID int64) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE users SET telegram_id = $2, updated_at = now() WHERE id = $1
	`, userID, tgID)
	if db.IsUniqueViolation(err, "users_telegram_id_key") {
		return ErrTelegramLinked
	}
	return err
}

// SetAvatar сохраняет аватар; пустая строка удаляет его.
func (r *Repo) SetAvatar(ctx context.Context, userID int64, avatar string) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1
	`, userID, avatar)
	return err
}

func (r *Repo) SetPassword(ctx context.Context, userID int64, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, userID, hash)
	return err
}
