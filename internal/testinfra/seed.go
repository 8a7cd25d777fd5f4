//go:build integration

package testinfra

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Хелперы наполнения БД для интеграционных тестов. Пароли не нужны, поэтому хэш фиктивный.

func InsertUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (email, username, first_name, last_name, password_hash)
		VALUES ($1, $2, 'Имя', 'Фамилия', 'x')
		RETURNING id
	`, username+"@example.com", username).Scan(&id)
	if err != nil {
		t.Fatalf("insert user %q: %v", username, err)
	}
	return id
}

func InsertIngredient(t *testing.T, pool *pgxpool.Pool, name, unit string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2) RETURNING id
	`, name, unit).Scan(&id)
	if err != nil {
		t.Fatalf("insert ingredient %q: %v", name, err)
	}
	return id
}

func InsertRecipe(t *testing.T, pool *pgxpool.Pool, authorID int64, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO recipes (author_id, name, image, text, cooking_time)
		VALUES ($1, $2, 'data:image/png;base64,AA==', 'текст', 10)
		RETURNING id
	`, authorID, name).Scan(&id)
	if err != nil {
		t.Fatalf("insert recipe %q: %v", name, err)
	}
	return id
}

func AddToCart(t *testing.T, pool *pgxpool.Pool, userID, recipeID int64) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO user_recipe_relations (user_id, recipe_id, kind) VALUES ($1, $2, 'shopping_cart')
	`, userID, recipeID)
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
}
