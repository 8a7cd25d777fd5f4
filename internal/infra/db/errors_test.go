package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "unique_ingredient_in_recipe"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "recipe_ingredients_ingredient_id_fkey"}
	check := &pgconn.PgError{Code: "23514", ConstraintName: "follows_no_self"}
	wrapped := fmt.Errorf("replace ledger: %w", unique)

	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{"unique any", IsUniqueViolation(unique, ""), true},
		{"unique named", IsUniqueViolation(unique, "unique_ingredient_in_recipe"), true},
		{"unique other name", IsUniqueViolation(unique, "users_email_key"), false},
		{"unique wrapped", IsUniqueViolation(wrapped, "unique_ingredient_in_recipe"), true},
		{"fk", IsForeignKeyViolation(fk, ""), true},
		{"fk is not unique", IsUniqueViolation(fk, ""), false},
		{"check", IsCheckViolation(check, "follows_no_self"), true},
		{"plain error", IsUniqueViolation(errors.New("duplicate key"), ""), false},
		{"nil", IsForeignKeyViolation(nil, ""), false},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}
