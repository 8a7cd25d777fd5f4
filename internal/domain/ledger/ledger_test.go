package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Spok95/foodgram/internal/infra/logger"
	"github.com/Spok95/foodgram/internal/infra/metrics"
)

type ingredientRow struct{ name, unit string }

// memStore хранит позиции в памяти; replaceErr позволяет сымитировать ошибку БД.
type memStore struct {
	mu          sync.Mutex
	catalog     map[int64]ingredientRow
	recipes     map[int64]bool
	entries     map[int64][]Entry
	replaceErr  error
	replaceCall int
}

func newMemStore() *memStore {
	return &memStore{
		catalog: map[int64]ingredientRow{
			1: {"мука", "г"},
			2: {"сахар", "г"},
			3: {"яйцо", "шт"},
			4: {"молоко", "мл"},
		},
		recipes: map[int64]bool{10: true, 11: true},
		entries: map[int64][]Entry{},
	}
}

func (s *memStore) Replace(_ context.Context, recipeID int64, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCall++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	if !s.recipes[recipeID] {
		return ErrRecipeNotFound
	}
	s.entries[recipeID] = append([]Entry(nil), entries...)
	return nil
}

func (s *memStore) Lines(_ context.Context, recipeID int64) ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Line{}
	for _, e := range s.entries[recipeID] {
		ing := s.catalog[e.IngredientID]
		out = append(out, Line{IngredientID: e.IngredientID, Name: ing.name, MeasurementUnit: ing.unit, Amount: e.Amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) LinesByRecipes(ctx context.Context, recipeIDs []int64) (map[int64][]Line, error) {
	out := make(map[int64][]Line, len(recipeIDs))
	for _, id := range recipeIDs {
		lines, _ := s.Lines(ctx, id)
		if len(lines) > 0 {
			out[id] = lines
		}
	}
	return out, nil
}

func (s *memStore) MissingIDs(_ context.Context, ids []int64) ([]int64, error) {
	var missing []int64
	for _, id := range ids {
		if _, ok := s.catalog[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func newLedger(s *memStore) *Ledger {
	return New(s, s, logger.Discard())
}

func asSet(lines []Line) map[int64]int {
	out := make(map[int64]int, len(lines))
	for _, l := range lines {
		out[l.IngredientID] = l.Amount
	}
	return out
}

func TestSetIngredients_RoundTrip(t *testing.T) {
	s := newMemStore()
	l := newLedger(s)
	ctx := context.Background()

	in := []Entry{{IngredientID: 1, Amount: 200}, {IngredientID: 3, Amount: 2}, {IngredientID: 2, Amount: 1}}
	if err := l.SetIngredients(ctx, 10, in); err != nil {
		t.Fatalf("SetIngredients: %v", err)
	}

	lines, err := l.Entries(ctx, 10)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	got := asSet(lines)
	want := map[int64]int{1: 200, 3: 2, 2: 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for id, amount := range want {
		if got[id] != amount {
			t.Errorf("ingredient %d amount = %d, want %d", id, got[id], amount)
		}
	}
}

func TestSetIngredients_ReplaceOverwrites(t *testing.T) {
	s := newMemStore()
	l := newLedger(s)
	ctx := context.Background()

	if err := l.SetIngredients(ctx, 10, []Entry{{1, 100}, {2, 50}, {3, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := l.SetIngredients(ctx, 10, []Entry{{4, 250}}); err != nil {
		t.Fatal(err)
	}

	lines, _ := l.Entries(ctx, 10)
	if len(lines) != 1 || lines[0].IngredientID != 4 || lines[0].Amount != 250 {
		t.Fatalf("expected only milk 250 after replace, got %+v", lines)
	}
}

func TestSetIngredients_Rejections(t *testing.T) {
	cases := []struct {
		name      string
		entries   []Entry
		want      error
		wantField string
	}{
		{"empty", nil, ErrEmptyIngredients, "ingredients"},
		{"empty slice", []Entry{}, ErrEmptyIngredients, "ingredients"},
		{"zero amount", []Entry{{1, 0}}, ErrInvalidAmount, "amount"},
		{"negative amount", []Entry{{1, 5}, {2, -3}}, ErrInvalidAmount, "amount"},
		{"amount above int32", []Entry{{1, MaxAmount + 1}}, ErrInvalidAmount, "amount"},
		{"amount wraps to 1 in int32", []Entry{{1, 1<<32 + 1}}, ErrInvalidAmount, "amount"},
		{"duplicate adjacent", []Entry{{1, 5}, {1, 7}}, ErrDuplicateIngredient, "ingredients"},
		{"duplicate first and last", []Entry{{2, 5}, {1, 1}, {3, 1}, {2, 9}}, ErrDuplicateIngredient, "ingredients"},
		{"duplicate with zero amount", []Entry{{1, 0}, {1, 0}}, ErrDuplicateIngredient, "ingredients"},
		{"unknown ingredient", []Entry{{1, 5}, {99, 1}}, ErrUnknownIngredient, "ingredients"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMemStore()
			s.entries[10] = []Entry{{1, 42}}
			l := newLedger(s)

			err := l.SetIngredients(context.Background(), 10, tc.entries)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tc.wantField)
			}
			if verr.Message == "" {
				t.Error("empty message")
			}
			if s.replaceCall != 0 {
				t.Errorf("store touched %d times on rejected input", s.replaceCall)
			}
			if got := s.entries[10]; len(got) != 1 || got[0].Amount != 42 {
				t.Errorf("previous set changed: %+v", got)
			}
		})
	}
}

func TestSetIngredients_DuplicateAnyOrder(t *testing.T) {
	base := []Entry{{1, 1}, {2, 2}, {3, 3}, {2, 4}}
	// все циклические сдвиги списка
	for shift := range base {
		entries := append(append([]Entry{}, base[shift:]...), base[:shift]...)
		err := newLedger(newMemStore()).SetIngredients(context.Background(), 10, entries)
		if !errors.Is(err, ErrDuplicateIngredient) {
			t.Errorf("shift %d: err = %v, want duplicate", shift, err)
		}
	}
}

func TestSetIngredients_AmountBoundary(t *testing.T) {
	l := newLedger(newMemStore())
	if err := l.SetIngredients(context.Background(), 10, []Entry{{1, 0}}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("amount 0: err = %v", err)
	}
	if err := l.SetIngredients(context.Background(), 10, []Entry{{1, 1}}); err != nil {
		t.Errorf("amount 1: err = %v", err)
	}
	if err := l.SetIngredients(context.Background(), 10, []Entry{{1, MaxAmount}}); err != nil {
		t.Errorf("amount max: err = %v", err)
	}
	if err := l.SetIngredients(context.Background(), 10, []Entry{{1, MaxAmount + 1}}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("amount max+1: err = %v", err)
	}
	lines, _ := l.Entries(context.Background(), 10)
	if len(lines) != 1 || lines[0].Amount != MaxAmount {
		t.Errorf("stored = %+v, want the max amount kept", lines)
	}
}

func TestSetIngredients_StorageConstraintsTranslated(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"unique race", &pgconn.PgError{Code: "23505", ConstraintName: "unique_ingredient_in_recipe"}, ErrDuplicateIngredient},
		{"ingredient deleted", fmt.Errorf("copy: %w", &pgconn.PgError{Code: "23503", ConstraintName: "recipe_ingredients_ingredient_id_fkey"}), ErrUnknownIngredient},
	}
	for _, tc := range cases {
		s := newMemStore()
		s.replaceErr = tc.err
		err := newLedger(s).SetIngredients(context.Background(), 10, []Entry{{1, 1}})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError", tc.name)
		}
	}
}

func TestSetIngredients_StorageFailure(t *testing.T) {
	s := newMemStore()
	boom := errors.New("connection reset")
	s.replaceErr = boom

	err := newLedger(s).SetIngredients(context.Background(), 10, []Entry{{1, 1}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("infrastructure failure must not look like a validation error")
	}
}

func TestSetIngredients_RecipeNotFound(t *testing.T) {
	err := newLedger(newMemStore()).SetIngredients(context.Background(), 404, []Entry{{1, 1}})
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("err = %v, want ErrRecipeNotFound", err)
	}
}

func TestSetIngredients_Metrics(t *testing.T) {
	okBefore := testutil.ToFloat64(metrics.LedgerReplacements.WithLabelValues("ok"))
	dupBefore := testutil.ToFloat64(metrics.LedgerValidationErrors.WithLabelValues("duplicate_ingredient"))

	l := newLedger(newMemStore())
	_ = l.SetIngredients(context.Background(), 10, []Entry{{1, 1}})
	_ = l.SetIngredients(context.Background(), 10, []Entry{{1, 1}, {1, 2}})

	if got := testutil.ToFloat64(metrics.LedgerReplacements.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("ok replacements delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.LedgerValidationErrors.WithLabelValues("duplicate_ingredient")) - dupBefore; got != 1 {
		t.Errorf("duplicate errors delta = %v, want 1", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]Entry{{1, 1}, {2, 1000}}); err != nil {
		t.Errorf("valid set rejected: %v", err)
	}
	var verr *ValidationError
	if err := Validate(nil); !errors.As(err, &verr) || verr.Code() != "empty_ingredients" {
		t.Errorf("Validate(nil) = %v", err)
	}
}
