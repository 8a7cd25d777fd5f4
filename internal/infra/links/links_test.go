package links

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Spok95/foodgram/internal/infra/logger"
)

type recipeSet map[int64]bool

func (s recipeSet) Exists(_ context.Context, id int64) (bool, error) {
	if id == 500 {
		return false, errors.New("db down")
	}
	return s[id], nil
}

func TestShortURL(t *testing.T) {
	s := NewService("https://food.example/")
	if got := s.ShortURL(7); got != "https://food.example/s/7/" {
		t.Fatalf("ShortURL = %q", got)
	}
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/s/{id}/", NewHandler(logger.Discard(), recipeSet{7: true}))

	cases := []struct {
		path     string
		status   int
		location string
	}{
		{"/s/7/", http.StatusFound, "/recipes/7/"},
		{"/s/8/", http.StatusNotFound, ""},
		{"/s/abc/", http.StatusNotFound, ""},
		{"/s/500/", http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.path, rec.Code, tc.status)
		}
		if loc := rec.Header().Get("Location"); loc != tc.location {
			t.Errorf("%s: location = %q, want %q", tc.path, loc, tc.location)
		}
	}
}
