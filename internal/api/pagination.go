package api

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type page struct {
	Number int
	Limit  int
}

func (p page) Offset() int { return (p.Number - 1) * p.Limit }

// pageFrom читает ?page= и ?limit=; некорректные значения заменяются значениями по умолчанию.
func pageFrom(r *http.Request) page {
	q := r.URL.Query()
	p := page{Number: 1, Limit: defaultPageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = min(n, maxPageSize)
	}
	return p
}

type paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func newPaginated[T any](r *http.Request, p page, total int, results []T) paginated[T] {
	out := paginated[T]{Count: total, Results: results}
	if p.Number*p.Limit < total {
		s := pageURL(r, p.Number+1)
		out.Next = &s
	}
	if p.Number > 1 {
		s := pageURL(r, p.Number-1)
		out.Previous = &s
	}
	return out
}

func pageURL(r *http.Request, n int) string {
	u := url.URL{Path: r.URL.Path}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}
