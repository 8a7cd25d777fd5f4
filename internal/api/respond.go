package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Spok95/foodgram/internal/domain/ledger"
	"github.com/Spok95/foodgram/internal/validation"
)

const maxBodyBytes = 1 << 20

type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detail{Detail: msg})
}

// writeFieldErrors отвечает 400 в формате {"поле": ["сообщение"]}.
func writeFieldErrors(w http.ResponseWriter, errs map[string][]string) {
	writeJSON(w, http.StatusBadRequest, errs)
}

// decode читает JSON-тело и проверяет его валидатором. При ошибке ответ уже записан.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeFieldErrors(w, map[string][]string{"non_field_errors": {"Некорректный JSON."}})
		return false
	}
	if err := validation.Struct(v); err != nil {
		var fe validation.Errors
		if errors.As(err, &fe) {
			writeFieldErrors(w, fe)
			return false
		}
		writeDetail(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeLedgerError отвечает 400 на отказ валидации состава; false — ошибка не про состав.
func writeLedgerError(w http.ResponseWriter, err error) bool {
	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeFieldErrors(w, map[string][]string{verr.Field: {verr.Message}})
	return true
}

func (a *API) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	a.log.Error(msg,
		"err", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	writeDetail(w, http.StatusInternalServerError, "Внутренняя ошибка сервера.")
}
