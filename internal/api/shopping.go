package api

import (
	"mime"
	"net/http"

	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/infra/metrics"
)

// downloadShoppingCart отдаёт список покупок вложением: текст по умолчанию, ?format=xlsx — Excel.
func (a *API) downloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = shopping.FormatText
	}
	if format != shopping.FormatText && format != shopping.FormatXLSX {
		writeFieldErrors(w, map[string][]string{"format": {"Допустимые значения: txt, xlsx."}})
		return
	}

	rep, err := a.shopping.BuildReport(r.Context(), UserID(r.Context()))
	if err != nil {
		a.internalError(w, r, "build shopping list", err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": shopping.Filename(format)})
	w.Header().Set("Content-Disposition", disposition)

	switch format {
	case shopping.FormatXLSX:
		data, err := rep.XLSX()
		if err != nil {
			a.internalError(w, r, "render shopping list xlsx", err)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := rep.WriteText(w); err != nil {
			a.log.Error("write shopping list", "err", err)
			return
		}
	}
	metrics.ShoppingReports.WithLabelValues(format).Inc()
}
