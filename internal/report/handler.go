package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"salescope/internal/auth"
	"salescope/internal/dataset"
)

// Handler serves the /api/v1/reports/{view} family. Every view recomputes
// its aggregate fresh from the date-range-filtered table on each request.
type Handler struct {
	Datasets *dataset.Store
	Logger   *slog.Logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	id := q.Get("dataset")
	// Guests are always served the demo dataset; everyone falls back to it
	// when no dataset is named.
	if id == "" || sess.Role == auth.RoleGuest {
		id = dataset.DemoID
	}
	ds, err := h.Datasets.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, dataset.ErrDatasetNotFound) {
			writeError(w, http.StatusNotFound, "dataset not found")
			return
		}
		h.Logger.Error("get dataset", "id", id, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	start, end, err := dataset.ParseRangeParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows := dataset.FilterRange(ds.Rows, start, end)

	view := strings.TrimPrefix(r.URL.Path, "/api/v1/reports/")
	switch view {
	case "overview":
		g, err := ParseGranularity(q.Get("granularity"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, OverviewReport{
			Totals:      Overview(rows),
			Granularity: g,
			Series:      RevenueSeries(rows, g),
		})
	case "behavior":
		customer := q.Get("customer")
		if customer == "" {
			writeError(w, http.StatusBadRequest, "customer is required")
			return
		}
		writeJSON(w, Behavior(rows, customer))
	case "geography":
		writeJSON(w, Geography(rows))
	case "products":
		n, _ := strconv.Atoi(q.Get("top_n"))
		writeJSON(w, map[string]any{
			"top_n":    ClampTopN(n),
			"products": TopProducts(rows, n),
		})
	case "repeat":
		writeJSON(w, RepeatTiers(rows))
	case "combinations":
		s, _ := strconv.ParseFloat(q.Get("min_support"), 64)
		writeJSON(w, map[string]any{
			"min_support":  ClampMinSupport(s),
			"combinations": Combinations(rows, s),
		})
	default:
		writeError(w, http.StatusNotFound, "unknown view")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
