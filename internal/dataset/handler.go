package dataset

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"salescope/internal/auth"
)

// UploadHandler accepts a multipart sales export. Only roles with the
// upload capability may supply their own data; guests are served the demo
// dataset and get 403 here.
type UploadHandler struct {
	Store    *Store
	Logger   *slog.Logger
	MaxBytes int64
}

type datasetSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Rows    int       `json:"rows"`
	MinDate string    `json:"min_date"`
	MaxDate string    `json:"max_date"`
	Created time.Time `json:"created_at"`
}

func summarize(ds *Dataset) datasetSummary {
	min, max := DateRange(ds.Rows)
	return datasetSummary{
		ID:      ds.ID,
		Name:    ds.Name,
		Rows:    len(ds.Rows),
		MinDate: min.Format("2006-01-02"),
		MaxDate: max.Format("2006-01-02"),
		Created: ds.CreatedAt,
	}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !sess.Role.CanUpload() {
		writeError(w, http.StatusForbidden, "role may not upload data")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	hash := Hash(data)
	if ds, ok := h.Store.FindByHash(r.Context(), hash); ok {
		// Same bytes seen before; skip the re-parse.
		writeJSON(w, http.StatusOK, summarize(ds))
		return
	}

	rows, err := ParseFile(header.Filename, data)
	if err != nil {
		var de *DataError
		if errors.As(err, &de) {
			writeError(w, http.StatusUnprocessableEntity, de.Reason)
			return
		}
		h.Logger.Error("parse upload", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ds, err := h.Store.Add(r.Context(), header.Filename, sess.Username, hash, rows)
	if err != nil {
		// The cache is advisory; a persist failure is logged, not fatal.
		h.Logger.Error("cache dataset", "id", ds.ID, "err", err)
	}
	h.Logger.Info("dataset uploaded", "id", ds.ID, "user", sess.Username, "rows", len(rows))
	writeJSON(w, http.StatusCreated, summarize(ds))
}

// DetailHandler serves /api/v1/datasets/{id} summaries and the
// /api/v1/datasets/{id}/rows raw-data view. Guests are pinned to the demo
// dataset no matter what id they ask for.
type DetailHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := auth.SessionFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/datasets/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sess.Role == auth.RoleGuest {
		id = DemoID
	}

	ds, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDatasetNotFound) {
			writeError(w, http.StatusNotFound, "dataset not found")
			return
		}
		h.Logger.Error("get dataset", "id", id, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, summarize(ds))
	case "rows":
		start, end, err := ParseRangeParams(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rows := FilterRange(ds.Rows, start, end)
		writeJSON(w, http.StatusOK, rows)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ParseRangeParams reads the inclusive [start, end] date-range filter from
// the query string. Absent params leave that side of the range open.
func ParseRangeParams(r *http.Request) (start, end time.Time, err error) {
	q := r.URL.Query()
	if s := q.Get("start"); s != "" {
		start, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start date, want YYYY-MM-DD")
		}
	}
	if s := q.Get("end"); s != "" {
		end, err = time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end date, want YYYY-MM-DD")
		}
	}
	return start, end, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
