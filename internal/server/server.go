// Package server exposes the task store over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BhaveshVarma1/Nirmaan/internal/httpmw"
	"github.com/BhaveshVarma1/Nirmaan/internal/model"
	"github.com/BhaveshVarma1/Nirmaan/internal/task"
	"github.com/BhaveshVarma1/Nirmaan/internal/template"
)

type Options struct {
	Store     *task.Store
	Templates *template.Catalogue
	Logger    *zap.Logger
	Clock     func() time.Time
}

type API struct {
	store     *task.Store
	templates *template.Catalogue
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Templates == nil {
		c, err := template.Load("")
		if err != nil {
			return nil, err
		}
		opts.Templates = c
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	api := &API{
		store:     opts.Store,
		templates: opts.Templates,
		logger:    opts.Logger.Named("http"),
		now:       opts.Clock,
	}

	rt := newRouter()
	rt.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "nirmaan",
			"time":    api.now().UTC().Format(time.RFC3339),
		})
	})
	rt.mux.Handle("GET /metrics", promhttp.Handler())
	api.register(rt)
	rt.mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rt.routes())
	})

	return httpmw.Chain(
		rt.mux,
		httpmw.WithRequestID,
		httpmw.WithRecover(api.logger),
		httpmw.WithAccessLog(api.logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// writeStoreErr maps store errors to status codes: validation 400, missing
// 404, anything else 500.
func (a *API) writeStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, task.ErrNotFound), errors.Is(err, template.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("request failed",
			zap.String("request_id", httpmw.RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
