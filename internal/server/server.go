package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/BDubDesigns/git-rich-quick/internal/httpmw"
	"github.com/BDubDesigns/git-rich-quick/internal/telemetry"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const serviceName = "git-rich-quick"

type Options struct {
	Store *game.Store
	// Telemetry is optional; without it /api/stats answers 404.
	Telemetry telemetry.Repository
	Logger    *zap.Logger
	// CheckOrigin overrides the websocket same-origin check.
	CheckOrigin func(r *http.Request) bool
}

type api struct {
	store     *game.Store
	telemetry telemetry.Repository
	log       *zap.Logger
	upgrader  websocket.Upgrader
	routes    *RouteRegistry
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &api{
		store:     opts.Store,
		telemetry: opts.Telemetry,
		log:       opts.Logger.Named("http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
		routes: &RouteRegistry{},
	}

	mux := http.NewServeMux()
	rr := a.routes

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": serviceName,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /readyz", a.ready)

	Handle(mux, rr, "GET /api/state", "Current snapshot with derived values", "", a.state)
	Handle(mux, rr, "POST /api/actions", "Dispatch one action",
		`{"type":"BUY_EMPLOYEE","payload":{"employeeType":"intern"}}`, a.actions)
	Handle(mux, rr, "GET /api/config", "Balance tables", "", a.config)
	Handle(mux, rr, "GET /api/stats", "Telemetry stats (?since=RFC3339)", "", a.stats)
	Handle(mux, rr, "DELETE /api/stats", "Clear telemetry events", "", a.clearStats)
	Handle(mux, rr, "GET /api/stream", "WebSocket: snapshots out, action envelopes in", "", a.stream)
	registerRouteIndex(mux, rr)

	mux.HandleFunc("GET /{$}", a.statusPage)

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger.Named("access")),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func (a *api) ready(w http.ResponseWriter, r *http.Request) {
	if a.telemetry != nil {
		if _, err := a.telemetry.GetEvents(r.Context(), time.Now(), []telemetry.EventType{telemetry.EventTick}); err != nil {
			a.log.Warn("telemetry not ready", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "telemetry storage unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
