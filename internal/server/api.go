package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/BDubDesigns/git-rich-quick/internal/telemetry"
	"go.uber.org/zap"
)

const maxActionBytes = 64 << 10

// actionResponse is the reply to an action over HTTP or the stream.
type actionResponse struct {
	Applied  bool              `json:"applied"`
	Reason   game.RejectReason `json:"reason,omitempty"`
	Unlocked []string          `json:"unlocked,omitempty"`
	Fallback bool              `json:"fallback,omitempty"`
	View     *game.View        `json:"view,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Entity string `json:"entity,omitempty"`
	Key    string `json:"key,omitempty"`
}

func (a *api) view() game.View {
	return game.Describe(a.store.Tables(), a.store.Snapshot())
}

func (a *api) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.view())
}

func (a *api) config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Tables())
}

func (a *api) actions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "action body too large")
		return
	}
	code, resp := a.apply(r.Context(), body)
	writeJSON(w, code, resp)
}

// apply decodes and dispatches one action envelope and maps the result to a
// status code. Rejections are 200 with applied=false; only malformed input and
// unknown keys are client errors.
func (a *api) apply(ctx context.Context, body []byte) (int, any) {
	action, err := game.DecodeAction(body)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	res, err := a.store.Dispatch(ctx, action)
	var uk *game.UnknownKeyError
	switch {
	case errors.As(err, &uk):
		return http.StatusNotFound, errorResponse{Error: uk.Error(), Entity: string(uk.Entity), Key: uk.Key}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error()}
	case err != nil:
		a.log.Error("dispatch", zap.String("action", string(action.Kind())), zap.Error(err))
		return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
	}

	v := game.Describe(a.store.Tables(), res.State)
	return http.StatusOK, actionResponse{
		Applied:  res.Outcome.Applied,
		Reason:   res.Outcome.Reason,
		Unlocked: res.Outcome.Unlocked,
		Fallback: res.Outcome.Fallback,
		View:     &v,
	}
}

func (a *api) stats(w http.ResponseWriter, r *http.Request) {
	if a.telemetry == nil {
		writeError(w, http.StatusNotFound, "telemetry disabled")
		return
	}
	var since time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}
	events, err := a.telemetry.GetEvents(r.Context(), since, nil)
	if err != nil {
		a.log.Error("load telemetry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "telemetry unavailable")
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *api) clearStats(w http.ResponseWriter, r *http.Request) {
	if a.telemetry == nil {
		writeError(w, http.StatusNotFound, "telemetry disabled")
		return
	}
	if err := a.telemetry.Clear(r.Context()); err != nil {
		a.log.Error("clear telemetry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "telemetry unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
