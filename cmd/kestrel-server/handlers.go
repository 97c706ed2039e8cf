package main

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kestreldb/kestrel/engine"
	"github.com/kestreldb/kestrel/gateway"
	"github.com/kestreldb/kestrel/registry"
)

const maxBodyBytes = 32 << 20

type queryRequest struct {
	Script   string          `json:"script"`
	Params   json.RawMessage `json:"params"`
	ReadOnly bool            `json:"read_only"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type statusResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func newHandler(g *gateway.Gateway, h registry.Handle, db *engine.DB, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /query", func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if !decodeBody(w, r, &req) {
			return
		}

		params := "{}"
		if len(req.Params) > 0 {
			params = string(req.Params)
		}

		var out gateway.Outcome
		if req.ReadOnly {
			out = g.RunReadOnly(r.Context(), h, req.Script, params)
		} else {
			out = g.Run(r.Context(), h, req.Script, params)
		}

		if out.Errored {
			writeJSON(w, http.StatusBadRequest, statusResponse{Message: out.Payload})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(out.Payload))
	})

	mux.HandleFunc("POST /backup", func(w http.ResponseWriter, r *http.Request) {
		var req pathRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := db.Backup(r.Context(), req.Path); err != nil {
			writeJSON(w, http.StatusBadRequest, statusResponse{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{OK: true})
	})

	mux.HandleFunc("POST /restore", func(w http.ResponseWriter, r *http.Request) {
		var req pathRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := db.Restore(r.Context(), req.Path); err != nil {
			writeJSON(w, http.StatusBadRequest, statusResponse{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{OK: true})
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{OK: true})
	})

	return logRequests(logger, mux)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
