package rest

import (
	"context"
	"net/http"
)

type PingHandler interface {
	PingHandler(w http.ResponseWriter, r *http.Request)
}

// HealthCheck - reports whether a dependency of the server is reachable.
type HealthCheck func(ctx context.Context) error

type pingHandler struct {
	check HealthCheck
}

// NewPingHandler - check may be nil, then ping only reports that the process is alive.
func NewPingHandler(check HealthCheck) PingHandler {
	return &pingHandler{check: check}
}

func (that *pingHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	if that.check != nil {
		if err := that.check(r.Context()); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
