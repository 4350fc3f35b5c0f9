package api

import (
	"net/http"
)

type HealthHandler struct {
	env     string
	version string
}

func NewHealthHandler(env, version string) *HealthHandler {
	return &HealthHandler{env: env, version: version}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness has no external dependencies to probe; every store lives in
// process, so ready follows alive.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	h.Liveness(w, r)
}
