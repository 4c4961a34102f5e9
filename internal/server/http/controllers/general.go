package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
	commandsvc "github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/services/commands"
)

// GeneralController serves health and stats.
type GeneralController struct {
	svc         *commandsvc.Service
	activeConns func() int
}

// NewGeneralController creates a general controller. activeConns reports
// open protocol connections and may be nil.
func NewGeneralController(svc *commandsvc.Service, activeConns func() int) *GeneralController {
	return &GeneralController{svc: svc, activeConns: activeConns}
}

// RegisterRoutes registers /v1/healthz and /v1/stats.
func (c *GeneralController) RegisterRoutes(r chi.Router) {
	r.Get("/v1/healthz", c.handleHealth)
	r.Get("/v1/stats", c.handleStats)
}

// handleHealth returns 200 {"status":"ok"} when healthy and 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_serving", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResp struct {
	cmdlog.Stats
	ActiveConnections int `json:"active_connections"`
}

func (c *GeneralController) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResp{Stats: c.svc.Stats()}
	if c.activeConns != nil {
		resp.ActiveConnections = c.activeConns()
	}
	writeJSON(w, http.StatusOK, resp)
}
