package handlers

import (
	"context"
	"net/http"

	"TrapWars/internal/agent"
	"TrapWars/internal/api/models"

	"github.com/gin-gonic/gin"
)

// AgentsHandler controls the autonomous trading agents. Either agent may be
// nil when disabled by config.
type AgentsHandler struct {
	ctx    context.Context
	volume *agent.VolumeAgent
	grid   *agent.GridAgent
}

// NewAgentsHandler creates a new agents handler. ctx bounds the lifetime of
// agent loops started through the API.
func NewAgentsHandler(ctx context.Context, volume *agent.VolumeAgent, grid *agent.GridAgent) *AgentsHandler {
	return &AgentsHandler{ctx: ctx, volume: volume, grid: grid}
}

// StartAgent handles POST /api/v1/agents/:name/start
func (h *AgentsHandler) StartAgent(c *gin.Context) {
	switch c.Param("name") {
	case "volume":
		if h.volume == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "volume agent is not configured")
			return
		}
		h.volume.Start(h.ctx)
	case "grid":
		if h.grid == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "grid agent is not configured")
			return
		}
		h.grid.Start(h.ctx)
	default:
		writeError(c, http.StatusNotFound, "UNKNOWN_AGENT", "unknown agent: "+c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "started"})
}

// StopAgent handles POST /api/v1/agents/:name/stop
func (h *AgentsHandler) StopAgent(c *gin.Context) {
	switch c.Param("name") {
	case "volume":
		if h.volume == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "volume agent is not configured")
			return
		}
		h.volume.Stop()
	case "grid":
		if h.grid == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "grid agent is not configured")
			return
		}
		h.grid.Stop()
	default:
		writeError(c, http.StatusNotFound, "UNKNOWN_AGENT", "unknown agent: "+c.Param("name"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// GetAgentStats handles GET /api/v1/agents/:name/stats
func (h *AgentsHandler) GetAgentStats(c *gin.Context) {
	switch c.Param("name") {
	case "volume":
		if h.volume == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "volume agent is not configured")
			return
		}
		stats := h.volume.GetStats()
		c.JSON(http.StatusOK, models.AgentStatsResponse{
			Agent:       "volume",
			IsRunning:   stats.IsRunning,
			TotalBuys:   stats.TotalBuys,
			TotalSells:  stats.TotalSells,
			TotalVolume: stats.TotalVolume,
		})
	case "grid":
		if h.grid == nil {
			writeError(c, http.StatusNotFound, "AGENT_DISABLED", "grid agent is not configured")
			return
		}
		stats := h.grid.GetStats()
		c.JSON(http.StatusOK, models.AgentStatsResponse{
			Agent:        "grid",
			IsRunning:    stats.IsRunning,
			ActiveOrders: stats.ActiveOrders,
			FilledOrders: stats.FilledOrders,
		})
	default:
		writeError(c, http.StatusNotFound, "UNKNOWN_AGENT", "unknown agent: "+c.Param("name"))
	}
}
