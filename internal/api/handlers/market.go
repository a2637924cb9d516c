package handlers

import (
	"net/http"

	"TrapWars/internal/api/models"
	"TrapWars/internal/market"

	"github.com/gin-gonic/gin"
)

// MarketHandler serves the latest external market snapshot.
type MarketHandler struct {
	tracker *market.Tracker
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(tracker *market.Tracker) *MarketHandler {
	return &MarketHandler{tracker: tracker}
}

// GetMarket handles GET /api/v1/market. Before the first refresh it reports
// the neutral 1.0 multiplier.
func (h *MarketHandler) GetMarket(c *gin.Context) {
	stats := h.tracker.Latest()
	if stats == nil {
		c.JSON(http.StatusOK, models.MarketResponse{Multiplier: 1.0, Condition: "CRAB"})
		return
	}
	c.JSON(http.StatusOK, models.MarketResponse{
		SolPrice:   stats.SolPrice,
		TokenPrice: stats.TokenPrice,
		Volume24h:  stats.Volume24h,
		Liquidity:  stats.Liquidity,
		Multiplier: stats.Multiplier,
		Condition:  string(stats.Condition),
	})
}
