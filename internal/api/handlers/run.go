package handlers

import (
	"errors"
	"net/http"

	"TrapWars/internal/api/models"
	"TrapWars/internal/game"

	"github.com/gin-gonic/gin"
)

// RunHandler handles run lifecycle and trading requests.
type RunHandler struct {
	engine *game.Engine
}

// NewRunHandler creates a new run handler.
func NewRunHandler(engine *game.Engine) *RunHandler {
	return &RunHandler{engine: engine}
}

// StartRun handles POST /api/v1/run/start
func (h *RunHandler) StartRun(c *gin.Context) {
	state, err := h.engine.Start()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{State: state})
}

// GetRun handles GET /api/v1/run
func (h *RunHandler) GetRun(c *gin.Context) {
	state, err := h.engine.Snapshot()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{State: state})
}

// Travel handles POST /api/v1/run/travel
func (h *RunHandler) Travel(c *gin.Context) {
	var req models.TravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, eventDesc, err := h.engine.Travel(req.Location)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{State: state, Event: eventDesc})
}

// Buy handles POST /api/v1/run/buy
func (h *RunHandler) Buy(c *gin.Context) {
	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, err := h.engine.Buy(req.Product, req.Quantity)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{State: state})
}

// Sell handles POST /api/v1/run/sell
func (h *RunHandler) Sell(c *gin.Context) {
	var req models.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	state, earnings, promo, err := h.engine.Sell(req.Product, req.Quantity)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	resp := models.RunResponse{State: state, Earnings: earnings}
	if promo != nil {
		resp.Message = promo.Message
	}
	c.JSON(http.StatusOK, resp)
}

// EndRun handles POST /api/v1/run/end
func (h *RunHandler) EndRun(c *gin.Context) {
	state, err := h.engine.EndEarly()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RunResponse{State: state})
}

func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrNoRun):
		writeError(c, http.StatusNotFound, "NO_RUN", err.Error())
	case errors.Is(err, game.ErrRunOver):
		writeError(c, http.StatusConflict, "RUN_OVER", err.Error())
	case errors.Is(err, game.ErrRunActive):
		writeError(c, http.StatusConflict, "RUN_ACTIVE", err.Error())
	case errors.Is(err, game.ErrInvalidLocation):
		writeError(c, http.StatusBadRequest, "INVALID_LOCATION", err.Error())
	case errors.Is(err, game.ErrUnknownProduct):
		writeError(c, http.StatusBadRequest, "UNKNOWN_PRODUCT", err.Error())
	case errors.Is(err, game.ErrInvalidQuantity):
		writeError(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error())
	case errors.Is(err, game.ErrInsufficientCash):
		writeError(c, http.StatusBadRequest, "INSUFFICIENT_CASH", err.Error())
	case errors.Is(err, game.ErrInsufficientSpace):
		writeError(c, http.StatusBadRequest, "INSUFFICIENT_SPACE", err.Error())
	case errors.Is(err, game.ErrInsufficientInventory):
		writeError(c, http.StatusBadRequest, "INSUFFICIENT_INVENTORY", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
