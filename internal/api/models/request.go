package models

// TravelRequest is the body for POST /api/v1/run/travel.
type TravelRequest struct {
	Location string `json:"location" binding:"required"`
}

// TradeRequest is the body for POST /api/v1/run/buy and /api/v1/run/sell.
// Quantity carries no binding rule so a zero or negative value reaches the
// engine's own validation instead of failing as a malformed request.
type TradeRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int64  `json:"quantity"`
}
