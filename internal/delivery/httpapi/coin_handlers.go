package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/cryptopulse/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type coinPriceResponse struct {
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"change_24h"`
	IsPositive   *bool    `json:"is_positive"`
	UpdatedAt    *string  `json:"updated_at"`
}

type coinResponse struct {
	ID     int64              `json:"id"`
	Name   string             `json:"name"`
	Symbol string             `json:"symbol"`
	Color  string             `json:"color"`
	Price  *coinPriceResponse `json:"price"`
}

func mapCoinResponse(entry usecase.CoinWithPrice) coinResponse {
	response := coinResponse{
		ID:     entry.Coin.ID,
		Name:   entry.Coin.Name,
		Symbol: entry.Coin.Symbol,
		Color:  entry.Coin.Color,
	}
	if entry.Price != nil {
		response.Price = mapPriceResponse(entry.Price)
	}
	return response
}

func mapPriceResponse(price *domain.CoinPrice) *coinPriceResponse {
	current, _ := price.Price.Float64()
	response := &coinPriceResponse{CurrentPrice: &current, IsPositive: price.IsPositive}
	if price.Change != nil {
		change, _ := price.Change.Float64()
		response.Change24h = &change
	}
	if !price.UpdatedAt.IsZero() {
		updated := price.UpdatedAt.UTC().Format(time.RFC3339)
		response.UpdatedAt = &updated
	}
	return response
}

func (h *Handlers) ListCoins(c *gin.Context) {
	entries, err := h.coinUC.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	result := make([]coinResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, mapCoinResponse(entry))
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handlers) GetCoin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}
	entry, err := h.coinUC.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapCoinResponse(*entry))
}

type createCoinRequest struct {
	Name   string `json:"name" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Color  string `json:"color" binding:"required"`
}

func (h *Handlers) CreateCoin(c *gin.Context) {
	var req createCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coin, err := h.coinUC.Create(c.Request.Context(), req.Name, req.Symbol, req.Color)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, coinResponse{ID: coin.ID, Name: coin.Name, Symbol: coin.Symbol, Color: coin.Color})
}

func (h *Handlers) DeleteCoin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}
	if err := h.coinUC.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coin deleted"})
}
