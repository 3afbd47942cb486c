package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type favoriteCoinResponse struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Symbol     string             `json:"symbol"`
	Color      string             `json:"color"`
	Price      *coinPriceResponse `json:"price"`
	IsFavorite bool               `json:"is_favorite"`
	CreatedAt  string             `json:"created_at"`
}

func (h *Handlers) ListFavorites(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	favorites, err := h.favoriteUC.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result := make([]favoriteCoinResponse, 0, len(favorites))
	for _, favorite := range favorites {
		entry := favoriteCoinResponse{
			ID:         favorite.Coin.ID,
			Name:       favorite.Coin.Name,
			Symbol:     favorite.Coin.Symbol,
			Color:      favorite.Coin.Color,
			IsFavorite: true,
			CreatedAt:  favorite.CreatedAt,
		}
		if favorite.Price != nil {
			entry.Price = mapPriceResponse(favorite.Price)
		}
		result = append(result, entry)
	}
	c.JSON(http.StatusOK, result)
}

type addFavoriteRequest struct {
	UserID string `json:"user_id" binding:"required"`
	CoinID int64  `json:"coin_id" binding:"required"`
}

func (h *Handlers) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	favorite, err := h.favoriteUC.Add(c.Request.Context(), userID, req.CoinID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id":    favorite.UserID.String(),
		"coin_id":    favorite.CoinID,
		"created_at": favorite.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// CheckFavorite answers the per-coin star state the coin cards poll.
func (h *Handlers) CheckFavorite(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	coinID, err := strconv.ParseInt(c.Param("coin_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}
	isFavorite, err := h.favoriteUC.IsFavorite(c.Request.Context(), userID, coinID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_favorite": isFavorite})
}

func (h *Handlers) RemoveFavorite(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	coinID, err := strconv.ParseInt(c.Param("coin_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coin id"})
		return
	}
	if err := h.favoriteUC.Remove(c.Request.Context(), userID, coinID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}

type logResponse struct {
	ID            int64   `json:"id"`
	UserID        string  `json:"user_id"`
	CoinID        int64   `json:"coin_id"`
	NotifiedAt    string  `json:"notified_at"`
	Price         string  `json:"price"`
	ChangePercent *string `json:"change_percent"`
	Message       string  `json:"message"`
}

func (h *Handlers) ListLogs(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c, 50)
	if !ok {
		return
	}
	entries, err := h.logUC.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapLogResponses(entries))
}

// ListAllLogs is the operator view across users.
func (h *Handlers) ListAllLogs(c *gin.Context) {
	limit, ok := parseLimit(c, 100)
	if !ok {
		return
	}
	entries, err := h.logUC.ListAll(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapLogResponses(entries))
}

func (h *Handlers) LogStats(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	stats, err := h.logUC.StatsForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	byCoin := make([]gin.H, 0, len(stats.TopCoins))
	for _, entry := range stats.TopCoins {
		byCoin = append(byCoin, gin.H{
			"coin_id":     entry.CoinID,
			"coin_name":   entry.Name,
			"coin_symbol": entry.Symbol,
			"count":       entry.Count,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"total_logs":         stats.Total,
		"recent_logs_7_days": stats.Recent,
		"logs_by_coin":       byCoin,
	})
}

func parseLimit(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return 0, false
	}
	return parsed, true
}

func mapLogResponses(entries []domain.Log) []logResponse {
	result := make([]logResponse, 0, len(entries))
	for _, entry := range entries {
		response := logResponse{
			ID:         entry.ID,
			UserID:     entry.UserID.String(),
			CoinID:     entry.CoinID,
			NotifiedAt: entry.NotifiedAt.UTC().Format(time.RFC3339),
			Price:      entry.Price.String(),
			Message:    entry.Message,
		}
		if entry.ChangePercent != nil {
			change := entry.ChangePercent.String()
			response.ChangePercent = &change
		}
		result = append(result, response)
	}
	return result
}
