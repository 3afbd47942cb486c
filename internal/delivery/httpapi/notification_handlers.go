package httpapi

import (
	"net/http"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/cryptopulse/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type notificationResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	CoinID          int64   `json:"coin_id"`
	FrequencyType   string  `json:"frequency_type"`
	IntervalHours   *int    `json:"interval_hours"`
	PreferredTime   *string `json:"preferred_time"`
	PreferredDay    *string `json:"preferred_day"`
	IsActive        bool    `json:"is_active"`
	LastSentAt      *string `json:"last_sent_at"`
	NextScheduledAt *string `json:"next_scheduled_at"`
	CreatedAt       string  `json:"created_at"`
}

func mapNotificationResponse(notification *domain.Notification) notificationResponse {
	response := notificationResponse{
		ID:            notification.ID.String(),
		UserID:        notification.UserID.String(),
		CoinID:        notification.CoinID,
		FrequencyType: string(notification.Schedule.Frequency()),
		IsActive:      notification.IsActive,
		CreatedAt:     notification.CreatedAt.UTC().Format(time.RFC3339),
	}
	switch notification.Schedule.Frequency() {
	case domain.FrequencyCustom:
		hours := notification.Schedule.IntervalHours()
		response.IntervalHours = &hours
	case domain.FrequencyDaily:
		at := notification.Schedule.At().String()
		response.PreferredTime = &at
	case domain.FrequencyWeekly:
		at := notification.Schedule.At().String()
		day := notification.Schedule.Day().String()
		response.PreferredTime = &at
		response.PreferredDay = &day
	}
	if notification.LastSentAt != nil {
		sent := notification.LastSentAt.UTC().Format(time.RFC3339)
		response.LastSentAt = &sent
	}
	if notification.NextScheduledAt != nil {
		next := notification.NextScheduledAt.UTC().Format(time.RFC3339)
		response.NextScheduledAt = &next
	}
	return response
}

type createNotificationRequest struct {
	UserID        string  `json:"user_id" binding:"required"`
	CoinID        int64   `json:"coin_id" binding:"required"`
	FrequencyType string  `json:"frequency_type" binding:"required"`
	IntervalHours *int    `json:"interval_hours"`
	PreferredTime *string `json:"preferred_time"`
	PreferredDay  *string `json:"preferred_day"`
}

func (h *Handlers) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	notification, err := h.notificationUC.Create(c.Request.Context(), userID, req.CoinID, usecase.ScheduleInput{
		FrequencyType: req.FrequencyType,
		IntervalHours: req.IntervalHours,
		PreferredTime: req.PreferredTime,
		PreferredDay:  req.PreferredDay,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapNotificationResponse(notification))
}

func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	notifications, err := h.notificationUC.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		result = append(result, mapNotificationResponse(&notifications[i]))
	}
	c.JSON(http.StatusOK, result)
}

type updateNotificationRequest struct {
	FrequencyType string  `json:"frequency_type" binding:"required"`
	IntervalHours *int    `json:"interval_hours"`
	PreferredTime *string `json:"preferred_time"`
	PreferredDay  *string `json:"preferred_day"`
}

func (h *Handlers) UpdateNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	var req updateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	notification, err := h.notificationUC.UpdateSchedule(c.Request.Context(), id, usecase.ScheduleInput{
		FrequencyType: req.FrequencyType,
		IntervalHours: req.IntervalHours,
		PreferredTime: req.PreferredTime,
		PreferredDay:  req.PreferredDay,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapNotificationResponse(notification))
}

func (h *Handlers) DeactivateNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.notificationUC.Deactivate(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deactivated"})
}

// RefreshPrices is the operator trigger mirroring the periodic refresh.
func (h *Handlers) RefreshPrices(c *gin.Context) {
	updated, err := h.refresher.RefreshAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "prices updated", "updated": updated})
}

// DispatchNotifications runs one dispatch cycle on demand.
func (h *Handlers) DispatchNotifications(c *gin.Context) {
	summary, err := h.dispatcher.RunOnce(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scanned":          summary.Scanned,
		"delivered":        summary.Delivered,
		"missing_target":   summary.MissingTarget,
		"broken":           summary.Broken,
		"gateway_errors":   summary.GatewayError,
		"transport_errors": summary.TransportError,
	})
}
