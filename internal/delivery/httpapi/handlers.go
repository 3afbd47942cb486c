package httpapi

import (
	"errors"
	"net/http"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/cryptopulse/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handlers struct {
	userUC         *usecase.UserUsecase
	coinUC         *usecase.CoinUsecase
	favoriteUC     *usecase.FavoriteUsecase
	logUC          *usecase.LogUsecase
	notificationUC *usecase.NotificationUsecase
	dispatcher     *usecase.Dispatcher
	refresher      *usecase.PriceRefresher
	logger         *zap.Logger
}

func NewHandlers(
	userUC *usecase.UserUsecase,
	coinUC *usecase.CoinUsecase,
	favoriteUC *usecase.FavoriteUsecase,
	logUC *usecase.LogUsecase,
	notificationUC *usecase.NotificationUsecase,
	dispatcher *usecase.Dispatcher,
	refresher *usecase.PriceRefresher,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userUC:         userUC,
		coinUC:         coinUC,
		favoriteUC:     favoriteUC,
		logUC:          logUC,
		notificationUC: notificationUC,
		dispatcher:     dispatcher,
		refresher:      refresher,
		logger:         logger,
	}
}

// respondError translates usecase sentinels into HTTP statuses. Unknown
// errors are logged and returned as a bare 500 so internals do not leak.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrCoinNotFound),
		errors.Is(err, usecase.ErrNotificationNotFound),
		errors.Is(err, usecase.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrSymbolTaken),
		errors.Is(err, usecase.ErrFavoriteExists),
		errors.Is(err, usecase.ErrActiveNotificationExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidPushToken),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrUnknownWeekday),
		errors.Is(err, domain.ErrInvalidTimeOfDay),
		errors.Is(err, domain.ErrIntervalOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
