package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"go.uber.org/zap"
)

// DispatchSummary is the operator-visible tally of one dispatch run.
type DispatchSummary struct {
	Scanned        int
	Delivered      int
	MissingTarget  int
	Broken         int
	GatewayError   int
	TransportError int
}

// Dispatcher drains overdue notifications: for each one it builds a price
// update from the current snapshot, sends it through the push gateway and,
// only on an acknowledged delivery, logs the event and advances the
// schedule. Each notification is handled in isolation; a failure never
// aborts the batch and never touches another notification's commit.
type Dispatcher struct {
	notifications domain.NotificationRepository
	users         domain.UserRepository
	coins         domain.CoinRepository
	prices        domain.CoinPriceRepository
	tokens        domain.PushTokenRepository
	push          domain.PushClient
	logger        *zap.Logger
	now           func() time.Time
}

func NewDispatcher(
	notifications domain.NotificationRepository,
	users domain.UserRepository,
	coins domain.CoinRepository,
	prices domain.CoinPriceRepository,
	tokens domain.PushTokenRepository,
	push domain.PushClient,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		coins:         coins,
		prices:        prices,
		tokens:        tokens,
		push:          push,
		logger:        logger,
		now:           time.Now,
	}
}

// RunOnce performs a single scan-and-dispatch cycle. Only a failure to
// reach the data store for the scan itself is returned as an error; the
// interval runner retries on its next tick.
func (d *Dispatcher) RunOnce(ctx context.Context) (DispatchSummary, error) {
	now := d.now().UTC()

	overdue, err := d.notifications.ListOverdue(ctx, now)
	if err != nil {
		return DispatchSummary{}, fmt.Errorf("scan overdue notifications: %w", err)
	}

	summary := DispatchSummary{Scanned: len(overdue)}
	if len(overdue) == 0 {
		return summary, nil
	}
	d.logger.Info("dispatch run start", zap.Int("overdue", len(overdue)))

	for i := range overdue {
		if ctx.Err() != nil {
			// Interrupted mid-batch: already-committed items stay
			// committed, the rest remain overdue for the next run.
			return summary, ctx.Err()
		}
		d.dispatchOne(ctx, &overdue[i], now, &summary)
	}

	d.logger.Info(
		"dispatch run complete",
		zap.Int("scanned", summary.Scanned),
		zap.Int("delivered", summary.Delivered),
		zap.Int("missing_target", summary.MissingTarget),
		zap.Int("broken", summary.Broken),
		zap.Int("gateway_errors", summary.GatewayError),
		zap.Int("transport_errors", summary.TransportError),
	)
	return summary, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, notification *domain.Notification, now time.Time, summary *DispatchSummary) {
	logger := d.logger.With(zap.String("notification_id", notification.ID.String()))

	user, err := d.users.GetByID(ctx, notification.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("referenced user missing, skipping permanently", zap.String("user_id", notification.UserID.String()))
			summary.Broken++
			return
		}
		logger.Error("load user failed", zap.Error(err))
		summary.TransportError++
		return
	}

	coin, err := d.coins.GetByID(ctx, notification.CoinID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("referenced coin missing, skipping permanently", zap.Int64("coin_id", notification.CoinID))
			summary.Broken++
			return
		}
		logger.Error("load coin failed", zap.Error(err))
		summary.TransportError++
		return
	}

	// Compute the reschedule before sending: a policy that cannot produce
	// a next due time is permanently broken, and sending first would leave
	// the delivery unrecorded and unreschedulable.
	next, err := notification.Schedule.NextAfter(now)
	if err != nil {
		logger.Warn("malformed schedule, skipping permanently", zap.Error(err))
		summary.Broken++
		return
	}

	token, err := d.tokens.GetByUserID(ctx, notification.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("no push token registered, skipping", zap.String("user_id", user.ID.String()))
			summary.MissingTarget++
			return
		}
		logger.Error("load push token failed", zap.Error(err))
		summary.TransportError++
		return
	}

	price, err := d.prices.GetByCoinID(ctx, notification.CoinID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("load price snapshot failed", zap.Error(err))
			summary.TransportError++
			return
		}
		price = nil // degrade to placeholder content
	}

	msg := buildPushMessage(token.Token, coin, price, notification, now)

	ticket, err := d.push.Send(ctx, msg)
	if err != nil {
		// Transport failure: no reschedule, no log row; stays overdue.
		logger.Warn("push transport failure", zap.Error(err))
		summary.TransportError++
		return
	}
	if !ticket.Delivered() {
		if ticket.ErrorKind == domain.PushErrDeviceNotRegistered {
			logger.Warn("push target invalid", zap.String("user_id", user.ID.String()), zap.String("error_kind", ticket.ErrorKind))
		} else {
			logger.Warn("push rejected by gateway", zap.String("error_kind", ticket.ErrorKind))
		}
		summary.GatewayError++
		return
	}

	entry := &domain.Log{
		UserID:     notification.UserID,
		CoinID:     notification.CoinID,
		NotifiedAt: now,
		Message:    fmt.Sprintf("Push notification sent for %s", coin.Symbol),
	}
	if price != nil {
		entry.Price = price.Price
		entry.ChangePercent = price.Change
	}

	if err := d.notifications.RecordDispatch(ctx, notification.ID, entry, now, next); err != nil {
		// Nothing committed; the item stays overdue and is retried, which
		// can double-send. At-least-once is the accepted semantic here.
		logger.Error("record dispatch failed", zap.Error(err))
		summary.TransportError++
		return
	}

	logger.Info(
		"notification dispatched",
		zap.String("coin", coin.Symbol),
		zap.Time("next_scheduled_at", next),
	)
	summary.Delivered++
}

func buildPushMessage(to string, coin *domain.Coin, price *domain.CoinPrice, notification *domain.Notification, now time.Time) domain.PushMessage {
	title := fmt.Sprintf("%s Price Update", coin.Symbol)
	body := fmt.Sprintf("%s price data is not available yet", coin.Name)

	data := map[string]any{
		"coin_id":         coin.ID,
		"coin_symbol":     coin.Symbol,
		"coin_name":       coin.Name,
		"notification_id": notification.ID.String(),
		"timestamp":       now.Format(time.RFC3339),
	}

	if price != nil {
		priceText, _ := price.Price.Float64()
		body = fmt.Sprintf("%s is currently at $%s", coin.Name, price.Price.StringFixed(2))
		data["current_price"] = priceText
		if price.Change != nil {
			changeText, _ := price.Change.Float64()
			direction := "down"
			if price.IsPositive != nil && *price.IsPositive {
				direction = "up"
			}
			body += fmt.Sprintf(" (%s %s%%)", direction, price.Change.StringFixed(2))
			data["price_change"] = changeText
			data["is_positive"] = price.IsPositive != nil && *price.IsPositive
		}
	}

	return domain.PushMessage{
		To:       to,
		Title:    title,
		Body:     body,
		Data:     data,
		Sound:    "default",
		Badge:    1,
		Priority: "high",
	}
}
