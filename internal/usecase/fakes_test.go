package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
	err   error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeTokenRepo struct {
	tokens map[uuid.UUID]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uuid.UUID]string)}
}

func (r *fakeTokenRepo) Upsert(_ context.Context, token *domain.PushToken) error {
	r.tokens[token.UserID] = token.Token
	return nil
}

func (r *fakeTokenRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.PushToken, error) {
	token, ok := r.tokens[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.PushToken{UserID: userID, Token: token}, nil
}

type fakeCoinRepo struct {
	coins  map[int64]domain.Coin
	nextID int64
}

func newFakeCoinRepo(coins ...domain.Coin) *fakeCoinRepo {
	repo := &fakeCoinRepo{coins: make(map[int64]domain.Coin), nextID: 1}
	for _, coin := range coins {
		repo.coins[coin.ID] = coin
		if coin.ID >= repo.nextID {
			repo.nextID = coin.ID + 1
		}
	}
	return repo
}

func (r *fakeCoinRepo) Create(_ context.Context, coin *domain.Coin) error {
	for _, existing := range r.coins {
		if existing.Symbol == coin.Symbol {
			return domain.ErrDuplicate
		}
	}
	coin.ID = r.nextID
	r.nextID++
	r.coins[coin.ID] = *coin
	return nil
}

func (r *fakeCoinRepo) GetByID(_ context.Context, id int64) (*domain.Coin, error) {
	coin, ok := r.coins[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &coin, nil
}

func (r *fakeCoinRepo) List(_ context.Context) ([]domain.Coin, error) {
	ids := make([]int64, 0, len(r.coins))
	for id := range r.coins {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	coins := make([]domain.Coin, 0, len(ids))
	for _, id := range ids {
		coins = append(coins, r.coins[id])
	}
	return coins, nil
}

func (r *fakeCoinRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.coins[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.coins, id)
	return nil
}

type fakePriceRepo struct {
	prices    map[int64]domain.CoinPrice
	upserts   [][]domain.CoinPrice
	upsertErr error
}

func newFakePriceRepo(prices ...domain.CoinPrice) *fakePriceRepo {
	repo := &fakePriceRepo{prices: make(map[int64]domain.CoinPrice)}
	for _, price := range prices {
		repo.prices[price.CoinID] = price
	}
	return repo
}

func (r *fakePriceRepo) GetByCoinID(_ context.Context, coinID int64) (*domain.CoinPrice, error) {
	price, ok := r.prices[coinID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &price, nil
}

func (r *fakePriceRepo) List(_ context.Context) ([]domain.CoinPrice, error) {
	prices := make([]domain.CoinPrice, 0, len(r.prices))
	for _, price := range r.prices {
		prices = append(prices, price)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].CoinID < prices[j].CoinID })
	return prices, nil
}

func (r *fakePriceRepo) UpsertAll(_ context.Context, prices []domain.CoinPrice) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, prices)
	for _, price := range prices {
		r.prices[price.CoinID] = price
	}
	return nil
}

type favoriteKey struct {
	userID uuid.UUID
	coinID int64
}

type fakeFavoriteRepo struct {
	favorites map[favoriteKey]domain.Favorite
	order     []favoriteKey
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[favoriteKey]domain.Favorite)}
}

func (r *fakeFavoriteRepo) Create(_ context.Context, favorite *domain.Favorite) error {
	key := favoriteKey{userID: favorite.UserID, coinID: favorite.CoinID}
	if _, ok := r.favorites[key]; ok {
		return domain.ErrDuplicate
	}
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}
	r.favorites[key] = *favorite
	r.order = append(r.order, key)
	return nil
}

func (r *fakeFavoriteRepo) Delete(_ context.Context, userID uuid.UUID, coinID int64) error {
	key := favoriteKey{userID: userID, coinID: coinID}
	if _, ok := r.favorites[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Favorite, error) {
	var result []domain.Favorite
	for _, key := range r.order {
		if favorite, ok := r.favorites[key]; ok && favorite.UserID == userID {
			result = append(result, favorite)
		}
	}
	return result, nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID uuid.UUID, coinID int64) (bool, error) {
	_, ok := r.favorites[favoriteKey{userID: userID, coinID: coinID}]
	return ok, nil
}

type fakeLogRepo struct {
	entries []domain.Log
	coins   map[int64]domain.Coin
}

func newFakeLogRepo(coins map[int64]domain.Coin) *fakeLogRepo {
	return &fakeLogRepo{coins: coins}
}

func (r *fakeLogRepo) Create(_ context.Context, entry *domain.Log) error {
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]domain.Log, error) {
	var result []domain.Log
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			result = append(result, r.entries[i])
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeLogRepo) ListAll(_ context.Context, limit int) ([]domain.Log, error) {
	var result []domain.Log
	for i := len(r.entries) - 1; i >= 0; i-- {
		result = append(result, r.entries[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (r *fakeLogRepo) Stats(_ context.Context, userID uuid.UUID, recentSince time.Time) (*domain.LogStats, error) {
	stats := &domain.LogStats{}
	counts := make(map[int64]int64)
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		stats.Total++
		if !entry.NotifiedAt.Before(recentSince) {
			stats.Recent++
		}
		counts[entry.CoinID]++
	}
	for coinID, count := range counts {
		coin := r.coins[coinID]
		stats.TopCoins = append(stats.TopCoins, domain.CoinLogCount{
			CoinID: coinID,
			Name:   coin.Name,
			Symbol: coin.Symbol,
			Count:  count,
		})
	}
	sort.Slice(stats.TopCoins, func(i, j int) bool { return stats.TopCoins[i].Count > stats.TopCoins[j].Count })
	if len(stats.TopCoins) > 5 {
		stats.TopCoins = stats.TopCoins[:5]
	}
	return stats, nil
}

type fakeNotificationRepo struct {
	items     map[uuid.UUID]*domain.Notification
	order     []uuid.UUID
	logs      []domain.Log
	listErr   error
	recordErr error
}

func newFakeNotificationRepo(notifications ...*domain.Notification) *fakeNotificationRepo {
	repo := &fakeNotificationRepo{items: make(map[uuid.UUID]*domain.Notification)}
	for _, notification := range notifications {
		clone := *notification
		repo.items[clone.ID] = &clone
		repo.order = append(repo.order, clone.ID)
	}
	return repo
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.CreatedAt = time.Now().UTC()
	clone := *notification
	r.items[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	notification, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *notification
	return &clone, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, id := range r.order {
		if notification, ok := r.items[id]; ok && notification.UserID == userID {
			result = append(result, *notification)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Notification, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var result []domain.Notification
	for _, id := range r.order {
		notification, ok := r.items[id]
		if !ok {
			continue
		}
		if notification.Overdue(now) {
			result = append(result, *notification)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) ExistsActive(_ context.Context, userID uuid.UUID, coinID int64) (bool, error) {
	for _, notification := range r.items {
		if notification.UserID == userID && notification.CoinID == coinID && notification.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) Update(_ context.Context, notification *domain.Notification) error {
	if _, ok := r.items[notification.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *notification
	r.items[clone.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	notification, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	notification.IsActive = false
	return nil
}

func (r *fakeNotificationRepo) RecordDispatch(_ context.Context, id uuid.UUID, entry *domain.Log, sentAt, nextAt time.Time) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	notification, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	sent := sentAt
	next := nextAt
	notification.LastSentAt = &sent
	notification.NextScheduledAt = &next
	r.logs = append(r.logs, *entry)
	return nil
}

type fakePushClient struct {
	sent    []domain.PushMessage
	respond func(msg domain.PushMessage) (*domain.PushTicket, error)
}

func (c *fakePushClient) Send(_ context.Context, msg domain.PushMessage) (*domain.PushTicket, error) {
	c.sent = append(c.sent, msg)
	if c.respond != nil {
		return c.respond(msg)
	}
	return &domain.PushTicket{Status: domain.PushStatusOK}, nil
}

func (c *fakePushClient) SendBatch(ctx context.Context, msgs []domain.PushMessage) ([]domain.PushTicket, error) {
	tickets := make([]domain.PushTicket, 0, len(msgs))
	for _, msg := range msgs {
		ticket, err := c.Send(ctx, msg)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, nil
}

type fakePriceFeed struct {
	quotes    map[string]domain.PriceQuote
	err       error
	requested [][]string
}

func (f *fakePriceFeed) SimplePrices(_ context.Context, ids []string) (map[string]domain.PriceQuote, error) {
	f.requested = append(f.requested, ids)
	if f.err != nil {
		return nil, f.err
	}
	result := make(map[string]domain.PriceQuote)
	for _, id := range ids {
		if quote, ok := f.quotes[id]; ok {
			result[id] = quote
		}
	}
	return result, nil
}
