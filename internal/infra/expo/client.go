package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cryptopulse/backend/internal/domain"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://exp.host/--/api/v2"

// Client talks to the Expo push service. Gateway-reported delivery errors
// (bad token, oversized message) come back as tickets with status "error";
// only transport-level problems are returned as Go errors.
type Client struct {
	baseURL     string
	client      *http.Client
	batchClient *http.Client
	logger      *zap.Logger
}

func NewClient(baseURL string, timeout, batchTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: timeout},
		batchClient: &http.Client{Timeout: batchTimeout},
		logger:      logger,
	}
}

type pushRequest struct {
	To       string         `json:"to"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	Sound    string         `json:"sound,omitempty"`
	Badge    int            `json:"badge,omitempty"`
	Priority string         `json:"priority,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type sendResponse struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) Send(ctx context.Context, msg domain.PushMessage) (*domain.PushTicket, error) {
	tickets, err := c.post(ctx, c.client, mapMessage(msg))
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("expo: empty ticket response")
	}
	ticket := mapTicket(tickets[0])
	c.logTicket(msg.To, ticket)
	return &ticket, nil
}

func (c *Client) SendBatch(ctx context.Context, msgs []domain.PushMessage) ([]domain.PushTicket, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	requests := make([]pushRequest, 0, len(msgs))
	for _, msg := range msgs {
		requests = append(requests, mapMessage(msg))
	}
	raw, err := c.post(ctx, c.batchClient, requests)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(msgs) {
		return nil, fmt.Errorf("expo: %d tickets for %d messages", len(raw), len(msgs))
	}
	tickets := make([]domain.PushTicket, 0, len(raw))
	for i, t := range raw {
		ticket := mapTicket(t)
		c.logTicket(msgs[i].To, ticket)
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (c *Client) post(ctx context.Context, client *http.Client, payload any) ([]pushTicket, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/push/send"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	response, err := client.Do(request)
	if err != nil {
		c.logger.Error("expo request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, err
	}
	defer response.Body.Close()

	c.logger.Info(
		"expo request complete",
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("expo: status %d", response.StatusCode)
	}

	var parsed sendResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	// The single-message endpoint returns one ticket object, the batch
	// endpoint an array of them.
	var tickets []pushTicket
	if err := json.Unmarshal(parsed.Data, &tickets); err == nil {
		return tickets, nil
	}
	var single pushTicket
	if err := json.Unmarshal(parsed.Data, &single); err != nil {
		return nil, fmt.Errorf("expo: unexpected ticket payload: %w", err)
	}
	return []pushTicket{single}, nil
}

func (c *Client) logTicket(to string, ticket domain.PushTicket) {
	if ticket.Delivered() {
		return
	}
	c.logger.Warn(
		"expo delivery rejected",
		zap.String("to", truncateToken(to)),
		zap.String("error_kind", ticket.ErrorKind),
	)
}

func mapMessage(msg domain.PushMessage) pushRequest {
	return pushRequest{
		To:       msg.To,
		Title:    msg.Title,
		Body:     msg.Body,
		Data:     msg.Data,
		Sound:    msg.Sound,
		Badge:    msg.Badge,
		Priority: msg.Priority,
	}
}

func mapTicket(t pushTicket) domain.PushTicket {
	if t.Status == domain.PushStatusOK {
		return domain.PushTicket{Status: domain.PushStatusOK}
	}
	kind := t.Details.Error
	if kind == "" {
		kind = t.Message
	}
	return domain.PushTicket{Status: domain.PushStatusError, ErrorKind: kind}
}

func truncateToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
