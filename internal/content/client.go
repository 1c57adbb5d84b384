package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"foundry/internal/game"
)

// Client talks to the external generator service. Payloads that fail schema
// validation are dropped by the callers, never by the client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type ordersResponse struct {
	Orders []GeneratedOrder `json:"orders"`
}

type eventResponse struct {
	Event GeneratedEvent `json:"event"`
}

type newsResponse struct {
	News GeneratedNews `json:"news"`
}

func (c *Client) GenerateOrders(ctx context.Context, in game.GenerationInput) ([]GeneratedOrder, error) {
	var out ordersResponse
	if err := c.postJSON(ctx, "/v1/orders/generate", in, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) GenerateEvent(ctx context.Context, in game.GenerationInput) (GeneratedEvent, error) {
	var out eventResponse
	if err := c.postJSON(ctx, "/v1/events/generate", in, &out); err != nil {
		return GeneratedEvent{}, err
	}
	return out.Event, nil
}

func (c *Client) GenerateNews(ctx context.Context, in game.GenerationInput) (GeneratedNews, error) {
	var out newsResponse
	if err := c.postJSON(ctx, "/v1/news/generate", in, &out); err != nil {
		return GeneratedNews{}, err
	}
	return out.News, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("generator request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("generator status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode generator response: %w", err)
	}
	return nil
}
