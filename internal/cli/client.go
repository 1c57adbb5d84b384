package cli

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

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) State(ctx context.Context) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &out)
	return out, err
}

func (c *Client) Headlines(ctx context.Context) ([]game.Headline, error) {
	var out struct {
		Headlines []game.Headline `json:"headlines"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state/headlines", nil, &out)
	return out.Headlines, err
}

func (c *Client) AcceptOrder(ctx context.Context, orderID int) (game.State, error) {
	return c.action(ctx, "/v1/actions/accept-order", map[string]any{"order_id": orderID})
}

func (c *Client) Ship(ctx context.Context, vehicleID string, pallets map[string]int) (game.State, error) {
	return c.action(ctx, "/v1/actions/ship", map[string]any{
		"vehicle_id": vehicleID,
		"pallets":    pallets,
	})
}

func (c *Client) PurchaseUpgrade(ctx context.Context, upgradeID string) (game.State, error) {
	return c.action(ctx, "/v1/actions/purchase-upgrade", map[string]any{"upgrade_id": upgradeID})
}

func (c *Client) HireWorker(ctx context.Context) (game.State, error) {
	return c.action(ctx, "/v1/actions/hire-worker", nil)
}

func (c *Client) AssignWorker(ctx context.Context, workerID, lineID int) (game.State, error) {
	return c.action(ctx, "/v1/actions/assign-worker", map[string]any{
		"worker_id": workerID,
		"line_id":   lineID,
	})
}

func (c *Client) UpgradeWorker(ctx context.Context, workerID int, stat string) (game.State, error) {
	return c.action(ctx, "/v1/actions/upgrade-worker", map[string]any{
		"worker_id": workerID,
		"stat":      stat,
	})
}

func (c *Client) UpgradeLine(ctx context.Context, lineID int) (game.State, error) {
	return c.action(ctx, "/v1/actions/upgrade-line", map[string]any{"line_id": lineID})
}

func (c *Client) OrderMaterials(ctx context.Context, material string, quantity int) (game.State, error) {
	return c.action(ctx, "/v1/actions/order-materials", map[string]any{
		"material": material,
		"quantity": quantity,
	})
}

func (c *Client) PayInvoice(ctx context.Context, invoiceID int) (game.State, error) {
	return c.action(ctx, "/v1/actions/pay-invoice", map[string]any{"invoice_id": invoiceID})
}

func (c *Client) ResolveStrike(ctx context.Context) (game.State, error) {
	return c.action(ctx, "/v1/actions/resolve-strike", nil)
}

func (c *Client) StartResearch(ctx context.Context, projectID string) (game.State, error) {
	return c.action(ctx, "/v1/actions/start-research", map[string]any{"project_id": projectID})
}

// Do replays an arbitrary queued command; used by `foundry sync`.
func (c *Client) Do(ctx context.Context, method, path string, body map[string]any) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, method, path, body, &out)
	return out, err
}

func (c *Client) action(ctx context.Context, path string, body map[string]any) (game.State, error) {
	var out game.State
	err := c.jsonRequest(ctx, http.MethodPost, path, body, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
