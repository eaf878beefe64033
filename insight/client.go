// Package insight calls the hosted collaborators the dashboard relies on: a
// market-rate feed for the current Bitcoin price and a generative endpoint
// that turns machine parameters plus a price series into a profit projection.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bithired/models"
)

type Client struct {
	projectionURL string
	rateURL       string
	apiKey        string
	http          *http.Client
}

func NewClient(projectionURL, rateURL, apiKey string) *Client {
	return &Client{
		projectionURL: projectionURL,
		rateURL:       rateURL,
		apiKey:        apiKey,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// ProjectionRequest is the structured prompt sent to the generative endpoint.
type ProjectionRequest struct {
	Machine      string   `json:"machine"`
	HashRate     string   `json:"hash_rate"`
	DurationDays int      `json:"duration_days"`
	DailyEarning int64    `json:"daily_earning"`
	Cost         int64    `json:"cost"`
	CurrentPrice float64  `json:"current_price"`
	PriceHistory []float64 `json:"price_history,omitempty"`
}

// Projection is the decoded response.
type Projection struct {
	ProjectedProfit float64 `json:"projectedProfit"`
	Analysis        string  `json:"analysis"`
}

// ProjectProfit posts the prompt and waits for the structured answer. Failures
// come back to the caller; nothing here is fire-and-forget.
func (c *Client) ProjectProfit(ctx context.Context, machine models.Machine, currentPrice float64, history []float64) (*Projection, error) {
	if c.projectionURL == "" {
		// no hosted endpoint configured, fall back to the linear estimate
		return c.linearProjection(machine), nil
	}

	payload := ProjectionRequest{
		Machine:      machine.Name,
		HashRate:     machine.HashRate,
		DurationDays: machine.DurationDays,
		DailyEarning: machine.DailyEarning,
		Cost:         machine.Cost,
		CurrentPrice: currentPrice,
		PriceHistory: history,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode projection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.projectionURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build projection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("projection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("projection service returned status %d", resp.StatusCode)
	}

	var projection Projection
	if err := json.NewDecoder(resp.Body).Decode(&projection); err != nil {
		return nil, fmt.Errorf("failed to decode projection response: %w", err)
	}
	return &projection, nil
}

// linearProjection is the offline estimate: contract earnings minus cost, in
// whole KES.
func (c *Client) linearProjection(machine models.Machine) *Projection {
	earnings := decimal.NewFromInt(machine.DailyEarning).Mul(decimal.NewFromInt(int64(machine.DurationDays)))
	profit := earnings.Sub(decimal.NewFromInt(machine.Cost)).Div(decimal.NewFromInt(100))
	value, _ := profit.Float64()
	return &Projection{
		ProjectedProfit: value,
		Analysis: fmt.Sprintf("%s earns a flat %d per day over %d days against a hire cost of %d.",
			machine.Name, machine.DailyEarning, machine.DurationDays, machine.Cost),
	}
}

// SpotRate fetches the current Bitcoin price in USD from the market feed.
func (c *Client) SpotRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rateURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	marketData, ok := data["market_data"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("rate response missing market_data")
	}
	prices, ok := marketData["current_price"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("rate response missing current_price")
	}
	rate, ok := prices["usd"].(float64)
	if !ok {
		return 0, fmt.Errorf("rate response missing usd price")
	}

	return rate, nil
}
