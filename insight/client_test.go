package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bithired/models"
)

var machine = models.Machine{
	Name:         "Antminer S19",
	HashRate:     "95 TH/s",
	Cost:         2000_00,
	DailyEarning: 100_00,
	DurationDays: 30,
}

func TestProjectProfitFallback(t *testing.T) {
	c := NewClient("", "", "")

	p, err := c.ProjectProfit(context.Background(), machine, 0, nil)
	require.NoError(t, err)

	// 30 days at 100.00 less the 2000.00 hire cost, in whole KES
	assert.Equal(t, 1000.0, p.ProjectedProfit)
	assert.NotEmpty(t, p.Analysis)
}

func TestProjectProfitRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ProjectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Antminer S19", req.Machine)
		assert.Equal(t, 30, req.DurationDays)
		assert.Equal(t, 65000.0, req.CurrentPrice)

		json.NewEncoder(w).Encode(Projection{
			ProjectedProfit: 1234.5,
			Analysis:        "looks profitable",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "test-key")

	p, err := c.ProjectProfit(context.Background(), machine, 65000.0, []float64{64000, 64500})
	require.NoError(t, err)
	assert.Equal(t, 1234.5, p.ProjectedProfit)
	assert.Equal(t, "looks profitable", p.Analysis)
}

func TestProjectProfitRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	_, err := c.ProjectProfit(context.Background(), machine, 0, nil)
	assert.Error(t, err)
}

func TestSpotRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"market_data": map[string]interface{}{
				"current_price": map[string]interface{}{
					"usd": 67890.12,
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, "")

	rate, err := c.SpotRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 67890.12, rate)
}

func TestSpotRateMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"market_data": map[string]interface{}{}})
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, "")
	_, err := c.SpotRate(context.Background())
	assert.Error(t, err)
}
