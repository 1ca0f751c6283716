package relayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"privacy-pay.backend/internal/domain/entities"
	"privacy-pay.backend/pkg/logger"
)

// Client fetches the relayer's published fee configuration. The config is
// fetched once and memoized for the process lifetime; a failed fetch memoizes
// the hardcoded fallback instead. There is no refresh.
type Client struct {
	baseURL string
	http    *http.Client

	once   sync.Once
	config *entities.RelayerConfig
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Config returns the relayer configuration, fetching it on first call
func (c *Client) Config(ctx context.Context) *entities.RelayerConfig {
	c.once.Do(func() {
		cfg, err := c.fetch(ctx)
		if err != nil {
			logger.Warn(ctx, "Relayer config fetch failed, using fallback defaults", zap.Error(err))
			cfg = entities.DefaultRelayerConfig()
		}
		c.config = cfg
	})
	return c.config
}

func (c *Client) fetch(ctx context.Context) (*entities.RelayerConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relayer config: unexpected status %d", resp.StatusCode)
	}

	var cfg entities.RelayerConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("relayer config: decode: %w", err)
	}
	if cfg.RentFees == nil {
		cfg.RentFees = map[string]float64{}
	}
	return &cfg, nil
}
