package llama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const defaultUserAgent = "revscope-etl/1.1"

// ClientConfig holds runtime settings for the DeFiLlama client.
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	DebugDir     string
}

// Client fetches protocol TVL and fee documents from the DeFiLlama API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a Client with its own bounded-timeout HTTP client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Protocol fetches the TVL document for a slug. The updatedProtocol endpoint
// is tried before the plain one; responses vary per protocol.
func (c *Client) Protocol(ctx context.Context, slug string) (*ProtocolDoc, error) {
	urls := []string{
		fmt.Sprintf("%s/updatedProtocol/%s", c.cfg.BaseURL, slug),
		fmt.Sprintf("%s/protocol/%s", c.cfg.BaseURL, slug),
	}

	var doc ProtocolDoc
	if err := c.fetchFirst(ctx, slug, "tvl", urls, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DailyRevenue fetches the fee/revenue document for a slug, preferring the
// dailyProtocolRevenue data type over dailyRevenue.
func (c *Client) DailyRevenue(ctx context.Context, slug string) (*FeesDoc, error) {
	urls := []string{
		fmt.Sprintf("%s/summary/fees/%s?dataType=dailyProtocolRevenue", c.cfg.BaseURL, slug),
		fmt.Sprintf("%s/summary/fees/%s?dataType=dailyRevenue", c.cfg.BaseURL, slug),
	}

	var doc FeesDoc
	if err := c.fetchFirst(ctx, slug, "revenue", urls, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// fetchFirst tries each URL in order and decodes the first successful
// response, retrying the whole waterfall with exponential backoff.
func (c *Client) fetchFirst(ctx context.Context, slug, kind string, urls []string, target interface{}) error {
	return withRetry(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(ctx context.Context) error {
		var lastErr error
		for _, url := range urls {
			body, err := c.getJSON(ctx, url, target)
			if err != nil {
				lastErr = err
				c.logger.Warn("fetch failed", zap.String("slug", slug), zap.String("kind", kind), zap.String("url", url), zap.Error(err))
				continue
			}
			c.writeDebug(slug, kind, body)
			return nil
		}
		return lastErr
	})
}

func (c *Client) getJSON(ctx context.Context, url string, target interface{}) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return body, nil
}

// writeDebug dumps the raw upstream document for offline inspection. The
// upstream schema varies per protocol, so keeping the raw body around makes
// normalization issues diagnosable without refetching.
func (c *Client) writeDebug(slug, kind string, body []byte) {
	if c.cfg.DebugDir == "" {
		return
	}
	if err := os.MkdirAll(c.cfg.DebugDir, 0o755); err != nil {
		c.logger.Warn("create debug dir", zap.Error(err))
		return
	}
	path := filepath.Join(c.cfg.DebugDir, fmt.Sprintf("%s_%s_debug.json", slug, kind))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		c.logger.Warn("write debug json", zap.String("path", path), zap.Error(err))
	}
}
