// Package plos talks to the remote articles API.
package plos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/sent-hil/plos-articles/article"
	"github.com/sent-hil/plos-articles/config"
	"github.com/sent-hil/plos-articles/internal/lib/logger/sl"
	"github.com/sent-hil/plos-articles/metrics"
)

const maxPayloadBytes = 32 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status from articles API")
	ErrDecode           = errors.New("cannot decode articles payload")
)

// Client fetches and searches articles. Requests are spaced by a rate
// limiter and never overlap: at most one is outstanding at a time.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	searchParam string
	userAgent   string
	limiter     *rate.Limiter
	inflight    *semaphore.Weighted
	log         *slog.Logger
}

func New(log *slog.Logger, cfg config.API) *Client {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		searchParam: cfg.SearchParam,
		userAgent:   cfg.UserAgent,
		limiter:     rate.NewLimiter(limit, 1),
		inflight:    semaphore.NewWeighted(1),
		log:         log.With(slog.String("component", "plos.Client")),
	}
}

// Fetch returns the full list of articles.
func (c *Client) Fetch(ctx context.Context) ([]article.Article, error) {
	return c.get(ctx, "fetch", c.baseURL)
}

// Search delegates query to the API's own search.
func (c *Client) Search(ctx context.Context, query string) ([]article.Article, error) {
	const op = "plos.Client.Search"

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	params := u.Query()
	params.Set(c.searchParam, query)
	u.RawQuery = params.Encode()

	return c.get(ctx, "search", u.String())
}

func (c *Client) get(ctx context.Context, operation, target string) ([]article.Article, error) {
	const op = "plos.Client.get"

	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer c.inflight.Release(1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	log := c.log.With(slog.String("operation", operation), slog.String("url", target))
	log.Debug("requesting articles")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstream(operation, "error", time.Since(start).Seconds())
		log.Error("request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordUpstream(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
		log.Warn("bad status code", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUnexpectedStatus, resp.Status)
	}

	articles, err := article.Decode(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		metrics.RecordUpstream(operation, "decode_error", time.Since(start).Seconds())
		log.Error("decode failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}

	elapsed := time.Since(start)
	metrics.RecordUpstream(operation, strconv.Itoa(resp.StatusCode), elapsed.Seconds())
	log.Info("loaded articles", slog.Int("count", len(articles)), slog.Duration("elapsed", elapsed))

	return articles, nil
}
