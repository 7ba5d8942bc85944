// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"strings"

	"github.com/danielhkuo/stockdeck/liveupdates"
	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/poller"
)

// Feed constructors bind a client fetcher to the polling machinery. All
// feeds of one Client share its deduper, so two views mounting the same
// resource within the dedup window trigger a single request. Constructors
// return started feeds; callers own Close.

// NewPortfolioFeed polls the portfolio summary.
func (c *Client) NewPortfolioFeed(prefs *liveupdates.Preferences, opts poller.Options) *poller.Feed[models.PortfolioResponse] {
	f := poller.NewFeed("/portfolio", func(ctx context.Context) (models.PortfolioResponse, error) {
		return c.Portfolio(ctx)
	}, prefs, c.dedup, opts)
	f.Start()
	return f
}

// NewOrdersFeed polls recent orders.
func (c *Client) NewOrdersFeed(prefs *liveupdates.Preferences, q OrdersQuery, opts poller.Options) *poller.Feed[models.OrdersResponse] {
	key := "/orders?" + q.values().Encode()
	f := poller.NewFeed(key, func(ctx context.Context) (models.OrdersResponse, error) {
		return c.Orders(ctx, q)
	}, prefs, c.dedup, opts)
	f.Start()
	return f
}

// NewIdeasFeed polls trading ideas for one ticker.
func (c *Client) NewIdeasFeed(prefs *liveupdates.Preferences, ticker string, q IdeasQuery, opts poller.Options) *poller.Feed[models.IdeasResponse] {
	key := "/stocks/" + strings.ToUpper(ticker) + "/ideas?" + q.values().Encode()
	f := poller.NewFeed(key, func(ctx context.Context) (models.IdeasResponse, error) {
		return c.Ideas(ctx, ticker, q)
	}, prefs, c.dedup, opts)
	f.Start()
	return f
}

// NewWatchlistFeed polls quotes for a ticker set.
func (c *Client) NewWatchlistFeed(prefs *liveupdates.Preferences, tickers []string, opts poller.Options) *poller.Feed[*models.WatchlistResponse] {
	key := "/watchlist?tickers=" + strings.Join(tickers, ",")
	f := poller.NewFeed(key, func(ctx context.Context) (*models.WatchlistResponse, error) {
		return c.Watchlist(ctx, tickers)
	}, prefs, c.dedup, opts)
	f.Start()
	return f
}
