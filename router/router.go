// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/handlers"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/upstream"
)

func NewRouter(store *auth.Store, up *upstream.Client, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()
	started := time.Now()

	// Initialize handlers
	portfolioHandler := handlers.NewPortfolioHandler(store, up, cfg)
	ordersHandler := handlers.NewOrdersHandler(store, up, cfg)
	stockHandler := handlers.NewStockHandler(store, up, cfg)
	chartDataHandler := handlers.NewChartDataHandler(store, up, cfg)
	searchHandler := handlers.NewSearchHandler(store, up, cfg)
	watchlistHandler := handlers.NewWatchlistHandler(store, up, cfg)
	sessionHandler := handlers.NewSessionHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
			Status: "OK",
			Uptime: humanize.Time(started),
		})
	})

	// Session management
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(sessionHandler.Login))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(sessionHandler.Logout))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(sessionHandler.Me))

	// Portfolio and orders. POST /portfolio is the sync alias.
	mux.HandleFunc("GET /portfolio", middleware.WithLogging(portfolioHandler.Get))
	mux.HandleFunc("POST /portfolio", middleware.WithLogging(portfolioHandler.Sync))
	mux.HandleFunc("POST /portfolio/sync", middleware.WithLogging(portfolioHandler.Sync))
	mux.HandleFunc("GET /orders", middleware.WithLogging(ordersHandler.Get))

	// Per-ticker resources. The ohlcv path serves the same series as
	// /chart-data with the symbol taken from the path.
	mux.HandleFunc("GET /stocks/{ticker}", middleware.WithLogging(stockHandler.GetProfile))
	mux.HandleFunc("GET /stocks/{ticker}/ideas", middleware.WithLogging(stockHandler.GetIdeas))
	mux.HandleFunc("GET /stocks/{ticker}/ohlcv", middleware.WithLogging(chartDataHandler.Get))
	mux.HandleFunc("GET /chart-data", middleware.WithLogging(chartDataHandler.Get))

	// Auxiliary (best-effort) resources. POST /watchlist is the validate
	// alias.
	mux.HandleFunc("GET /search", middleware.WithLogging(searchHandler.Get))
	mux.HandleFunc("GET /watchlist", middleware.WithLogging(watchlistHandler.Get))
	mux.HandleFunc("POST /watchlist", middleware.WithLogging(watchlistHandler.Validate))
	mux.HandleFunc("POST /watchlist/validate", middleware.WithLogging(watchlistHandler.Validate))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stockdeck BFF v1"))
	})

	return mux
}
