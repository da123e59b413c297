// Package mockserver serves the Yahoo chart and Binance klines endpoints from an
// in-memory quote table so the providers can be tested end to end without network access.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata"
	"github.com/rxtech-lab/argo-indicators/pkg/marketdata/provider"
)

// binanceMaxLimit is the largest page the real API returns.
const binanceMaxLimit = 1000

// MockMarketServer serves quotes per symbol. Requests are counted per route so tests
// can assert on paging and caching.
type MockMarketServer struct {
	mu sync.RWMutex

	httpServer *http.Server
	listener   net.Listener

	quotes   map[string][]types.Quote
	requests map[string]int
	// failStatus makes every data endpoint answer with this status when not zero.
	failStatus int
}

// NewMockMarketServer creates a server with no quotes loaded.
func NewMockMarketServer() *MockMarketServer {
	return &MockMarketServer{
		mu:         sync.RWMutex{},
		httpServer: nil,
		listener:   nil,
		quotes:     make(map[string][]types.Quote),
		requests:   make(map[string]int),
		failStatus: 0,
	}
}

// Start listens on address. An empty address or ":0" picks a free port.
func (s *MockMarketServer) Start(address string) error {
	if address == "" {
		address = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener

	router := mux.NewRouter()
	router.HandleFunc("/v8/finance/chart/{symbol}", s.handleYahooChart).Methods(http.MethodGet)
	router.HandleFunc("/api/v3/klines", s.handleKlines).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			fmt.Printf("HTTP server error: %v\n", err)
		}
	}()

	return nil
}

// Stop shuts the server down.
func (s *MockMarketServer) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// BaseURL returns the http URL to pass as the provider base URL.
func (s *MockMarketServer) BaseURL() string {
	if s.listener == nil {
		return ""
	}

	return "http://" + s.listener.Addr().String()
}

// SetQuotes replaces the quotes served for symbol. Quotes must be in ascending time order.
func (s *MockMarketServer) SetQuotes(symbol string, quotes []types.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes[strings.ToUpper(symbol)] = quotes
}

// SetFailure makes the data endpoints answer with status. Zero restores normal behavior.
func (s *MockMarketServer) SetFailure(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failStatus = status
}

// Requests returns how many requests the route ("yahoo" or "binance") has received.
func (s *MockMarketServer) Requests(route string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.requests[route]
}

// begin counts the request and reports the configured failure status.
func (s *MockMarketServer) begin(route, symbol string) ([]types.Quote, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[route]++

	return s.quotes[strings.ToUpper(symbol)], s.failStatus
}

// handleYahooChart handles GET /v8/finance/chart/{symbol}. The range parameter is
// resolved against the last served quote so fixtures stay deterministic.
func (s *MockMarketServer) handleYahooChart(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	quotes, failStatus := s.begin("yahoo", symbol)

	if failStatus != 0 {
		writeJSON(w, failStatus, yahooError("Internal Server Error", "mock failure"))

		return
	}

	if len(quotes) == 0 {
		writeJSON(w, http.StatusNotFound, yahooError("Not Found", "No data found, symbol may be delisted"))

		return
	}

	query := r.URL.Query()
	if query.Get("interval") == "" {
		writeJSON(w, http.StatusBadRequest, yahooError("Bad Request", "interval is required"))

		return
	}

	start, end := int64(0), quotes[len(quotes)-1].Timestamp

	if rangeValue := query.Get("range"); rangeValue != "" {
		lookback, err := marketdata.ParseRange(rangeValue)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, yahooError("Bad Request", err.Error()))

			return
		}

		start = lookback.Start(time.Unix(end, 0).UTC()).Unix()
	} else {
		var err error

		if start, err = strconv.ParseInt(query.Get("period1"), 10, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, yahooError("Bad Request", "invalid period1"))

			return
		}

		if end, err = strconv.ParseInt(query.Get("period2"), 10, 64); err != nil {
			writeJSON(w, http.StatusBadRequest, yahooError("Bad Request", "invalid period2"))

			return
		}
	}

	writeJSON(w, http.StatusOK, yahooChart(symbol, window(quotes, start, end)))
}

// handleKlines handles GET /api/v3/klines with startTime, endTime and limit paging.
func (s *MockMarketServer) handleKlines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	symbol := query.Get("symbol")
	interval := query.Get("interval")

	if symbol == "" || interval == "" {
		http.Error(w, "Missing required parameters", http.StatusBadRequest)

		return
	}

	quotes, failStatus := s.begin("binance", symbol)
	if failStatus != 0 {
		writeJSON(w, failStatus, map[string]any{"code": -1000, "msg": "mock failure"})

		return
	}

	if len(quotes) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": -1121, "msg": "Invalid symbol."})

		return
	}

	intervalDuration := parseInterval(interval)
	if intervalDuration == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": -1120, "msg": "Invalid interval."})

		return
	}

	startMillis, _ := strconv.ParseInt(query.Get("startTime"), 10, 64)

	endMillis := quotes[len(quotes)-1].Timestamp * 1000
	if v := query.Get("endTime"); v != "" {
		endMillis, _ = strconv.ParseInt(v, 10, 64)
	}

	limit := 500
	if v := query.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = min(parsed, binanceMaxLimit)
		}
	}

	klines := make([][]any, 0, limit)

	for _, q := range quotes {
		openMillis := q.Timestamp * 1000
		if openMillis < startMillis || openMillis > endMillis {
			continue
		}

		if len(klines) == limit {
			break
		}

		// [openTime, open, high, low, close, volume, closeTime, quoteVolume, trades, takerBase, takerQuote, ignore]
		klines = append(klines, []any{
			openMillis,
			formatFloat(q.Open),
			formatFloat(q.High),
			formatFloat(q.Low),
			formatFloat(q.Close),
			formatFloat(q.Volume),
			openMillis + intervalDuration.Milliseconds() - 1,
			"0",
			0,
			"0",
			"0",
			"0",
		})
	}

	writeJSON(w, http.StatusOK, klines)
}

func window(quotes []types.Quote, start, end int64) []types.Quote {
	out := make([]types.Quote, 0, len(quotes))

	for _, q := range quotes {
		if q.Timestamp >= start && q.Timestamp <= end {
			out = append(out, q)
		}
	}

	return out
}

func yahooChart(symbol string, quotes []types.Quote) provider.YahooChartResponse {
	n := len(quotes)
	timestamps := make([]int64, n)
	quote := provider.YahooChartQuote{
		Open:   make([]*float64, n),
		High:   make([]*float64, n),
		Low:    make([]*float64, n),
		Close:  make([]*float64, n),
		Volume: make([]*float64, n),
	}

	for i, q := range quotes {
		timestamps[i] = q.Timestamp
		quote.Open[i] = ptr(q.Open)
		quote.High[i] = ptr(q.High)
		quote.Low[i] = ptr(q.Low)
		quote.Close[i] = ptr(q.Close)
		quote.Volume[i] = ptr(q.Volume)
	}

	return provider.YahooChartResponse{
		Chart: provider.YahooChartData{
			Result: []provider.YahooChartResult{
				{
					Meta: provider.YahooChartMeta{
						Symbol:   strings.ToUpper(symbol),
						Currency: "USD",
						Timezone: "UTC",
					},
					Timestamp: timestamps,
					Indicators: provider.YahooChartIndicators{
						Quote: []provider.YahooChartQuote{quote},
					},
				},
			},
			Error: nil,
		},
	}
}

func yahooError(code, description string) provider.YahooChartResponse {
	return provider.YahooChartResponse{
		Chart: provider.YahooChartData{
			Result: nil,
			Error: &provider.YahooChartError{
				Code:        code,
				Description: description,
			},
		},
	}
}

// parseInterval parses a Binance interval string to a duration.
func parseInterval(interval string) time.Duration {
	if len(interval) < 2 {
		return 0
	}

	num, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return 0
	}

	switch interval[len(interval)-1:] {
	case "m":
		return time.Duration(num) * time.Minute
	case "h":
		return time.Duration(num) * time.Hour
	case "d":
		return time.Duration(num) * 24 * time.Hour
	case "w":
		return time.Duration(num) * 7 * 24 * time.Hour
	case "M":
		return time.Duration(num) * 30 * 24 * time.Hour
	default:
		return 0
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

func ptr(v float64) *float64 { return &v }
