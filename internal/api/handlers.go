package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/quantfold/etf-strategy/internal/analytics"
	"github.com/quantfold/etf-strategy/internal/broker"
	"github.com/quantfold/etf-strategy/internal/database"
	"github.com/quantfold/etf-strategy/internal/models"
	"github.com/quantfold/etf-strategy/internal/pricing"
)

// defaultHistoryDays is the trailing window loaded for analytics requests.
const defaultHistoryDays = 300

// Handler holds dependencies for HTTP handlers
type Handler struct {
	db     *database.DB
	quotes broker.QuoteProvider
}

// NewHandler creates a new Handler
func NewHandler(db *database.DB, quotes broker.QuoteProvider) *Handler {
	return &Handler{
		db:     db,
		quotes: quotes,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDifferentials handles GET /api/v1/analytics/differentials
func (h *Handler) GetDifferentials(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r, querySymbols(r))
	if !ok {
		return
	}

	diffs, err := analytics.Differentials(table)
	if err != nil {
		respondAnalyticsError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, diffs)
}

// GetWindowStats handles GET /api/v1/analytics/{symbol}/windows
func (h *Handler) GetWindowStats(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	table, ok := h.loadTable(w, r, []string{symbol})
	if !ok {
		return
	}

	if table.Len() == 0 {
		http.Error(w, "no bars for "+symbol, http.StatusNotFound)
		return
	}
	windows := analytics.WindowTable(table)[symbol]
	respondJSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"windows": windows,
	})
}

// GetFactors handles GET /api/v1/analytics/factors
func (h *Handler) GetFactors(w http.ResponseWriter, r *http.Request) {
	table, ok := h.loadTable(w, r, querySymbols(r))
	if !ok {
		return
	}

	result, err := analytics.Factors(table)
	if err != nil {
		respondAnalyticsError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// orderPreviewRequest is the body of POST /api/v1/orders/preview.
type orderPreviewRequest struct {
	Mode          string   `json:"mode"` // "easy" | "smart" | "pegged"
	Symbol        string   `json:"symbol"`
	Instruction   string   `json:"instruction"`
	Quantity      int      `json:"quantity,omitempty"`
	Amount        float64  `json:"amount,omitempty"`
	LimitPercent  *float64 `json:"limit_percent,omitempty"`
	ProfitPercent *float64 `json:"profit_percent,omitempty"`
	LimitProb     *float64 `json:"limit_prob,omitempty"`
	ProfitProb    *float64 `json:"profit_prob,omitempty"`
	RefSymbol     string   `json:"ref_symbol,omitempty"`
}

// PreviewOrder handles POST /api/v1/orders/preview
func (h *Handler) PreviewOrder(w http.ResponseWriter, r *http.Request) {
	var req orderPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	symbols := []string{req.Symbol}
	if req.RefSymbol != "" {
		symbols = append(symbols, req.RefSymbol)
	}
	quotes, err := h.quotes.Quotes(r.Context(), symbols)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	switch req.Mode {
	case "easy":
		spec, err := pricing.EasyBracket(pricing.EasyBracketParams{
			Symbol:        req.Symbol,
			Instruction:   req.Instruction,
			Quantity:      req.Quantity,
			Amount:        req.Amount,
			LimitPercent:  req.LimitPercent,
			ProfitPercent: req.ProfitPercent,
			Quotes:        quotes,
		})
		respondOrder(w, spec, err)
	case "smart":
		table, ok := h.loadTable(w, r, []string{req.Symbol})
		if !ok {
			return
		}
		spec, err := pricing.SmartBracket(pricing.SmartBracketParams{
			Symbol:      req.Symbol,
			Instruction: req.Instruction,
			Amount:      req.Amount,
			LimitProb:   req.LimitProb,
			ProfitProb:  req.ProfitProb,
			Bars:        table,
			Quotes:      quotes,
		})
		respondOrder(w, spec, err)
	case "pegged":
		spec, err := pricing.AutoPegged(pricing.PeggedParams{
			Symbol:      req.Symbol,
			Instruction: req.Instruction,
			Amount:      req.Amount,
			RefSymbol:   req.RefSymbol,
			Quotes:      quotes,
		})
		respondOrder(w, spec, err)
	default:
		http.Error(w, "mode must be easy, smart, or pegged", http.StatusBadRequest)
	}
}

// loadTable loads a trailing price table for the requested symbols,
// writing an HTTP error and returning false when it cannot.
func (h *Handler) loadTable(w http.ResponseWriter, r *http.Request, symbols []string) (*models.PriceTable, bool) {
	if len(symbols) == 0 {
		http.Error(w, "symbols query parameter is required", http.StatusBadRequest)
		return nil, false
	}

	days := defaultHistoryDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return nil, false
		}
		days = parsed
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	table, err := h.db.LoadPriceTable(symbols, start, end)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return table, true
}

func querySymbols(r *http.Request) []string {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(strings.ToUpper(p)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func respondOrder(w http.ResponseWriter, spec any, err error) {
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrMissingQuote), errors.Is(err, pricing.ErrMissingSymbol):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, pricing.ErrInvalidProbability),
			errors.Is(err, pricing.ErrInvalidPercent),
			errors.Is(err, pricing.ErrInvalidInstruction):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, analytics.ErrInsufficientHistory):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, spec)
}

func respondAnalyticsError(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrInsufficientHistory) || errors.Is(err, analytics.ErrDegenerateSeries) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
