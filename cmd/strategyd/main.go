package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantfold/etf-strategy/internal/api"
	"github.com/quantfold/etf-strategy/internal/broker"
	"github.com/quantfold/etf-strategy/internal/config"
	"github.com/quantfold/etf-strategy/internal/database"
	"github.com/quantfold/etf-strategy/internal/kafka"
	"github.com/quantfold/etf-strategy/internal/models"
	"github.com/quantfold/etf-strategy/internal/strategy"
)

func main() {
	var (
		symbolsFlag   = flag.String("symbols", "", "comma-separated ETF universe")
		quotesFile    = flag.String("quotes", "", "JSON quote snapshot file (symbol -> quote)")
		positionsFile = flag.String("positions", "", "JSON sellable-positions snapshot file")
		dryRun        = flag.Bool("dry-run", false, "print order proposals instead of publishing")
		serve         = flag.Bool("serve", false, "serve the analytics API instead of running a pass")
	)
	flag.Parse()

	cfg := config.Load()

	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	quotes, err := loadQuoteProvider(*quotesFile, cfg)
	if err != nil {
		log.Fatalf("failed to load quotes: %v", err)
	}

	if *serve {
		handler := api.NewHandler(db, quotes)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		log.Printf("serving analytics API on %s", addr)
		log.Fatal(http.ListenAndServe(addr, api.SetupRoutes(handler)))
	}

	symbols := splitSymbols(*symbolsFlag)
	if len(symbols) == 0 {
		log.Fatal("-symbols is required for a strategy pass")
	}
	if *quotesFile == "" {
		log.Fatal("-quotes snapshot file is required for a strategy pass")
	}

	positions, err := loadPositions(*positionsFile)
	if err != nil {
		log.Fatalf("failed to load positions: %v", err)
	}

	ctx := context.Background()
	if err := runPass(ctx, db, cfg, quotes, symbols, positions, *dryRun); err != nil {
		log.Fatalf("strategy pass failed: %v", err)
	}
}

// runPass executes one sell-then-buy strategy pass over the universe.
func runPass(ctx context.Context, db *database.DB, cfg *config.Config, quotes broker.QuoteProvider, symbols []string, positions []models.Position, dryRun bool) error {
	end := time.Now()
	start := end.AddDate(0, 0, -cfg.Strategy.HistoryDays)
	table, err := db.LoadPriceTable(symbols, start, end)
	if err != nil {
		return fmt.Errorf("load price table: %w", err)
	}
	log.Printf("loaded %d aligned trading days for %d symbols", table.Len(), len(symbols))

	snapshot, err := quotes.Quotes(ctx, symbols)
	if err != nil {
		return fmt.Errorf("fetch quotes: %w", err)
	}

	selector := &strategy.Selector{
		SellThreshold: cfg.Strategy.SellThreshold,
		BuyAmount:     cfg.Strategy.BuyAmount,
		SliceLow:      cfg.Strategy.SliceLow,
		SliceHigh:     cfg.Strategy.SliceHigh,
	}

	held := make(map[string]bool, len(positions))
	for _, p := range positions {
		held[p.Symbol] = true
	}
	var buyCandidates []string
	for _, s := range symbols {
		if !held[s] {
			buyCandidates = append(buyCandidates, s)
		}
	}

	orders := selector.BuildSellOrders(positions, table, snapshot)
	orders = append(orders, selector.BuildBuyOrders(table, buyCandidates, snapshot)...)
	log.Printf("built %d order proposals", len(orders))

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	if err := producer.PublishOrders(ctx, orders); err != nil {
		return fmt.Errorf("publish orders: %w", err)
	}
	log.Printf("published %d order proposals to %s", len(orders), cfg.Kafka.Topic)
	return nil
}

// loadQuoteProvider reads a static quote snapshot and wraps it in the
// redis cache when one is configured. An empty path yields an empty
// snapshot, enough for the serve mode's analytics-only endpoints.
func loadQuoteProvider(path string, cfg *config.Config) (broker.QuoteProvider, error) {
	snapshot := models.QuoteSnapshot{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read quotes file: %w", err)
		}
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("parse quotes file: %w", err)
		}
	}

	provider := broker.QuoteProvider(broker.StaticQuotes(snapshot))
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		ttl := time.Duration(cfg.Redis.QuoteTTLMs) * time.Millisecond
		provider = broker.NewQuoteCache(provider, client, ttl)
	}
	return provider, nil
}

func loadPositions(path string) ([]models.Position, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read positions file: %w", err)
	}
	var positions []models.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("parse positions file: %w", err)
	}
	return positions, nil
}

func splitSymbols(raw string) []string {
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
