package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopee-analyzer/config"
	"shopee-analyzer/models"
	"shopee-analyzer/scraper/shopee"
	"shopee-analyzer/services"
	"shopee-analyzer/storage"
	"shopee-analyzer/utils"
)

func main() {
	categories := flag.String("categories", "furniture", "Comma-separated categories to analyze")
	limit := flag.Int("limit", 0, "Listings per category (0 = config default)")
	competitor := flag.String("competitor", "", "Product name for a direct competitor analysis")
	price := flag.Float64("price", 0, "Your current price for the competitor analysis")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall deadline per analysis")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Shopee Market Analyzer starting ===")
	logger.Info("Config — default limit: %d | max queries: %d | query delay: %v | sessions: %d",
		cfg.DefaultLimit, cfg.MaxQueries, cfg.QueryDelay, cfg.MaxSessions)

	metrics := shopee.NewMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			handler := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(cfg.MetricsAddr, handler); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed: %v", err)
			}
		}()
		logger.Info("Metrics served on %s", cfg.MetricsAddr)
	}

	sessions := shopee.NewChromeSessionFactory(cfg, logger)
	var probe shopee.Prober
	if cfg.ProbeEnabled {
		probe = shopee.NewSearchProbe(cfg, logger)
	}
	orchestrator := shopee.NewOrchestrator(cfg, logger, sessions, probe, metrics)
	analyzer := services.NewAnalyzer(cfg, logger, orchestrator, shopee.NewSyntheticGenerator())

	var store storage.AnalysisStore
	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresStore(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL, snapshots disabled: %v", err)
		} else {
			store = pg
			defer store.Close()
		}
	}

	if *competitor != "" {
		runCompetitorAnalysis(analyzer, logger, *competitor, *price, *timeout)
		return
	}

	names := splitCategories(*categories)
	if len(names) == 0 {
		logger.Error("No categories given. Exiting.")
		os.Exit(1)
	}

	var mu sync.Mutex
	results := make(map[string]*models.CategoryAnalysisResult, len(names))

	pool := utils.NewWorkerPool(cfg.MaxConcurrency, int(cfg.QueryDelay.Milliseconds()))
	for _, name := range names {
		category := name
		pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			result, err := analyzer.AnalyzeCategory(ctx, category, *limit)
			if err != nil {
				logger.Error("Analysis of %q failed: %v", category, err)
				return
			}

			mu.Lock()
			results[category] = result
			mu.Unlock()

			if store != nil {
				if err := store.SaveAnalysis(result); err != nil {
					logger.Error("Snapshot save for %q failed: %v", category, err)
				}
			}
		})
	}
	pool.Wait()

	if len(results) == 0 {
		logger.Error("No analysis completed. Exiting.")
		os.Exit(1)
	}

	for _, name := range names {
		if result, ok := results[name]; ok {
			printCategoryReport(result)
		}
	}
}

func runCompetitorAnalysis(analyzer *services.Analyzer, logger *utils.Logger, product string, price float64, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	analysis, err := analyzer.AnalyzeCompetitors(ctx, product, price)
	if err != nil {
		logger.Error("Competitor analysis failed: %v", err)
		os.Exit(1)
	}
	printCompetitorReport(analysis)
}

func splitCategories(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
