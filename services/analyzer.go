package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"shopee-analyzer/config"
	"shopee-analyzer/models"
	"shopee-analyzer/scraper/shopee"
	"shopee-analyzer/utils"
)

// Contract-misuse errors. Environmental failures never surface here: the
// acquisition tiers degrade to synthetic data instead.
var (
	ErrEmptyCategory = errors.New("category must not be empty")
	ErrEmptyProduct  = errors.New("product name must not be empty")
	ErrInvalidLimit  = errors.New("limit must not be negative")
)

// competitorLimit is how many competitors a direct comparison samples.
const competitorLimit = 25

// Acquirer harvests listings for one query. It never fails and never
// returns an empty set for limit >= 1.
type Acquirer interface {
	Acquire(ctx context.Context, query string, limit int) []*models.Listing
}

// FallbackGenerator produces synthetic listings when the paced query loop
// was abandoned before anything was harvested.
type FallbackGenerator interface {
	Generate(query string, limit int) []*models.Listing
}

// Analyzer assembles the full category analysis: plan queries, acquire them
// sequentially with enforced pacing, deduplicate, then compute statistics,
// rankings, insights and recommendations. Holds no per-call state; finished
// results are kept in a short-TTL cache only.
type Analyzer struct {
	logger   *utils.Logger
	acquirer Acquirer
	fallback FallbackGenerator
	limiter  *rate.Limiter
	cache    *expirable.LRU[string, *models.CategoryAnalysisResult]

	defaultLimit int
	maxLimit     int
	maxQueries   int
}

// NewAnalyzer builds an Analyzer from config.
func NewAnalyzer(cfg *config.Config, logger *utils.Logger, acquirer Acquirer, fallback FallbackGenerator) *Analyzer {
	return &Analyzer{
		logger:       logger,
		acquirer:     acquirer,
		fallback:     fallback,
		limiter:      rate.NewLimiter(rate.Every(cfg.QueryDelay), 1),
		cache:        expirable.NewLRU[string, *models.CategoryAnalysisResult](cfg.CacheSize, nil, cfg.CacheTTL),
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		maxQueries:   cfg.MaxQueries,
	}
}

// AnalyzeCategory runs the full pipeline for one category. It always
// returns a well-formed result for a valid request; a cancelled context
// degrades to whatever was already harvested, or to synthetic data.
func (a *Analyzer) AnalyzeCategory(ctx context.Context, category string, limit int) (*models.CategoryAnalysisResult, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrEmptyCategory
	}
	limit, err := a.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("category|%s|%d", strings.ToLower(category), limit)
	if cached, ok := a.cache.Get(cacheKey); ok {
		a.logger.Debug("[analyzer] Cache hit for %q", category)
		return cached, nil
	}

	a.logger.Info("[analyzer] Analyzing category %q (limit %d)", category, limit)

	queries := shopee.PlanQueries(category)
	if len(queries) > a.maxQueries {
		queries = queries[:a.maxQueries]
	}

	var harvested []*models.Listing
	for _, query := range queries {
		// Pacing between queries takes priority over latency.
		if err := a.limiter.Wait(ctx); err != nil {
			a.logger.Warn("[analyzer] Deadline reached — continuing with %d harvested listings", len(harvested))
			break
		}
		harvested = append(harvested, a.acquirer.Acquire(ctx, query, limit)...)
	}

	unique := Dedupe(harvested)
	valid := ValidListings(unique)
	if len(valid) == 0 {
		a.logger.Warn("[analyzer] Nothing harvested for %q — falling back to synthetic data", category)
		valid = a.fallback.Generate(category, limit)
	}

	stats := ComputeStats(valid)
	top := TopPerformers(valid)

	result := &models.CategoryAnalysisResult{
		Category:          category,
		TotalListings:     len(valid),
		GeneratedAt:       time.Now(),
		DataSource:        dataSourceTag(valid),
		PriceStatistics:   stats,
		TopPerformers:     top,
		PriceDistribution: BuildPriceDistribution(valid),
		Insights:          BuildInsights(valid, stats),
		MarketTrends:      BuildMarketTrends(valid),
		Recommendations:   BuildRecommendations(stats, top, len(valid), category),
	}

	a.cache.Add(cacheKey, result)
	a.logger.Info("[analyzer] Category %q done — %d listings, source: %s",
		category, result.TotalListings, result.DataSource)
	return result, nil
}

// AnalyzeCompetitors compares a product against its direct competitors.
// currentPrice <= 0 means no price was supplied and skips the price
// positioning.
func (a *Analyzer) AnalyzeCompetitors(ctx context.Context, productName string, currentPrice float64) (*models.CompetitiveAnalysis, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, ErrEmptyProduct
	}

	a.logger.Info("[analyzer] Competitor analysis for %q", productName)

	if err := a.limiter.Wait(ctx); err != nil {
		a.logger.Warn("[analyzer] Deadline reached before acquisition — using synthetic competitors")
	}
	competitors := ValidListings(Dedupe(a.acquirer.Acquire(ctx, productName, competitorLimit)))
	if len(competitors) == 0 {
		competitors = a.fallback.Generate(productName, competitorLimit)
	}

	// With a reference price, compare against the similarly-priced segment
	// unless that would empty the set.
	compared := competitors
	if currentPrice > 0 {
		banded := priceBand(competitors, currentPrice*0.6, currentPrice*1.4)
		if len(banded) > 0 {
			compared = banded
		}
	}

	analysis := &models.CompetitiveAnalysis{
		ProductName:           productName,
		CurrentPrice:          currentPrice,
		CompetitorsFound:      len(compared),
		DirectCompetitors:     TopPerformers(compared),
		MarketPosition:        marketPosition(compared),
		PerformanceComparison: comparePerformance(compared),
		Recommendations:       competitiveRecommendations(compared),
		GeneratedAt:           time.Now(),
		DataSource:            dataSourceTag(compared),
	}
	if currentPrice > 0 {
		analysis.PriceComparison = comparePrices(compared, currentPrice)
	}
	return analysis, nil
}

func (a *Analyzer) normalizeLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, ErrInvalidLimit
	}
	if limit == 0 {
		return a.defaultLimit, nil
	}
	if limit > a.maxLimit {
		return a.maxLimit, nil
	}
	return limit, nil
}

// dataSourceTag reports whether any real-tier data contributed.
func dataSourceTag(listings []*models.Listing) string {
	real, synthetic := false, false
	for _, l := range listings {
		if l.SourceTier == models.SourceSynthetic {
			synthetic = true
		} else {
			real = true
		}
	}
	switch {
	case real && synthetic:
		return models.DataSourceMixed
	case real:
		return models.DataSourceLive
	default:
		return models.DataSourceSynthetic
	}
}

func priceBand(listings []*models.Listing, min, max float64) []*models.Listing {
	banded := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Price >= min && l.Price <= max {
			banded = append(banded, l)
		}
	}
	return banded
}

func marketPosition(listings []*models.Listing) string {
	if len(listings) == 0 {
		return ""
	}
	var sum float64
	for _, l := range listings {
		sum += l.Price
	}
	avg := sum / float64(len(listings))

	switch {
	case avg < 300:
		return "budget_market"
	case avg < 800:
		return "mid_market"
	default:
		return "premium_market"
	}
}

// alignedBand is the tolerance within which a competitor price counts as
// aligned with the reference price rather than cheaper or pricier.
const alignedBand = 0.05

func comparePrices(listings []*models.Listing, currentPrice float64) *models.PriceComparison {
	cmp := &models.PriceComparison{}
	for _, l := range listings {
		switch {
		case l.Price < currentPrice*(1-alignedBand):
			cmp.LowerPriced++
		case l.Price > currentPrice*(1+alignedBand):
			cmp.HigherPriced++
		default:
			cmp.Aligned++
		}
	}

	switch {
	case cmp.LowerPriced > cmp.HigherPriced:
		cmp.Position = models.PositionAboveMarket
	case cmp.HigherPriced > cmp.LowerPriced:
		cmp.Position = models.PositionBelowMarket
	default:
		cmp.Position = models.PositionAlignedMarket
	}
	return cmp
}

func comparePerformance(listings []*models.Listing) *models.PerformanceComparison {
	if len(listings) == 0 {
		return nil
	}

	var soldSum, ratingSum float64
	topSeller, highestRated := listings[0], listings[0]
	for _, l := range listings {
		soldSum += float64(l.SoldCount)
		ratingSum += l.Rating
		if l.SoldCount > topSeller.SoldCount {
			topSeller = l
		}
		if l.Rating > highestRated.Rating {
			highestRated = l
		}
	}

	n := float64(len(listings))
	return &models.PerformanceComparison{
		AverageSales:  round2(soldSum / n),
		AverageRating: round1(ratingSum / n),
		TopSeller:     topSeller,
		HighestRated:  highestRated,
	}
}

func competitiveRecommendations(listings []*models.Listing) []models.Recommendation {
	if len(listings) == 0 {
		return nil
	}

	ranked := Rank(listings)
	leader := ranked[0]
	return []models.Recommendation{
		{
			Type:     models.RecCompetitive,
			Priority: models.PriorityHigh,
			Title:    "Leading competitor",
			Description: fmt.Sprintf(
				"%q leads the segment with %d sales and a %.1f rating",
				leader.Name, leader.SoldCount, leader.Rating),
			Action:     "Review the leader's positioning before adjusting your own listing",
			Confidence: 85,
		},
	}
}
