package models

import "time"

// SourceTier identifies which acquisition strategy produced a listing.
type SourceTier string

const (
	SourceAPI       SourceTier = "api"
	SourceDOM       SourceTier = "dom"
	SourceSynthetic SourceTier = "synthetic"
)

// Listing is one normalized marketplace item, harvested or synthesized.
// Listings are immutable after construction and live only for the duration
// of a single analysis call.
type Listing struct {
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	SoldCount   int        `json:"sold_count"`
	Rating      float64    `json:"rating"`
	RatingCount int        `json:"rating_count,omitempty"`
	ShopName    string     `json:"shop_name,omitempty"`
	Category    string     `json:"category"`
	SourceTier  SourceTier `json:"source"`
	HarvestedAt time.Time  `json:"harvested_at"`
}

// Valid reports whether the listing can take part in statistics and ranking.
// Price is the primary comparison axis, so a zero price disqualifies.
func (l *Listing) Valid() bool {
	return l != nil && l.Name != "" && l.Price > 0
}

// PriceStatistics summarizes the valid prices of a listing set.
type PriceStatistics struct {
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Average       float64 `json:"average"`
	Median        float64 `json:"median"`
	Q1            float64 `json:"quartile_1"`
	Q3            float64 `json:"quartile_3"`
	StdDev        float64 `json:"std_deviation"`
	SampleSize    int     `json:"sample_size"`
	TotalSales    int     `json:"total_sales"`
	AverageSales  float64 `json:"avg_sales"`
	AverageRating float64 `json:"avg_rating"`
}

// TopPerformer is one ranked listing annotated for the report.
type TopPerformer struct {
	Rank                 int        `json:"rank"`
	Name                 string     `json:"name"`
	Price                float64    `json:"price"`
	SoldCount            int        `json:"sold_count"`
	Rating               float64    `json:"rating"`
	Score                int        `json:"performance_score"`
	Category             string     `json:"category"`
	ShopName             string     `json:"shop_name,omitempty"`
	SourceTier           SourceTier `json:"source"`
	CompetitiveAdvantage string     `json:"competitive_advantage"`
}

// PriceBucket is one segment of the price distribution.
type PriceBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// PriceDistribution splits the observed price range into equal thirds.
type PriceDistribution struct {
	Budget   PriceBucket `json:"budget"`
	MidRange PriceBucket `json:"mid_range"`
	Premium  PriceBucket `json:"premium"`
}

// MarketAverages carries the per-listing averages of the analyzed set.
type MarketAverages struct {
	Price  float64 `json:"price"`
	Sales  float64 `json:"sales"`
	Rating float64 `json:"rating"`
}

// CompetitiveInsights qualifies the state of the analyzed market.
type CompetitiveInsights struct {
	MarketSize       int            `json:"market_size"`
	CompetitionLevel string         `json:"competition_level"`
	MarketAverages   MarketAverages `json:"market_averages"`
	MarketMaturity   string         `json:"market_maturity"`
	EntryBarriers    string         `json:"entry_barriers"`
}

// CategorySales pairs an inferred category with its summed sales volume.
type CategorySales struct {
	Category   string `json:"category"`
	TotalSales int    `json:"total_sales"`
}

// MarketTrends captures activity indicators derived from the listing set.
type MarketTrends struct {
	TrendingPriceMin  float64         `json:"trending_price_min"`
	TrendingPriceMax  float64         `json:"trending_price_max"`
	HotCategories     []CategorySales `json:"hot_categories"`
	HighSalesProducts int             `json:"high_sales_products"`
	MarketActivity    string          `json:"market_activity"`
}

// RecommendationType classifies a recommendation.
type RecommendationType string

const (
	RecPricing       RecommendationType = "pricing"
	RecBenchmarking  RecommendationType = "benchmarking"
	RecMarketInsight RecommendationType = "market_insight"
	RecCompetitive   RecommendationType = "competitive_analysis"
)

// Priority orders recommendations within a report.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one actionable insight, produced fresh per analysis.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Priority    Priority           `json:"priority"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Action      string             `json:"action"`
	Confidence  int                `json:"confidence"`
}

// Data source tags for assembled results.
const (
	DataSourceLive      = "live"
	DataSourceMixed     = "mixed"
	DataSourceSynthetic = "synthetic_fallback"
)

// CategoryAnalysisResult is the single output of one category analysis.
type CategoryAnalysisResult struct {
	Category          string               `json:"category"`
	TotalListings     int                  `json:"total_listings"`
	GeneratedAt       time.Time            `json:"generated_at"`
	DataSource        string               `json:"data_source"`
	PriceStatistics   *PriceStatistics     `json:"price_statistics"`
	TopPerformers     []TopPerformer       `json:"top_performers"`
	PriceDistribution *PriceDistribution   `json:"price_distribution"`
	Insights          *CompetitiveInsights `json:"competitive_insights"`
	MarketTrends      *MarketTrends        `json:"market_trends"`
	Recommendations   []Recommendation     `json:"recommendations"`
}

// PriceComparison positions a product against its competitors' prices.
type PriceComparison struct {
	LowerPriced  int    `json:"lower_priced_competitors"`
	HigherPriced int    `json:"higher_priced_competitors"`
	Aligned      int    `json:"aligned_competitors"`
	Position     string `json:"price_position"`
}

// Price positions reported by a competitor comparison.
const (
	PositionAboveMarket   = "above_market"
	PositionBelowMarket   = "below_market"
	PositionAlignedMarket = "aligned_market"
)

// PerformanceComparison summarizes competitor sales and rating performance.
type PerformanceComparison struct {
	AverageSales  float64  `json:"average_sales"`
	AverageRating float64  `json:"average_rating"`
	TopSeller     *Listing `json:"top_seller,omitempty"`
	HighestRated  *Listing `json:"highest_rated,omitempty"`
}

// CompetitiveAnalysis is the output of a direct competitor comparison.
type CompetitiveAnalysis struct {
	ProductName           string                 `json:"product_name"`
	CurrentPrice          float64                `json:"current_price,omitempty"`
	CompetitorsFound      int                    `json:"competitors_found"`
	DirectCompetitors     []TopPerformer         `json:"direct_competitors"`
	MarketPosition        string                 `json:"market_position"`
	PriceComparison       *PriceComparison       `json:"price_comparison,omitempty"`
	PerformanceComparison *PerformanceComparison `json:"performance_comparison,omitempty"`
	Recommendations       []Recommendation       `json:"recommendations"`
	GeneratedAt           time.Time              `json:"generated_at"`
	DataSource            string                 `json:"data_source"`
}
