package services

import (
	"fmt"
	"sort"

	"shopee-analyzer/models"
)

// BuildInsights derives the qualitative market view from a valid listing set
// and its statistics. Returns nil for an empty set.
func BuildInsights(listings []*models.Listing, stats *models.PriceStatistics) *models.CompetitiveInsights {
	if len(listings) == 0 {
		return nil
	}

	insights := &models.CompetitiveInsights{
		MarketSize:       len(listings),
		CompetitionLevel: competitionLevel(len(listings)),
		MarketMaturity:   marketMaturity(listings),
		EntryBarriers:    entryBarriers(listings),
	}
	if stats != nil {
		insights.MarketAverages = models.MarketAverages{
			Price:  stats.Average,
			Sales:  stats.AverageSales,
			Rating: stats.AverageRating,
		}
	}
	return insights
}

func competitionLevel(marketSize int) string {
	switch {
	case marketSize > 50:
		return "high"
	case marketSize > 20:
		return "medium"
	default:
		return "low"
	}
}

func marketMaturity(listings []*models.Listing) string {
	var soldSum float64
	for _, l := range listings {
		soldSum += float64(l.SoldCount)
	}
	avgSold := soldSum / float64(len(listings))

	switch {
	case avgSold > 100:
		return "mature"
	case avgSold > 50:
		return "growing"
	default:
		return "emerging"
	}
}

func entryBarriers(listings []*models.Listing) string {
	var ratingSum float64
	for _, l := range listings {
		ratingSum += l.Rating
	}
	avgRating := ratingSum / float64(len(listings))

	switch {
	case len(listings) > 50 && avgRating > 4.0:
		return "high"
	case len(listings) > 20:
		return "medium"
	default:
		return "low"
	}
}

// BuildPriceDistribution buckets valid prices into equal thirds of the
// observed range. A degenerate range (all prices equal) lands everything in
// the budget bucket.
func BuildPriceDistribution(listings []*models.Listing) *models.PriceDistribution {
	valid := ValidListings(listings)
	if len(valid) == 0 {
		return nil
	}

	min, max := valid[0].Price, valid[0].Price
	for _, l := range valid {
		if l.Price < min {
			min = l.Price
		}
		if l.Price > max {
			max = l.Price
		}
	}
	third := (max - min) / 3

	dist := &models.PriceDistribution{
		Budget:   models.PriceBucket{Label: "budget", Min: round2(min), Max: round2(min + third)},
		MidRange: models.PriceBucket{Label: "mid_range", Min: round2(min + third), Max: round2(min + 2*third)},
		Premium:  models.PriceBucket{Label: "premium", Min: round2(min + 2*third), Max: round2(max)},
	}
	for _, l := range valid {
		switch {
		case l.Price <= min+third:
			dist.Budget.Count++
		case l.Price <= min+2*third:
			dist.MidRange.Count++
		default:
			dist.Premium.Count++
		}
	}
	return dist
}

// BuildMarketTrends derives activity indicators: the trending price band
// around the average, categories ranked by summed sales, and counts of
// high-sales products.
func BuildMarketTrends(listings []*models.Listing) *models.MarketTrends {
	valid := ValidListings(listings)
	if len(valid) == 0 {
		return nil
	}

	var priceSum float64
	highSales := 0
	byCategory := make(map[string]int)
	for _, l := range valid {
		priceSum += l.Price
		if l.SoldCount > 50 {
			highSales++
		}
		byCategory[l.Category] += l.SoldCount
	}
	avgPrice := priceSum / float64(len(valid))

	hot := make([]models.CategorySales, 0, len(byCategory))
	for category, sales := range byCategory {
		hot = append(hot, models.CategorySales{Category: category, TotalSales: sales})
	}
	sort.Slice(hot, func(i, j int) bool {
		if hot[i].TotalSales != hot[j].TotalSales {
			return hot[i].TotalSales > hot[j].TotalSales
		}
		return hot[i].Category < hot[j].Category
	})
	if len(hot) > 3 {
		hot = hot[:3]
	}

	activity := "medium"
	if len(valid) > 30 {
		activity = "high"
	}

	return &models.MarketTrends{
		TrendingPriceMin:  round2(avgPrice * 0.8),
		TrendingPriceMax:  round2(avgPrice * 1.2),
		HotCategories:     hot,
		HighSalesProducts: highSales,
		MarketActivity:    activity,
	}
}

// BuildRecommendations produces the prioritized recommendation list for a
// category analysis. Confidence values are fixed and illustrative: the
// recommendations are heuristic, not statistically derived.
func BuildRecommendations(stats *models.PriceStatistics, top []models.TopPerformer, sampleSize int, category string) []models.Recommendation {
	var recs []models.Recommendation

	if stats != nil {
		recs = append(recs, models.Recommendation{
			Type:     models.RecPricing,
			Priority: models.PriorityHigh,
			Title:    "Pricing opportunity",
			Description: fmt.Sprintf(
				"Based on %d analyzed listings: average price %.2f, competitive band %.2f – %.2f",
				stats.SampleSize, stats.Average, stats.Q1, stats.Q3),
			Action:     "Position products inside the Q1–Q3 band for maximum competitiveness",
			Confidence: 90,
		})
	}

	if len(top) > 0 {
		leader := top[0]
		recs = append(recs, models.Recommendation{
			Type:     models.RecBenchmarking,
			Priority: models.PriorityHigh,
			Title:    "Market leader benchmark",
			Description: fmt.Sprintf(
				"%q leads with %d sales and a %.1f rating",
				leader.Name, leader.SoldCount, leader.Rating),
			Action:     "Study the leader's listing: description, photos, price and service",
			Confidence: 85,
		})
	}

	recs = append(recs, models.Recommendation{
		Type:     models.RecMarketInsight,
		Priority: models.PriorityMedium,
		Title:    "Market insight",
		Description: fmt.Sprintf(
			"Analysis of %d listings in %q — active market with opportunities",
			sampleSize, category),
		Action:     "Optimize products against the identified market trends",
		Confidence: 80,
	})

	sortByPriority(recs)
	return recs
}

var priorityWeight = map[models.Priority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

func sortByPriority(recs []models.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityWeight[recs[i].Priority] < priorityWeight[recs[j].Priority]
	})
}
