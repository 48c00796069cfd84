package services

import (
	"math"
	"sort"

	"shopee-analyzer/models"
)

// ComputeStats summarizes the valid prices of a listing set. Listings with
// a zero price are excluded first; when nothing remains the result is nil.
// Sales and rating aggregates run over every valid listing, zero values
// included.
func ComputeStats(listings []*models.Listing) *models.PriceStatistics {
	valid := ValidListings(listings)
	if len(valid) == 0 {
		return nil
	}

	prices := make([]float64, 0, len(valid))
	totalSales := 0
	var ratingSum float64
	for _, l := range valid {
		prices = append(prices, l.Price)
		totalSales += l.SoldCount
		ratingSum += l.Rating
	}
	sort.Float64s(prices)

	n := len(prices)
	var sum float64
	for _, p := range prices {
		sum += p
	}
	mean := sum / float64(n)

	return &models.PriceStatistics{
		Min:           prices[0],
		Max:           prices[n-1],
		Average:       round2(mean),
		Median:        median(prices),
		Q1:            nearestRank(prices, 0.25),
		Q3:            nearestRank(prices, 0.75),
		StdDev:        round2(stdDev(prices, mean)),
		SampleSize:    n,
		TotalSales:    totalSales,
		AverageSales:  round2(float64(totalSales) / float64(n)),
		AverageRating: round1(ratingSum / float64(n)),
	}
}

// ValidListings filters to listings eligible for statistics and ranking.
func ValidListings(listings []*models.Listing) []*models.Listing {
	valid := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Valid() {
			valid = append(valid, l)
		}
	}
	return valid
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return round2((sorted[n/2-1] + sorted[n/2]) / 2)
	}
	return sorted[n/2]
}

// nearestRank picks the percentile element at the zero-based index
// round(p*(n-1)) of the ascending slice. Not interpolated, so quartiles are
// always observed values and min <= q1 <= median <= q3 <= max holds.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(math.Round(p * float64(len(sorted)-1)))
	return sorted[idx]
}

// stdDev is the population standard deviation: this is a descriptive
// summary of the observed sample, not an estimate of a larger population.
func stdDev(values []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
