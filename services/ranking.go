package services

import (
	"math"
	"sort"
	"strings"

	"shopee-analyzer/models"
)

const topPerformerCount = 10

// Score computes the 0–100 performance score of a listing: sales volume
// capped at 40 points, rating worth 20 points per star, and 30 points for
// carrying a price at all, clamped to 100.
func Score(l *models.Listing) int {
	soldScore := math.Min(float64(l.SoldCount)*0.4, 40)
	ratingScore := l.Rating * 20
	priceScore := 0.0
	if l.Price > 0 {
		priceScore = 30
	}

	score := int(math.Round(soldScore + ratingScore + priceScore))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// Rank orders listings by score descending. Ties break on higher sold
// count, then lexicographic name, so output is deterministic.
func Rank(listings []*models.Listing) []*models.Listing {
	ranked := make([]*models.Listing, len(listings))
	copy(ranked, listings)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := Score(ranked[i]), Score(ranked[j])
		if si != sj {
			return si > sj
		}
		if ranked[i].SoldCount != ranked[j].SoldCount {
			return ranked[i].SoldCount > ranked[j].SoldCount
		}
		return strings.Compare(ranked[i].Name, ranked[j].Name) < 0
	})
	return ranked
}

// TopPerformers returns the first 10 ranked listings annotated with their
// rank, score and competitive advantage against the full set's averages.
func TopPerformers(listings []*models.Listing) []models.TopPerformer {
	valid := ValidListings(listings)
	if len(valid) == 0 {
		return nil
	}

	avgPrice, avgSold := setAverages(valid)
	ranked := Rank(valid)
	if len(ranked) > topPerformerCount {
		ranked = ranked[:topPerformerCount]
	}

	performers := make([]models.TopPerformer, 0, len(ranked))
	for i, l := range ranked {
		performers = append(performers, models.TopPerformer{
			Rank:                 i + 1,
			Name:                 l.Name,
			Price:                l.Price,
			SoldCount:            l.SoldCount,
			Rating:               l.Rating,
			Score:                Score(l),
			Category:             l.Category,
			ShopName:             l.ShopName,
			SourceTier:           l.SourceTier,
			CompetitiveAdvantage: competitiveAdvantage(l, avgPrice, avgSold),
		})
	}
	return performers
}

func setAverages(listings []*models.Listing) (avgPrice, avgSold float64) {
	var priceSum, soldSum float64
	for _, l := range listings {
		priceSum += l.Price
		soldSum += float64(l.SoldCount)
	}
	n := float64(len(listings))
	return priceSum / n, soldSum / n
}

func competitiveAdvantage(l *models.Listing, avgPrice, avgSold float64) string {
	var advantages []string
	if l.Price < avgPrice*0.8 {
		advantages = append(advantages, "price advantage")
	}
	if float64(l.SoldCount) > avgSold*1.5 {
		advantages = append(advantages, "volume advantage")
	}
	if l.Rating >= 4.5 {
		advantages = append(advantages, "quality advantage")
	}

	if len(advantages) == 0 {
		return "balanced performance"
	}
	return strings.Join(advantages, ", ")
}
