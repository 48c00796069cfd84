package main

import (
	"fmt"
	"strings"

	"shopee-analyzer/models"
)

func printCategoryReport(r *models.CategoryAnalysisResult) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 MARKET ANALYSIS — %s\033[0m\n", strings.ToUpper(r.Category))
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings analyzed : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Data source       : \033[1m%s\033[0m\n", r.DataSource)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if s := r.PriceStatistics; s != nil {
		fmt.Printf("  Average : \033[1;32m%.2f\033[0m   Median : \033[1;32m%.2f\033[0m\n", s.Average, s.Median)
		fmt.Printf("  Range   : %.2f – %.2f   Q1–Q3 : %.2f – %.2f\n", s.Min, s.Max, s.Q1, s.Q3)
		fmt.Printf("  Std dev : %.2f   Total sales : %d   Avg rating : %.1f\n", s.StdDev, s.TotalSales, s.AverageRating)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if d := r.PriceDistribution; d != nil {
		fmt.Printf("\033[1;33m  Price Distribution\033[0m\n")
		fmt.Printf("  %s\n", thin)
		for _, b := range []models.PriceBucket{d.Budget, d.MidRange, d.Premium} {
			bar := strings.Repeat("█", b.Count)
			fmt.Printf("  %-10s %8.2f – %-8.2f %s (%d)\n", b.Label, b.Min, b.Max, bar, b.Count)
		}
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top Performers\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopPerformers) == 0 {
		fmt.Printf("  No ranked listings\n")
	}
	for _, p := range r.TopPerformers {
		fmt.Printf("  \033[1m%2d.\033[0m %-38s \033[1;32m%3d\033[0m  %.2f | %d sold | %.1f ★\n",
			p.Rank, truncate(p.Name, 36), p.Score, p.Price, p.SoldCount, p.Rating)
		fmt.Printf("      %s\n", p.CompetitiveAdvantage)
	}
	fmt.Println()

	if in := r.Insights; in != nil {
		fmt.Printf("\033[1;33m  Competitive Insights\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Competition : %s   Maturity : %s   Entry barriers : %s\n",
			in.CompetitionLevel, in.MarketMaturity, in.EntryBarriers)
		fmt.Printf("  Market averages — price %.2f | sales %.1f | rating %.1f\n",
			in.MarketAverages.Price, in.MarketAverages.Sales, in.MarketAverages.Rating)
		fmt.Println()
	}

	printRecommendations(r.Recommendations)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func printCompetitorReport(a *models.CompetitiveAnalysis) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🎯 COMPETITOR ANALYSIS — %s\033[0m\n", a.ProductName)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("  Competitors found : \033[1m%d\033[0m   Market : %s   Source : %s\n",
		a.CompetitorsFound, a.MarketPosition, a.DataSource)
	if a.PriceComparison != nil {
		c := a.PriceComparison
		fmt.Printf("  Price position    : \033[1m%s\033[0m (%d cheaper / %d aligned / %d pricier)\n",
			c.Position, c.LowerPriced, c.Aligned, c.HigherPriced)
	}
	if p := a.PerformanceComparison; p != nil {
		fmt.Printf("  Segment averages  : %.1f sales | %.1f ★\n", p.AverageSales, p.AverageRating)
		if p.TopSeller != nil {
			fmt.Printf("  Top seller        : %s (%d sold)\n", truncate(p.TopSeller.Name, 40), p.TopSeller.SoldCount)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Direct Competitors\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, p := range a.DirectCompetitors {
		fmt.Printf("  \033[1m%2d.\033[0m %-40s %.2f | %d sold | %.1f ★\n",
			p.Rank, truncate(p.Name, 38), p.Price, p.SoldCount, p.Rating)
	}
	fmt.Println()

	printRecommendations(a.Recommendations)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func printRecommendations(recs []models.Recommendation) {
	if len(recs) == 0 {
		return
	}
	thin := strings.Repeat("─", 58)

	fmt.Printf("\033[1;33m  Recommendations\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, rec := range recs {
		fmt.Printf("  [%s/%s] \033[1m%s\033[0m (%d%%)\n", rec.Type, rec.Priority, rec.Title, rec.Confidence)
		fmt.Printf("    %s\n", rec.Description)
		fmt.Printf("    → %s\n", rec.Action)
	}
	fmt.Println()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
