package shopee

import (
	"encoding/json"
	"fmt"
	"time"

	"shopee-analyzer/models"
)

// priceScale is the fixed-point scale the search API uses for monetary
// fields: prices arrive as integers multiplied by 100000.
const priceScale = 100000

type searchItemsPayload struct {
	Items []searchItem `json:"items"`
}

// searchItem covers both the flat item shape and the newer variant that
// nests the same fields under item_basic.
type searchItem struct {
	ItemBasic *searchItem `json:"item_basic,omitempty"`

	Name                string      `json:"name"`
	Price               int64       `json:"price"`
	PriceMin            int64       `json:"price_min"`
	PriceBeforeDiscount int64       `json:"price_before_discount"`
	Sold                int         `json:"sold"`
	HistoricalSold      int         `json:"historical_sold"`
	Stock               int         `json:"stock"`
	ShopName            string      `json:"shop_name"`
	ShopLocation        string      `json:"shop_location"`
	ItemRating          *itemRating `json:"item_rating"`
}

type itemRating struct {
	RatingStar  float64 `json:"rating_star"`
	RatingCount []int   `json:"rating_count"`
}

// ExtractAPIListings parses an intercepted (or directly fetched) search-API
// payload into listings. The payload must carry a top-level items collection;
// individual items with a missing name or non-positive price are skipped
// without failing the batch.
func ExtractAPIListings(payload []byte, limit int) ([]*models.Listing, error) {
	var parsed searchItemsPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("search payload: %w", err)
	}
	if parsed.Items == nil {
		return nil, fmt.Errorf("search payload: no items collection")
	}

	now := time.Now()
	listings := make([]*models.Listing, 0, len(parsed.Items))

	for i := range parsed.Items {
		if limit > 0 && len(listings) >= limit {
			break
		}

		item := &parsed.Items[i]
		if item.ItemBasic != nil {
			item = item.ItemBasic
		}

		price := item.PriceMin
		if price <= 0 {
			price = item.Price
		}
		if item.Name == "" || price <= 0 {
			continue
		}

		sold := item.Sold
		if sold == 0 {
			sold = item.HistoricalSold
		}

		var rating float64
		var ratingCount int
		if item.ItemRating != nil {
			rating = clampRating(item.ItemRating.RatingStar)
			if len(item.ItemRating.RatingCount) > 0 {
				ratingCount = item.ItemRating.RatingCount[0]
			}
		}

		listings = append(listings, &models.Listing{
			Name:        item.Name,
			Price:       float64(price) / priceScale,
			SoldCount:   sold,
			Rating:      rating,
			RatingCount: ratingCount,
			ShopName:    item.ShopName,
			Category:    InferCategory(item.Name),
			SourceTier:  models.SourceAPI,
			HarvestedAt: now,
		})
	}

	return listings, nil
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}
