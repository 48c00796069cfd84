package shopee

import (
	"testing"

	"shopee-analyzer/models"
)

func TestExtractAPIListings(t *testing.T) {
	payload := []byte(`{
		"items": [
			{
				"name": "Sofa Retratil 3 Lugares",
				"price": 89990000000,
				"sold": 150,
				"shop_name": "Casa Moderna",
				"item_rating": {"rating_star": 4.8, "rating_count": [320]}
			},
			{
				"name": "Mesa de Jantar",
				"price_min": 45000000000,
				"historical_sold": 40,
				"item_rating": {"rating_star": 4.2}
			}
		]
	}`)

	listings, err := ExtractAPIListings(payload, 0)
	if err != nil {
		t.Fatalf("ExtractAPIListings failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("Expected 2 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Name != "Sofa Retratil 3 Lugares" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Price != 899900 {
		t.Errorf("Price = %v, want 899900 after descaling", first.Price)
	}
	if first.SoldCount != 150 {
		t.Errorf("SoldCount = %d, want 150", first.SoldCount)
	}
	if first.Rating != 4.8 || first.RatingCount != 320 {
		t.Errorf("Rating = %v (%d reviews), want 4.8 (320)", first.Rating, first.RatingCount)
	}
	if first.ShopName != "Casa Moderna" {
		t.Errorf("ShopName = %q", first.ShopName)
	}
	if first.SourceTier != models.SourceAPI {
		t.Errorf("SourceTier = %s, want %s", first.SourceTier, models.SourceAPI)
	}
	if first.Category != "Sofas" {
		t.Errorf("Category = %q, want Sofas", first.Category)
	}

	second := listings[1]
	if second.Price != 450000 {
		t.Errorf("price_min not used: Price = %v, want 450000", second.Price)
	}
	if second.SoldCount != 40 {
		t.Errorf("historical_sold not used: SoldCount = %d, want 40", second.SoldCount)
	}
	if second.RatingCount != 0 {
		t.Errorf("RatingCount = %d, want 0 without a rating_count array", second.RatingCount)
	}
}

func TestExtractAPIListingsItemBasicVariant(t *testing.T) {
	payload := []byte(`{
		"items": [
			{
				"item_basic": {
					"name": "Poltrona Reclinavel",
					"price": 129900000,
					"sold": 22,
					"item_rating": {"rating_star": 4.5, "rating_count": [18]}
				}
			}
		]
	}`)

	listings, err := ExtractAPIListings(payload, 0)
	if err != nil {
		t.Fatalf("ExtractAPIListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(listings))
	}
	l := listings[0]
	if l.Name != "Poltrona Reclinavel" || l.Price != 1299 || l.SoldCount != 22 {
		t.Errorf("Got %q / %v / %d, want Poltrona Reclinavel / 1299 / 22",
			l.Name, l.Price, l.SoldCount)
	}
}

func TestExtractAPIListingsSkipsBadItems(t *testing.T) {
	payload := []byte(`{
		"items": [
			{"name": "", "price": 10000000},
			{"name": "No price item"},
			{"name": "Negative", "price": -500},
			{"name": "Good chair", "price": 25000000, "sold": 5}
		]
	}`)

	listings, err := ExtractAPIListings(payload, 0)
	if err != nil {
		t.Fatalf("ExtractAPIListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("Expected only the valid item, got %d listings", len(listings))
	}
	if listings[0].Name != "Good chair" || listings[0].Price != 250 {
		t.Errorf("Got %q / %v", listings[0].Name, listings[0].Price)
	}
}

func TestExtractAPIListingsHonorsLimit(t *testing.T) {
	payload := []byte(`{
		"items": [
			{"name": "A", "price": 10000000},
			{"name": "B", "price": 20000000},
			{"name": "C", "price": 30000000}
		]
	}`)

	listings, err := ExtractAPIListings(payload, 2)
	if err != nil {
		t.Fatalf("ExtractAPIListings failed: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("Expected 2 listings with limit 2, got %d", len(listings))
	}
}

func TestExtractAPIListingsErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"malformed json", `{"items": [`},
		{"missing items collection", `{"error": 90309999}`},
		{"items is not an array", `{"items": "none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractAPIListings([]byte(tt.payload), 0); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestExtractAPIListingsEmptyItems(t *testing.T) {
	listings, err := ExtractAPIListings([]byte(`{"items": []}`), 0)
	if err != nil {
		t.Fatalf("Empty items collection must not fail: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Expected no listings, got %d", len(listings))
	}
}

func TestClampRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{4.8, 4.8},
		{5, 5},
		{9.7, 5},
	}
	for _, tt := range tests {
		if got := clampRating(tt.in); got != tt.want {
			t.Errorf("clampRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
