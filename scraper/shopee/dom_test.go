package shopee

import (
	"testing"

	"shopee-analyzer/models"
)

const searchResultsMarkup = `
<html><body>
	<div class="shopee-search-item-result">
		<div data-sqe="item">
			<div data-sqe="name">Sofa Retratil Cinza 3 Lugares</div>
			<span data-sqe="price">R$ 1.299,90</span>
			<span class="shopee-item-card__sold">230 vendidos</span>
			<span class="shopee-item-card__rating">4,7</span>
			<span class="shopee-item-card__shop">Movelaria Central</span>
		</div>
		<div data-sqe="item">
			<div data-sqe="name">Mesa de Centro Retro</div>
			<span data-sqe="price">R$ 249,00</span>
			<span class="shopee-item-card__sold">1,2k vendidos</span>
			<span class="shopee-item-card__rating">4,9</span>
		</div>
		<div data-sqe="item">
			<div data-sqe="name">Item sem preco</div>
			<span data-sqe="price">Consulte</span>
		</div>
	</div>
</body></html>`

func TestExtractDOMListings(t *testing.T) {
	listings, err := ExtractDOMListings(searchResultsMarkup, 0)
	if err != nil {
		t.Fatalf("ExtractDOMListings failed: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("Expected 2 listings (unpriced item skipped), got %d", len(listings))
	}

	first := listings[0]
	if first.Name != "Sofa Retratil Cinza 3 Lugares" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Price != 1299.90 {
		t.Errorf("Price = %v, want 1299.90", first.Price)
	}
	if first.SoldCount != 230 {
		t.Errorf("SoldCount = %d, want 230", first.SoldCount)
	}
	if first.Rating != 4.7 {
		t.Errorf("Rating = %v, want 4.7", first.Rating)
	}
	if first.ShopName != "Movelaria Central" {
		t.Errorf("ShopName = %q", first.ShopName)
	}
	if first.SourceTier != models.SourceDOM {
		t.Errorf("SourceTier = %s, want %s", first.SourceTier, models.SourceDOM)
	}

	second := listings[1]
	if second.SoldCount != 1200 {
		t.Errorf("SoldCount = %d, want 1200 for the k suffix", second.SoldCount)
	}
	if second.ShopName != "" {
		t.Errorf("ShopName = %q, want empty when no shop element exists", second.ShopName)
	}
}

func TestExtractDOMListingsFallbackSelectors(t *testing.T) {
	// None of the preferred selectors match; the generic chain tail still
	// recovers the fields.
	markup := `
	<html><body>
		<div class="item-basic">
			<div class="item-basic__name">Cadeira Gamer Pro</div>
			<span class="item-basic__price">$349.99</span>
			<span class="item-basic__sold">87 sold</span>
			<span class="item-basic__rating">4.3</span>
		</div>
	</body></html>`

	listings, err := ExtractDOMListings(markup, 0)
	if err != nil {
		t.Fatalf("ExtractDOMListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(listings))
	}
	l := listings[0]
	if l.Name != "Cadeira Gamer Pro" || l.Price != 349.99 || l.SoldCount != 87 || l.Rating != 4.3 {
		t.Errorf("Got %q / %v / %d / %v", l.Name, l.Price, l.SoldCount, l.Rating)
	}
}

func TestExtractDOMListingsTitleAttributeFallback(t *testing.T) {
	markup := `
	<html><body>
		<div data-sqe="item">
			<div title="Guarda Roupa 6 Portas"></div>
			<span class="price-final">R$ 980,00</span>
		</div>
	</body></html>`

	listings, err := ExtractDOMListings(markup, 0)
	if err != nil {
		t.Fatalf("ExtractDOMListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "Guarda Roupa 6 Portas" {
		t.Errorf("Name = %q, want the title attribute value", listings[0].Name)
	}
	if listings[0].Price != 980 {
		t.Errorf("Price = %v, want 980", listings[0].Price)
	}
}

func TestExtractDOMListingsNoItems(t *testing.T) {
	listings, err := ExtractDOMListings(`<html><body><p>Nothing here</p></body></html>`, 0)
	if err != nil {
		t.Fatalf("ExtractDOMListings failed: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("Expected no listings, got %d", len(listings))
	}
}

func TestExtractDOMListingsHonorsLimit(t *testing.T) {
	listings, err := ExtractDOMListings(searchResultsMarkup, 1)
	if err != nil {
		t.Fatalf("ExtractDOMListings failed: %v", err)
	}
	if len(listings) != 1 {
		t.Errorf("Expected 1 listing with limit 1, got %d", len(listings))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"R$ 1.299,90", 1299.90},
		{"R$ 249,00", 249},
		{"$1,234.56", 1234.56},
		{"$349.99", 349.99},
		{"1.234", 1234},
		{"1.234.567", 1234567},
		{"99,9", 99.9},
		{"12,50", 12.5},
		{"1500", 1500},
		{"R$ 89", 89},
		{"Consulte", 0},
		{"", 0},
		{"R$ 0,00", 0},
		{"...", 0},
	}
	for _, tt := range tests {
		if got := ParsePrice(tt.text); got != tt.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseSoldCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"230 vendidos", 230},
		{"1,2k vendidos", 1200},
		{"3k+ sold", 3000},
		{"5 mil vendidos", 5000},
		{"87 sold", 87},
		{"no sales yet", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseSoldCount(tt.text); got != tt.want {
			t.Errorf("ParseSoldCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"4,7", 4.7},
		{"4.3", 4.3},
		{"5", 5},
		{"9.9", 5},
		{"stars", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseRating(tt.text); got != tt.want {
			t.Errorf("ParseRating(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
