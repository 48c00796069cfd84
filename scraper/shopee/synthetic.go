package shopee

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"shopee-analyzer/models"
)

type template struct {
	name      string
	basePrice float64
	variation float64
}

// templateSets are matched against the query in order; the first set whose
// keyword appears in the query supplies the name/price templates.
var templateSets = []struct {
	keywords  []string
	templates []template
}{
	{[]string{"sofa", "couch"}, []template{
		{"3 Seater Retractable Sofa Premium", 1200, 800},
		{"2 Seater Compact Sofa", 800, 400},
		{"Multifunctional Sofa Bed", 1000, 600},
		{"Modern Corner Sofa", 1500, 1000},
		{"Classic Chesterfield Sofa", 2000, 1200},
	}},
	{[]string{"armchair", "recliner"}, []template{
		{"Comfort Recliner Armchair", 600, 400},
		{"Executive Presidential Armchair", 800, 600},
		{"Modern Accent Armchair", 400, 300},
		{"Electric Massage Armchair", 1500, 1000},
		{"RGB Gamer Armchair", 1000, 800},
	}},
	{[]string{"table", "desk"}, []template{
		{"6 Seater Wooden Dining Table", 800, 600},
		{"Tempered Glass Coffee Table", 400, 300},
		{"Home Office Desk", 500, 400},
		{"Decorative Side Table", 200, 150},
		{"Folding Multipurpose Table", 300, 200},
	}},
	{[]string{"chair"}, []template{
		{"Ergonomic Office Chair", 450, 350},
		{"Pro Gamer Chair", 700, 500},
		{"Upholstered Dining Chair", 250, 150},
	}},
	{[]string{"bed", "mattress"}, []template{
		{"Double Box Spring Bed", 1100, 700},
		{"Single Bed with Headboard", 600, 300},
		{"Orthopedic Spring Mattress", 900, 500},
	}},
	{[]string{"wardrobe", "closet"}, []template{
		{"6 Door Mirrored Wardrobe", 1300, 800},
		{"Compact 3 Door Wardrobe", 700, 400},
		{"Modular Closet Organizer", 500, 300},
	}},
}

var genericTemplates = []template{
	{"Premium Multifunctional Furniture Piece", 800, 600},
	{"Modern Compact Furniture Piece", 500, 400},
	{"Elegant Decorative Furniture Piece", 600, 500},
	{"Practical Functional Furniture Piece", 400, 300},
	{"Contemporary Design Furniture Piece", 1000, 800},
}

var shopNames = []string{
	"HomeStyle Store",
	"Prime Living",
	"Decor Plus",
	"Urban Comfort",
	"Casa Bella Outlet",
}

// SyntheticGenerator produces plausible listings from template data when the
// real acquisition tiers yield nothing. It cannot fail and always returns
// exactly the requested number of listings.
type SyntheticGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticGenerator creates a generator seeded from the clock.
func NewSyntheticGenerator() *SyntheticGenerator {
	return NewSeededSyntheticGenerator(time.Now().UnixNano())
}

// NewSeededSyntheticGenerator creates a generator with a fixed seed, for
// reproducible output in tests.
func NewSeededSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns limit synthetic listings for the query. Prices, sales and
// ratings are drawn from bounded ranges anchored to the matched templates;
// names gain a disambiguating suffix once the template pool has cycled.
func (g *SyntheticGenerator) Generate(query string, limit int) []*models.Listing {
	if limit <= 0 {
		return nil
	}

	templates := templatesFor(query)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	listings := make([]*models.Listing, 0, limit)
	for i := 0; i < limit; i++ {
		t := templates[i%len(templates)]

		name := t.name
		if cycle := i/len(templates) + 1; cycle > 1 {
			name = fmt.Sprintf("%s Model %d", t.name, cycle)
		}

		sold := g.rng.Intn(200) + 10
		listings = append(listings, &models.Listing{
			Name:        name,
			Price:       round2(t.basePrice + g.rng.Float64()*t.variation),
			SoldCount:   sold,
			Rating:      math.Round((g.rng.Float64()*1.5+3.5)*10) / 10,
			RatingCount: g.rng.Intn(sold + 1),
			ShopName:    shopNames[g.rng.Intn(len(shopNames))],
			Category:    InferCategory(name),
			SourceTier:  models.SourceSynthetic,
			HarvestedAt: now,
		})
	}
	return listings
}

func templatesFor(query string) []template {
	lower := strings.ToLower(query)
	for _, set := range templateSets {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.templates
			}
		}
	}
	return genericTemplates
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
