package shopee

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"shopee-analyzer/models"
)

// Selector chains for the rendered results page, most-specific first and
// most-generic last. Each field's chain is resolved independently, so drift
// in one field's markup does not disable extraction of the others.
var (
	itemSelectors = []string{
		`[data-sqe="item"]`,
		`.shopee-search-item-result__item`,
		`[data-testid="item-card"]`,
		`.item-card-special`,
		`.shopee-item-card`,
		`.item-basic`,
	}
	nameSelectors = []string{
		`[data-sqe="name"]`,
		`.shopee-item-card__title`,
		`.item-basic__name`,
		`.shopee-search-item-result__item-name`,
		`div[title]`,
	}
	priceSelectors = []string{
		`[data-sqe="price"]`,
		`.shopee-item-card__current-price`,
		`.item-basic__price`,
		`[class*="price"]`,
	}
	soldSelectors = []string{
		`.shopee-item-card__sold`,
		`.item-basic__sold`,
		`[class*="sold"]`,
	}
	ratingSelectors = []string{
		`.shopee-item-card__rating`,
		`.item-basic__rating`,
		`[class*="rating"]`,
	}
	shopSelectors = []string{
		`.shopee-item-card__shop`,
		`[class*="shop-name"]`,
	}
)

var (
	numberRe = regexp.MustCompile(`[\d.,]+`)
	soldRe   = regexp.MustCompile(`(?i)([\d.,]+)\s*\+?\s*(k|mil)?`)
	ratingRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
)

// ExtractDOMListings pulls listings out of rendered page markup. An item is
// emitted only when both a name and a parseable positive price are found;
// sold count and rating default to zero and never block emission.
func ExtractDOMListings(html string, limit int) ([]*models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	items := firstMatch(doc.Selection, itemSelectors)
	if items == nil {
		return nil, nil
	}

	nameSel := pickSelector(items, nameSelectors)
	priceSel := pickSelector(items, priceSelectors)
	soldSel := pickSelector(items, soldSelectors)
	ratingSel := pickSelector(items, ratingSelectors)
	shopSel := pickSelector(items, shopSelectors)

	now := time.Now()
	var listings []*models.Listing

	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if limit > 0 && len(listings) >= limit {
			return false
		}

		name := fieldText(item, nameSel)
		if name == "" {
			if title, ok := item.Find(nameSel).Attr("title"); ok {
				name = strings.TrimSpace(title)
			}
		}
		price := ParsePrice(fieldText(item, priceSel))
		if name == "" || price <= 0 {
			return true
		}

		listings = append(listings, &models.Listing{
			Name:        name,
			Price:       price,
			SoldCount:   ParseSoldCount(fieldText(item, soldSel)),
			Rating:      ParseRating(fieldText(item, ratingSel)),
			ShopName:    fieldText(item, shopSel),
			Category:    InferCategory(name),
			SourceTier:  models.SourceDOM,
			HarvestedAt: now,
		})
		return true
	})

	return listings, nil
}

// firstMatch returns the elements matched by the first selector in the chain
// that matches anything, or nil when none do.
func firstMatch(root *goquery.Selection, chain []string) *goquery.Selection {
	for _, sel := range chain {
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// pickSelector chooses the first selector in the chain that matches at least
// one element inside the item set. Falls back to the last candidate so a
// later markup match still has a chance per item.
func pickSelector(items *goquery.Selection, chain []string) string {
	for _, sel := range chain {
		if items.Find(sel).Length() > 0 {
			return sel
		}
	}
	return chain[len(chain)-1]
}

func fieldText(item *goquery.Selection, sel string) string {
	return strings.TrimSpace(item.Find(sel).First().Text())
}

// ParsePrice extracts a price from display text, tolerating currency
// symbols, whitespace and both decimal conventions ("R$ 1.234,56" and
// "$1,234.56"). Non-numeric or zero results return 0.
func ParsePrice(text string) float64 {
	match := numberRe.FindString(text)
	if match == "" {
		return 0
	}
	match = strings.Trim(match, ".,")
	if match == "" {
		return 0
	}

	lastComma := strings.LastIndex(match, ",")
	lastDot := strings.LastIndex(match, ".")

	var normalized string
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both separators present: the rightmost one is the decimal mark.
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(match, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(match, ",", "")
		}
	case lastComma >= 0:
		normalized = normalizeSingleSeparator(match, ",")
	case lastDot >= 0:
		normalized = normalizeSingleSeparator(match, ".")
	default:
		normalized = match
	}

	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil || price <= 0 {
		return 0
	}
	return price
}

// normalizeSingleSeparator decides whether a lone separator kind is a
// thousands or a decimal mark: repeated separators, or exactly three
// trailing digits, mean thousands grouping.
func normalizeSingleSeparator(s, sep string) string {
	groups := strings.Split(s, sep)
	if len(groups) > 2 || len(groups[len(groups)-1]) == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// ParseSoldCount extracts a sales count from display text such as
// "1,2k sold" or "345 vendidos".
func ParseSoldCount(text string) int {
	m := soldRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	value := ParsePrice(m[1])
	if value <= 0 {
		return 0
	}
	if m[2] != "" {
		value *= 1000
	}
	return int(value)
}

// ParseRating extracts a rating from display text, clamped to [0,5].
func ParseRating(text string) float64 {
	match := ratingRe.FindString(text)
	if match == "" {
		return 0
	}
	val, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return clampRating(val)
}
