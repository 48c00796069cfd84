package shopee

import "strings"

// categoryQueries maps an analysis category to the representative search
// phrases used to sample it. Unknown categories fall back to the category
// text itself as the sole query.
var categoryQueries = map[string][]string{
	"furniture":             {"sofa 3 seater", "recliner armchair", "wooden dining table"},
	"upholstered furniture": {"sofa 3 seater", "recliner armchair", "upholstered headboard"},
	"sofas":                 {"sofa 2 seater", "sofa 3 seater", "retractable sofa"},
	"armchairs":             {"recliner armchair", "executive armchair"},
	"tables":                {"dining table", "coffee table", "office desk"},
	"chairs":                {"office chair", "gamer chair", "dining chair"},
	"beds":                  {"box spring bed", "single bed", "double bed"},
	"wardrobes":             {"wardrobe", "closet organizer"},
}

// PlanQueries expands a category into an ordered, deterministic list of
// search queries. The result is always non-empty for a non-empty category.
func PlanQueries(category string) []string {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	if queries, ok := categoryQueries[strings.ToLower(category)]; ok {
		out := make([]string, len(queries))
		copy(out, queries)
		return out
	}
	return []string{category}
}

// categoryKeywords is ordered so compound terms win over their substrings
// ("armchair" before "chair").
var categoryKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"sofa", "couch"}, "Sofas"},
	{[]string{"armchair", "recliner"}, "Armchairs"},
	{[]string{"table", "desk"}, "Tables"},
	{[]string{"chair"}, "Chairs"},
	{[]string{"bed", "mattress"}, "Beds"},
	{[]string{"wardrobe", "closet"}, "Wardrobes"},
}

// InferCategory guesses a listing's category from its name.
func InferCategory(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return "General Furniture"
}
