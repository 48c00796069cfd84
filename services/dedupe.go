package services

import (
	"fmt"
	"math"
	"strings"

	"shopee-analyzer/models"
)

// dedupeNamePrefix is how much of the normalized name takes part in the
// dedup key. Full-name equality is too strict because different tiers and
// queries truncate names differently.
const dedupeNamePrefix = 20

// Dedupe removes duplicate listings harvested across queries and tiers,
// keeping the first occurrence of each key so earlier queries win.
func Dedupe(listings []*models.Listing) []*models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]*models.Listing, 0, len(listings))

	for _, l := range listings {
		key := DedupeKey(l)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}

// DedupeKey builds the composite identity key: a prefix of the lowercased,
// whitespace-stripped name plus the price rounded to the nearest integer.
// Price rounding absorbs minor formatting noise between tiers.
func DedupeKey(l *models.Listing) string {
	name := strings.ToLower(l.Name)
	name = strings.Join(strings.Fields(name), "")
	if len(name) > dedupeNamePrefix {
		name = name[:dedupeNamePrefix]
	}
	return fmt.Sprintf("%s|%d", name, int(math.Round(l.Price)))
}
