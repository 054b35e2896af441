// Package filter decides which scraped listings satisfy a card request spec.
package filter

import (
	"strings"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
)

// Listings returns the subset of listings matching the spec, in their original
// order. The name check is a case-insensitive substring test so partial names
// still match; set code and collector number are exact matches and act as
// wildcards when absent. Only a foil constraint narrows the finish: specs
// asking for etched or normal printings pass listings of any finish.
func Listings(spec domain.CardRequestSpec, listings []domain.Listing) []domain.Listing {
	var matched []domain.Listing

	for _, listing := range listings {
		if !strings.Contains(strings.ToLower(listing.Name), strings.ToLower(spec.CardName)) {
			continue
		}

		if spec.SetCode != "" && spec.SetCode != listing.Set {
			continue
		}

		if spec.CollectorID != "" && spec.CollectorID != listing.CollectorNumber {
			continue
		}

		if spec.WantsFoil() && listing.Finish != domain.FinishFoil {
			continue
		}

		matched = append(matched, listing)
	}

	return matched
}
