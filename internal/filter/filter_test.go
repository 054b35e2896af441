package filter

import (
	"testing"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestListings(t *testing.T) {
	listings := []domain.Listing{
		{Name: "Black Lotus", Set: "LEA", CollectorNumber: "232", Finish: domain.FinishNormal},
		{Name: "Black Lotus (Foil)", Set: "VMA", CollectorNumber: "4", Finish: domain.FinishFoil},
		{Name: "Blacker Lotus", Set: "UNG", CollectorNumber: "2", Finish: domain.FinishNormal},
		{Name: "Gilded Lotus", Set: "MRD", CollectorNumber: "207", Finish: domain.FinishEtched},
	}

	t.Run("name is mandatory substring match", func(t *testing.T) {
		matched := Listings(domain.CardRequestSpec{CardName: "black lotus"}, listings)
		assert.Len(t, matched, 2)
		assert.Equal(t, "Black Lotus", matched[0].Name)
		assert.Equal(t, "Black Lotus (Foil)", matched[1].Name)
	})

	t.Run("failed name excludes regardless of other fields", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Mox Pearl", SetCode: "LEA", CollectorID: "232"}
		assert.Empty(t, Listings(spec, listings))
	})

	t.Run("absent set and collector are wildcards", func(t *testing.T) {
		matched := Listings(domain.CardRequestSpec{CardName: "Lotus"}, listings)
		assert.Len(t, matched, 4)
	})

	t.Run("set code is exact", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Black Lotus", SetCode: "LEA"}
		matched := Listings(spec, listings)
		assert.Len(t, matched, 1)
		assert.Equal(t, "LEA", matched[0].Set)
	})

	t.Run("collector number is exact", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Lotus", CollectorID: "4"}
		matched := Listings(spec, listings)
		assert.Len(t, matched, 1)
		assert.Equal(t, "4", matched[0].CollectorNumber)
	})

	t.Run("foil spec excludes non foil listings", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Lotus", Finish: domain.FinishFoil}
		matched := Listings(spec, listings)
		assert.Len(t, matched, 1)
		assert.Equal(t, domain.FinishFoil, matched[0].Finish)
	})

	t.Run("non foil spec passes any finish", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Lotus", Finish: domain.FinishNormal}
		assert.Len(t, Listings(spec, listings), 4)
	})

	t.Run("etched spec does not constrain finish", func(t *testing.T) {
		spec := domain.CardRequestSpec{CardName: "Lotus", Finish: domain.FinishEtched}
		assert.Len(t, Listings(spec, listings), 4)
	})

	t.Run("preserves original order", func(t *testing.T) {
		matched := Listings(domain.CardRequestSpec{CardName: "Lotus"}, listings)
		for i, l := range listings {
			assert.Equal(t, l.Name, matched[i].Name)
		}
	})

	t.Run("empty listings", func(t *testing.T) {
		assert.Empty(t, Listings(domain.CardRequestSpec{CardName: "Black Lotus"}, nil))
	})
}
