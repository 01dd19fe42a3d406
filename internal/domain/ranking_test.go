package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(vals []Valuation) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.ItemID
	}
	return out
}

func sampleValuations() []Valuation {
	return []Valuation{
		{ItemID: "A", NetProfit: 50, CoinsPerPoint: 0.5},
		{ItemID: "B", NetProfit: 150, CoinsPerPoint: 1.0},
		{ItemID: "C", NetProfit: -10, CoinsPerPoint: 0},
		{ItemID: "D", NetProfit: 150, CoinsPerPoint: 3.0},
		{ItemID: "E", NetProfit: 0, CoinsPerPoint: 0},
	}
}

func TestRank_CoinsPerPointDesc(t *testing.T) {
	ranked := Rank(sampleValuations(), DefaultSort())
	assert.Equal(t, []string{"D", "B", "A", "C", "E"}, ids(ranked))
}

func TestRank_NetProfitDescStableTies(t *testing.T) {
	ranked := Rank(sampleValuations(), SortSpec{Field: SortNetProfit, Direction: Descending})
	// B y D empatan a 150: conservan orden de catálogo
	assert.Equal(t, []string{"B", "D", "A", "E", "C"}, ids(ranked))
}

func TestRank_AscIsReverseOfDescWithoutTies(t *testing.T) {
	vals := []Valuation{
		{ItemID: "A", NetProfit: 3},
		{ItemID: "B", NetProfit: -1},
		{ItemID: "C", NetProfit: 7},
		{ItemID: "D", NetProfit: 0},
	}
	desc := ids(Rank(vals, SortSpec{Field: SortNetProfit, Direction: Descending}))
	asc := ids(Rank(vals, SortSpec{Field: SortNetProfit, Direction: Ascending}))

	reversed := make([]string, len(desc))
	for i := range desc {
		reversed[len(desc)-1-i] = desc[i]
	}
	assert.Equal(t, reversed, asc)
}

func TestRank_AscIsReverseOfDescModuloTies(t *testing.T) {
	vals := []Valuation{
		{ItemID: "A", CoinsPerPoint: 5},
		{ItemID: "B", CoinsPerPoint: 2},
		{ItemID: "C", CoinsPerPoint: 5},
		{ItemID: "D", CoinsPerPoint: 2},
		{ItemID: "E", CoinsPerPoint: 9},
	}
	desc := Rank(vals, SortSpec{Field: SortCoinsPerPoint, Direction: Descending})
	asc := Rank(vals, SortSpec{Field: SortCoinsPerPoint, Direction: Ascending})

	// Los empates conservan orden de catálogo en ambas direcciones
	assert.Equal(t, []string{"E", "A", "C", "B", "D"}, ids(desc))
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, ids(asc))

	// Invertir los grupos de desc (sin tocar el orden interno) da asc
	var groups [][]string
	for i, v := range desc {
		if i == 0 || v.CoinsPerPoint != desc[i-1].CoinsPerPoint {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v.ItemID)
	}
	var reversed []string
	for i := len(groups) - 1; i >= 0; i-- {
		reversed = append(reversed, groups[i]...)
	}
	assert.Equal(t, reversed, ids(asc))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	vals := sampleValuations()
	_ = Rank(vals, SortSpec{Field: SortNetProfit, Direction: Ascending})
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, ids(vals))
}

// --- ParseSort ---

func TestParseSort_Defaults(t *testing.T) {
	spec, err := ParseSort("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSort(), spec)
}

func TestParseSort_Aliases(t *testing.T) {
	spec, err := ParseSort("profit", "ASC")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{Field: SortNetProfit, Direction: Ascending}, spec)

	spec, err = ParseSort(" cpp ", "descending")
	require.NoError(t, err)
	assert.Equal(t, SortSpec{Field: SortCoinsPerPoint, Direction: Descending}, spec)
}

func TestParseSort_Invalid(t *testing.T) {
	_, err := ParseSort("price", "")
	assert.True(t, errors.Is(err, ErrInvalidSort))

	_, err = ParseSort("", "sideways")
	assert.True(t, errors.Is(err, ErrInvalidSort))
}

func TestSortSpec_Label(t *testing.T) {
	assert.Equal(t, "Coins per point (highest first)", DefaultSort().Label())
	assert.Equal(t, "Net profit (lowest first)", SortSpec{Field: SortNetProfit, Direction: Ascending}.Label())
}
