package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_Validation(t *testing.T) {
	cases := map[string][]Item{
		"empty id":        {{ID: ""}},
		"duplicate":       {{ID: "A"}, {ID: "A"}},
		"negative points": {{ID: "A", Points: -1}},
		"zero amount":     {{ID: "A", Prerequisites: []Prerequisite{{ItemID: "B", Amount: 0}}}},
		"empty prereq":    {{ID: "A", Prerequisites: []Prerequisite{{Amount: 1}}}},
	}
	for name, items := range cases {
		_, err := NewCatalog(items)
		assert.True(t, errors.Is(err, ErrInvalidCatalog), name)
	}
}

func TestNewCatalog_CopiesInput(t *testing.T) {
	prereqs := []Prerequisite{{ItemID: "A", Amount: 1}}
	c, err := NewCatalog([]Item{{ID: "B", Prerequisites: prereqs}})
	require.NoError(t, err)

	prereqs[0].Amount = 99
	it, ok := c.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, 1, it.Prerequisites[0].Amount)
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 13, c.Len())

	relic, ok := c.Lookup("BINGO_RELIC")
	require.True(t, ok)
	assert.Equal(t, 200, relic.Points)
	assert.Equal(t, []Prerequisite{{ItemID: "BINGO_ARTIFACT", Amount: 1}}, relic.Prerequisites)

	dye, _ := c.Lookup("BINGO_BLUE_DYE")
	assert.Equal(t, "DYE_BINGO_BLUE", dye.APITag())
}

func TestCatalog_TrackedItemsIncludesLeaves(t *testing.T) {
	c, err := NewCatalog([]Item{
		{ID: "A", Tag: "TAG_A", Points: 1},
		{ID: "B", Points: 1, Prerequisites: []Prerequisite{{ItemID: "A", Amount: 1}, {ItemID: "LEAF", Amount: 2}}},
		{ID: "C", Points: 1, Prerequisites: []Prerequisite{{ItemID: "LEAF", Amount: 1}}},
	})
	require.NoError(t, err)

	assert.Equal(t, []TrackedItem{
		{ID: "A", Tag: "TAG_A"},
		{ID: "B", Tag: "B"},
		{ID: "C", Tag: "C"},
		{ID: "LEAF", Tag: "LEAF"},
	}, c.TrackedItems())
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  - id: BINGO_TALISMAN
    points: 100
  - id: BINGO_RING
    points: 150
    prerequisites:
      - item_id: BINGO_TALISMAN
        amount: 1
  - id: BINGO_BLUE_DYE
    tag: DYE_BINGO_BLUE
    points: 500
`), 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	ring, ok := c.Lookup("BINGO_RING")
	require.True(t, ok)
	assert.Equal(t, 150, ring.Points)
	assert.Equal(t, "BINGO_TALISMAN", ring.Prerequisites[0].ItemID)
}

func TestLoadCatalogFile_Errors(t *testing.T) {
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("items: []\n"), 0o600))
	_, err = LoadCatalogFile(empty)
	assert.True(t, errors.Is(err, ErrInvalidCatalog))
}
