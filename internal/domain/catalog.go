package domain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog se devuelve cuando el catálogo no cumple las reglas básicas.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog es el grafo de items y prerequisitos. Inmutable tras NewCatalog.
// Se asume acíclico; no se verifica.
type Catalog struct {
	items []Item
	index map[string]int
}

// NewCatalog valida los items y construye el catálogo conservando el orden dado.
func NewCatalog(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("%w: item with empty id", ErrInvalidCatalog)
		}
		if _, dup := c.index[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, it.ID)
		}
		if it.Points < 0 {
			return nil, fmt.Errorf("%w: item %q has negative points", ErrInvalidCatalog, it.ID)
		}
		prereqs := make([]Prerequisite, len(it.Prerequisites))
		for i, p := range it.Prerequisites {
			if p.ItemID == "" || p.Amount <= 0 {
				return nil, fmt.Errorf("%w: item %q has invalid prerequisite %+v", ErrInvalidCatalog, it.ID, p)
			}
			prereqs[i] = p
		}
		it.Prerequisites = prereqs
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Items devuelve una copia de los items en orden de definición.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len devuelve el número de items del catálogo.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup busca un item por id.
func (c *Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// TrackedItems devuelve los items cuyo precio hay que consultar: los del catálogo
// más los prerequisitos hoja que no están definidos en él.
func (c *Catalog) TrackedItems() []TrackedItem {
	seen := make(map[string]bool, len(c.items))
	tracked := make([]TrackedItem, 0, len(c.items))
	add := func(id, tag string) {
		if seen[id] {
			return
		}
		seen[id] = true
		tracked = append(tracked, TrackedItem{ID: id, Tag: tag})
	}

	for _, it := range c.items {
		add(it.ID, it.APITag())
	}
	for _, it := range c.items {
		for _, p := range it.Prerequisites {
			if _, ok := c.index[p.ItemID]; !ok {
				add(p.ItemID, p.ItemID)
			}
		}
	}
	return tracked
}

// DefaultCatalog devuelve el catálogo de la tienda Bingo.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]Item{
		{ID: "BINGO_DISPLAY", Points: 50},
		{ID: "COLLECTION_DISPLAY", Points: 30},
		{ID: "BONZO_STATUE", Points: 30},
		{ID: "BOOK_OF_STATS", Points: 5},
		{ID: "SPRING_BOOTS", Points: 150},
		{ID: "GOLDEN_DANTE_STATUE", Points: 100},
		{ID: "DITTO_SKULL", Points: 50},
		{ID: "BINGO_TALISMAN", Points: 100},
		{ID: "BINGO_RING", Points: 150, Prerequisites: []Prerequisite{{ItemID: "BINGO_TALISMAN", Amount: 1}}},
		{ID: "BINGO_ARTIFACT", Points: 150, Prerequisites: []Prerequisite{{ItemID: "BINGO_RING", Amount: 1}}},
		{ID: "BINGO_RELIC", Points: 200, Prerequisites: []Prerequisite{{ItemID: "BINGO_ARTIFACT", Amount: 1}}},
		{ID: "BINGO_BLUE_DYE", Tag: "DYE_BINGO_BLUE", Points: 500},
		{ID: "DITTO_SKIN", Points: 100},
	})
	if err != nil {
		panic(err) // catálogo estático: un error aquí es un bug
	}
	return c
}

// catalogFile es el formato YAML de un catálogo externo.
type catalogFile struct {
	Items []struct {
		ID            string `yaml:"id"`
		Tag           string `yaml:"tag"`
		Points        int    `yaml:"points"`
		Prerequisites []struct {
			ItemID string `yaml:"item_id"`
			Amount int    `yaml:"amount"`
		} `yaml:"prerequisites"`
	} `yaml:"items"`
}

// LoadCatalogFile lee un catálogo YAML que reemplaza al catálogo por defecto.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("domain.LoadCatalogFile: read %q: %w", path, err)
	}

	var raw catalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("domain.LoadCatalogFile: parse YAML: %w", err)
	}
	if len(raw.Items) == 0 {
		return nil, fmt.Errorf("domain.LoadCatalogFile: %w: no items in %q", ErrInvalidCatalog, path)
	}

	items := make([]Item, 0, len(raw.Items))
	for _, ri := range raw.Items {
		it := Item{ID: ri.ID, Tag: ri.Tag, Points: ri.Points}
		for _, rp := range ri.Prerequisites {
			it.Prerequisites = append(it.Prerequisites, Prerequisite{ItemID: rp.ItemID, Amount: rp.Amount})
		}
		items = append(items, it)
	}

	c, err := NewCatalog(items)
	if err != nil {
		return nil, fmt.Errorf("domain.LoadCatalogFile: %w", err)
	}
	return c, nil
}
