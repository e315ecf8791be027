// Package catalog supplies read-only item, enemy, and tier definitions
// to the rest of the engine. Callers hold an explicit *Catalog
// reference; nothing reaches for a global.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a lookup misses. Callers are expected
// to degrade (skip a drop, use defaults) rather than abort.
var ErrNotFound = errors.New("catalog: not found")

// Item is a single item definition. Type-specific fields are only
// meaningful for their type: damage range for weapons, defense for
// armor and shields, effect for consumables.
type Item struct {
	Name       string
	Type       ItemType
	DamageMin  int // weapons
	DamageMax  int // weapons
	Defense    int // armor, shields
	Price      int // copper
	Tier       int
	Durability int
	Effect     Effect // consumables
}

// EnemyRecord is a spawnable enemy definition.
type EnemyRecord struct {
	Name        string
	Tier        int
	Attack      int
	Defense     int
	Health      int
	XPValue     int
	MinCopper   int
	MaxCopper   int
	CommonDrops []string
	RareDrops   []string
	SpawnChance float64
}

// TierRecord holds a progression tier's base stats and starting gear.
type TierRecord struct {
	Tier           int
	Title          string
	Attack         int
	Defense        int
	Health         int
	MinXP          int
	Weapon         string // starting weapon item name, may be empty
	Armor          string // starting armor item name, may be empty
	SpecialAbility string
}

// Catalog is an in-memory lookup service over loaded definitions.
type Catalog struct {
	items   map[string]Item
	enemies map[string]EnemyRecord
	tiers   map[int]TierRecord
}

// New builds a Catalog from already-validated records.
func New(items []Item, enemies []EnemyRecord, tiers []TierRecord) *Catalog {
	c := &Catalog{
		items:   make(map[string]Item, len(items)),
		enemies: make(map[string]EnemyRecord, len(enemies)),
		tiers:   make(map[int]TierRecord, len(tiers)),
	}
	for _, it := range items {
		c.items[it.Name] = it
	}
	for _, e := range enemies {
		c.enemies[e.Name] = e
	}
	for _, tr := range tiers {
		c.tiers[tr.Tier] = tr
	}
	return c
}

// Item returns the item definition with the given name.
func (c *Catalog) Item(name string) (Item, error) {
	it, ok := c.items[name]
	if !ok {
		return Item{}, fmt.Errorf("item %q: %w", name, ErrNotFound)
	}
	return it, nil
}

// Enemy returns the enemy definition with the given name.
func (c *Catalog) Enemy(name string) (EnemyRecord, error) {
	e, ok := c.enemies[name]
	if !ok {
		return EnemyRecord{}, fmt.Errorf("enemy %q: %w", name, ErrNotFound)
	}
	return e, nil
}

// Tier returns the progression record for the given tier.
func (c *Catalog) Tier(tier int) (TierRecord, error) {
	tr, ok := c.tiers[tier]
	if !ok {
		return TierRecord{}, fmt.Errorf("tier %d: %w", tier, ErrNotFound)
	}
	return tr, nil
}

// MaxTier returns the highest tier the catalog defines.
func (c *Catalog) MaxTier() int {
	max := 0
	for tier := range c.tiers {
		if tier > max {
			max = tier
		}
	}
	return max
}

// ItemsByTier returns every item of tier <= maxTier, sorted by name so
// draws against a seeded roller are reproducible.
func (c *Catalog) ItemsByTier(maxTier int) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Tier <= maxTier {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ItemsByTierAndType returns items of the given type with tier <= maxTier.
func (c *Catalog) ItemsByTierAndType(maxTier int, itemType ItemType) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Tier <= maxTier && it.Type == itemType {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ItemsOfTier returns items of exactly the given tier.
func (c *Catalog) ItemsOfTier(tier int) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Tier == tier {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnemiesByTier returns every enemy of tier <= maxTier, sorted by name.
func (c *Catalog) EnemiesByTier(maxTier int) []EnemyRecord {
	var out []EnemyRecord
	for _, e := range c.enemies {
		if e.Tier <= maxTier {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
