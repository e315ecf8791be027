package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/dungeondelve/internal/logger"
	"gopkg.in/yaml.v3"
)

// ItemDefinition represents an item definition from the YAML file
type ItemDefinition struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	DamageMin  int    `yaml:"damage_min,omitempty"`
	DamageMax  int    `yaml:"damage_max,omitempty"`
	Defense    int    `yaml:"defense,omitempty"`
	Price      int    `yaml:"price"`
	Tier       int    `yaml:"tier"`
	Durability int    `yaml:"durability,omitempty"`
	Effect     string `yaml:"effect,omitempty"`
	EffectAmt  int    `yaml:"effect_amount,omitempty"`
}

// EnemyDefinition represents an enemy definition from the YAML file
type EnemyDefinition struct {
	Name        string   `yaml:"name"`
	Tier        int      `yaml:"tier"`
	Attack      int      `yaml:"attack"`
	Defense     int      `yaml:"defense"`
	Health      int      `yaml:"health"`
	XPValue     int      `yaml:"xp_value"`
	MinCopper   int      `yaml:"min_copper"`
	MaxCopper   int      `yaml:"max_copper"`
	CommonDrops []string `yaml:"common_drops,omitempty"`
	RareDrops   []string `yaml:"rare_drops,omitempty"`
	SpawnChance float64  `yaml:"spawn_chance"`
}

// TierDefinition represents a player tier definition from the YAML file
type TierDefinition struct {
	Tier           int    `yaml:"tier"`
	Title          string `yaml:"title"`
	Attack         int    `yaml:"attack"`
	Defense        int    `yaml:"defense"`
	Health         int    `yaml:"health"`
	MinXP          int    `yaml:"min_xp"`
	Weapon         string `yaml:"weapon,omitempty"`
	Armor          string `yaml:"armor,omitempty"`
	SpecialAbility string `yaml:"special_ability,omitempty"`
}

// DataFiles names the three YAML files a catalog loads from.
type DataFiles struct {
	Items   string
	Enemies string
	Tiers   string
}

type itemsFile struct {
	Items map[string]ItemDefinition `yaml:"items"`
}

type enemiesFile struct {
	Enemies map[string]EnemyDefinition `yaml:"enemies"`
}

type tiersFile struct {
	Tiers []TierDefinition `yaml:"tiers"`
}

// Load reads and validates the three data files, building a Catalog.
// Rows that fail validation are skipped with a warning; a file that
// cannot be read or parsed fails the whole load.
func Load(files DataFiles) (*Catalog, error) {
	items, err := loadItems(files.Items)
	if err != nil {
		return nil, err
	}

	enemies, err := loadEnemies(files.Enemies)
	if err != nil {
		return nil, err
	}

	tiers, err := loadTiers(files.Tiers)
	if err != nil {
		return nil, err
	}

	logger.Info("Catalog loaded",
		"items", len(items),
		"enemies", len(enemies),
		"tiers", len(tiers))

	return New(items, enemies, tiers), nil
}

func loadItems(filename string) ([]Item, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var file itemsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	var items []Item
	for id, def := range file.Items {
		item, err := itemFromDefinition(id, def)
		if err != nil {
			logger.Warning("Skipping invalid item definition", "id", id, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// itemFromDefinition validates a row at the catalog boundary so the
// engine never sees a half-formed item.
func itemFromDefinition(id string, def ItemDefinition) (Item, error) {
	name := def.Name
	if name == "" {
		name = id
	}

	itemType := ParseItemType(def.Type)
	if itemType == TypeUnknown {
		return Item{}, fmt.Errorf("unknown item type %q", def.Type)
	}

	if def.Tier < 1 {
		return Item{}, fmt.Errorf("tier %d below 1", def.Tier)
	}

	item := Item{
		Name:       name,
		Type:       itemType,
		Price:      def.Price,
		Tier:       def.Tier,
		Durability: def.Durability,
	}
	if item.Durability == 0 {
		item.Durability = 100
	}

	switch itemType {
	case TypeWeapon:
		if def.DamageMin < 0 || def.DamageMax < def.DamageMin {
			return Item{}, fmt.Errorf("bad damage range %d-%d", def.DamageMin, def.DamageMax)
		}
		item.DamageMin = def.DamageMin
		item.DamageMax = def.DamageMax
	case TypeArmor, TypeShield:
		if def.Defense < 0 {
			return Item{}, fmt.Errorf("negative defense %d", def.Defense)
		}
		item.Defense = def.Defense
	case TypeConsumable:
		kind := ParseEffectKind(def.Effect)
		if kind != EffectNone && def.EffectAmt < 0 {
			return Item{}, fmt.Errorf("negative effect amount %d", def.EffectAmt)
		}
		item.Effect = Effect{Kind: kind, Amount: def.EffectAmt}
	}

	return item, nil
}

func loadEnemies(filename string) ([]EnemyRecord, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemies file: %w", err)
	}

	var file enemiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse enemies YAML: %w", err)
	}

	var enemies []EnemyRecord
	for id, def := range file.Enemies {
		rec, err := enemyFromDefinition(id, def)
		if err != nil {
			logger.Warning("Skipping invalid enemy definition", "id", id, "error", err)
			continue
		}
		enemies = append(enemies, rec)
	}
	return enemies, nil
}

func enemyFromDefinition(id string, def EnemyDefinition) (EnemyRecord, error) {
	name := def.Name
	if name == "" {
		name = id
	}

	if def.Tier < 1 {
		return EnemyRecord{}, fmt.Errorf("tier %d below 1", def.Tier)
	}
	if def.Health < 1 {
		return EnemyRecord{}, fmt.Errorf("health %d below 1", def.Health)
	}

	rec := EnemyRecord{
		Name:        name,
		Tier:        def.Tier,
		Attack:      maxInt(0, def.Attack),
		Defense:     maxInt(0, def.Defense),
		Health:      def.Health,
		XPValue:     maxInt(1, def.XPValue),
		MinCopper:   maxInt(0, def.MinCopper),
		MaxCopper:   maxInt(maxInt(0, def.MinCopper), def.MaxCopper),
		CommonDrops: trimNames(def.CommonDrops),
		RareDrops:   trimNames(def.RareDrops),
		SpawnChance: clampFloat(def.SpawnChance, 0.01, 1.0),
	}
	return rec, nil
}

func loadTiers(filename string) ([]TierRecord, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiers file: %w", err)
	}

	var file tiersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tiers YAML: %w", err)
	}

	var tiers []TierRecord
	for _, def := range file.Tiers {
		if def.Tier < 1 {
			logger.Warning("Skipping invalid tier definition", "tier", def.Tier)
			continue
		}
		tiers = append(tiers, TierRecord{
			Tier:           def.Tier,
			Title:          def.Title,
			Attack:         maxInt(1, def.Attack),
			Defense:        maxInt(1, def.Defense),
			Health:         maxInt(1, def.Health),
			MinXP:          maxInt(0, def.MinXP),
			Weapon:         def.Weapon,
			Armor:          def.Armor,
			SpecialAbility: def.SpecialAbility,
		})
	}
	return tiers, nil
}

func trimNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
