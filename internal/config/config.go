package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GameConfig holds engine-wide tuning values.
type GameConfig struct {
	Dungeon  DungeonConfig  `yaml:"dungeon"`
	Combat   CombatConfig   `yaml:"combat"`
	Drops    DropsConfig    `yaml:"drops"`
	Merchant MerchantConfig `yaml:"merchant"`
}

// DungeonConfig holds dungeon generation settings.
type DungeonConfig struct {
	// MinSize is the smallest allowed grid side.
	MinSize int `yaml:"min_size"`

	// MaxSize is the largest allowed grid side.
	MaxSize int `yaml:"max_size"`

	// ViewRange is the circular visibility radius around the player.
	ViewRange int `yaml:"view_range"`

	// EnemySpawnChance is the per-room probability of an enemy spawn.
	EnemySpawnChance float64 `yaml:"enemy_spawn_chance"`

	// RequiredExploration is the visible-room percentage needed to
	// complete a dungeon.
	RequiredExploration float64 `yaml:"required_exploration"`
}

// CombatConfig holds combat resolution settings.
type CombatConfig struct {
	// ArmorClassBase is added to the defender's total defense to form
	// the number a hit roll must meet or exceed.
	ArmorClassBase int `yaml:"armor_class_base"`

	// PlayerHitBonus is added to the player's hit rolls.
	PlayerHitBonus int `yaml:"player_hit_bonus"`

	// PlayerDamageBonus multiplies player damage (1.2 = +20%).
	PlayerDamageBonus float64 `yaml:"player_damage_bonus"`

	// CritMultiplier multiplies damage on a natural 20.
	CritMultiplier float64 `yaml:"crit_multiplier"`

	// DefenseReduction divides the defender's defense before it is
	// subtracted from damage.
	DefenseReduction float64 `yaml:"defense_reduction"`

	// FleeDC is the difficulty class for flee attempts.
	FleeDC int `yaml:"flee_dc"`
}

// DropsConfig holds reward generation settings.
type DropsConfig struct {
	CommonChance    float64 `yaml:"common_chance"`
	RareChance      float64 `yaml:"rare_chance"`
	LegendaryChance float64 `yaml:"legendary_chance"`

	// BonusMoneyChance is the odds of the copper multiplier kicking in.
	BonusMoneyChance float64 `yaml:"bonus_money_chance"`

	// BonusMoneyMin/Max bound the copper multiplier when it applies.
	BonusMoneyMin float64 `yaml:"bonus_money_min"`
	BonusMoneyMax float64 `yaml:"bonus_money_max"`

	// ExtraDropPerTier is the starting bonus-item probability per enemy
	// tier; it decays by the same amount after each successful draw.
	ExtraDropPerTier float64 `yaml:"extra_drop_per_tier"`
}

// MerchantConfig holds merchant economy settings.
type MerchantConfig struct {
	// PriceVariation is the +/- fraction applied to stocked prices.
	PriceVariation float64 `yaml:"price_variation"`

	// SellPriceRatio is the fraction of base price paid when buying
	// from the player.
	SellPriceRatio float64 `yaml:"sell_price_ratio"`

	// ExtraItemChance is the per-tier odds of one bonus stock item.
	ExtraItemChance float64 `yaml:"extra_item_chance"`

	// RestockCounts maps item type name to stock quota.
	RestockCounts map[string]int `yaml:"restock_counts"`
}

// DefaultConfig returns a GameConfig with the standard ruleset.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Dungeon: DungeonConfig{
			MinSize:             5,
			MaxSize:             15,
			ViewRange:           4,
			EnemySpawnChance:    0.4,
			RequiredExploration: 75,
		},
		Combat: CombatConfig{
			ArmorClassBase:    10,
			PlayerHitBonus:    2,
			PlayerDamageBonus: 1.2,
			CritMultiplier:    2.0,
			DefenseReduction:  2.0,
			FleeDC:            10,
		},
		Drops: DropsConfig{
			CommonChance:     0.6,
			RareChance:       0.1,
			LegendaryChance:  0.02,
			BonusMoneyChance: 0.2,
			BonusMoneyMin:    1.5,
			BonusMoneyMax:    3.0,
			ExtraDropPerTier: 0.1,
		},
		Merchant: MerchantConfig{
			PriceVariation:  0.2,
			SellPriceRatio:  0.5,
			ExtraItemChance: 0.2,
			RestockCounts: map[string]int{
				"weapon":     3,
				"armor":      3,
				"shield":     2,
				"consumable": 5,
				"tool":       3,
			},
		},
	}
}

// LoadConfig loads game configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GameConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse game config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate rejects settings the engine cannot run with.
func (c *GameConfig) Validate() error {
	if c.Dungeon.MinSize < 5 {
		return fmt.Errorf("dungeon min_size %d is below the 5x5 floor", c.Dungeon.MinSize)
	}
	if c.Dungeon.MaxSize < c.Dungeon.MinSize {
		return fmt.Errorf("dungeon max_size %d is below min_size %d", c.Dungeon.MaxSize, c.Dungeon.MinSize)
	}
	if c.Dungeon.EnemySpawnChance < 0 || c.Dungeon.EnemySpawnChance > 1 {
		return fmt.Errorf("enemy_spawn_chance %f is not a probability", c.Dungeon.EnemySpawnChance)
	}
	if c.Dungeon.ViewRange < 1 {
		return fmt.Errorf("view_range %d leaves the player blind", c.Dungeon.ViewRange)
	}
	if c.Combat.CritMultiplier < 1 {
		return fmt.Errorf("crit_multiplier %f would reduce damage", c.Combat.CritMultiplier)
	}
	if c.Merchant.SellPriceRatio <= 0 || c.Merchant.SellPriceRatio > 1 {
		return fmt.Errorf("sell_price_ratio %f is outside (0,1]", c.Merchant.SellPriceRatio)
	}
	return nil
}
