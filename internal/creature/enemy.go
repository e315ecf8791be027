package creature

import (
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// Enemy is a dungeon combatant created per room at generation time and
// discarded once defeated or abandoned.
type Enemy struct {
	Name string
	Tier int

	CurrentHealth int
	Attack        int
	Defense       int
	Health        int // maximum

	XPValue   int
	MinCopper int
	MaxCopper int

	CommonDrops []string
	RareDrops   []string
	SpawnChance float64
}

// NewEnemy instantiates an enemy from its catalog record at full health.
func NewEnemy(cat *catalog.Catalog, name string) (*Enemy, error) {
	rec, err := cat.Enemy(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create enemy: %w", err)
	}
	return fromRecord(rec), nil
}

// RestoreEnemy rebuilds an enemy from persisted state, keeping its
// saved current health.
func RestoreEnemy(cat *catalog.Catalog, name string, currentHealth int) (*Enemy, error) {
	e, err := NewEnemy(cat, name)
	if err != nil {
		return nil, err
	}
	if currentHealth < 0 {
		currentHealth = 0
	}
	if currentHealth > e.Health {
		currentHealth = e.Health
	}
	e.CurrentHealth = currentHealth
	return e, nil
}

func fromRecord(rec catalog.EnemyRecord) *Enemy {
	return &Enemy{
		Name:          rec.Name,
		Tier:          rec.Tier,
		CurrentHealth: rec.Health,
		Attack:        rec.Attack,
		Defense:       rec.Defense,
		Health:        rec.Health,
		XPValue:       rec.XPValue,
		MinCopper:     rec.MinCopper,
		MaxCopper:     rec.MaxCopper,
		CommonDrops:   append([]string(nil), rec.CommonDrops...),
		RareDrops:     append([]string(nil), rec.RareDrops...),
		SpawnChance:   rec.SpawnChance,
	}
}

// RandomEnemy draws an enemy for the tier, weighted by each record's
// spawn chance over the cumulative sum. If the weighted draw falls
// through on floating-point short-fall it falls back to a uniform pick.
func RandomEnemy(cat *catalog.Catalog, tier int, roller dice.Roller) (*Enemy, error) {
	candidates := cat.EnemiesByTier(tier)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no enemies for tier %d: %w", tier, catalog.ErrNotFound)
	}

	total := 0.0
	for _, rec := range candidates {
		total += rec.SpawnChance
	}

	roll := roller.Float64() * total
	cumulative := 0.0
	for _, rec := range candidates {
		cumulative += rec.SpawnChance
		if roll <= cumulative {
			return fromRecord(rec), nil
		}
	}

	// Weighted draw missed every bucket; pick uniformly instead.
	rec := candidates[roller.Intn(len(candidates))]
	logger.Debug("Weighted enemy draw fell through, picked uniformly", "enemy", rec.Name)
	return fromRecord(rec), nil
}

// GetName returns the enemy's name.
func (e *Enemy) GetName() string { return e.Name }

// IsPlayer always reports false for enemies.
func (e *Enemy) IsPlayer() bool { return false }

// GetCurrentHealth returns current health.
func (e *Enemy) GetCurrentHealth() int { return e.CurrentHealth }

// GetMaxHealth returns maximum health.
func (e *Enemy) GetMaxHealth() int { return e.Health }

// Weapon always reports no equipment; enemy damage is its flat attack.
func (e *Enemy) Weapon() (catalog.Item, bool) {
	return catalog.Item{}, false
}

// TotalAttack is the enemy's flat attack value, never negative.
func (e *Enemy) TotalAttack() int {
	if e.Attack < 0 {
		return 0
	}
	return e.Attack
}

// TotalDefense is the enemy's flat defense value, never negative.
func (e *Enemy) TotalDefense() int {
	if e.Defense < 0 {
		return 0
	}
	return e.Defense
}

// TakeDamage applies damage, clamping health at zero, and reports
// whether the enemy is still alive.
func (e *Enemy) TakeDamage(damage int) (bool, error) {
	if damage < 0 {
		return e.CurrentHealth > 0, ErrNegativeAmount
	}

	e.CurrentHealth -= damage
	if e.CurrentHealth < 0 {
		e.CurrentHealth = 0
	}

	logger.Debug("Enemy took damage",
		"name", e.Name, "damage", damage,
		"health", e.CurrentHealth, "max_health", e.Health)
	return e.CurrentHealth > 0, nil
}

// Heal restores health up to the maximum and returns the amount healed.
func (e *Enemy) Heal(amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}

	old := e.CurrentHealth
	e.CurrentHealth += amount
	if e.CurrentHealth > e.Health {
		e.CurrentHealth = e.Health
	}
	return e.CurrentHealth - old, nil
}

// Defeated reports whether the enemy is at zero health.
func (e *Enemy) Defeated() bool {
	return e.CurrentHealth <= 0
}
