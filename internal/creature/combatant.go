// Package creature holds the shared combatant model: the player
// Character and dungeon Enemy, each with its own attack and defense
// aggregation rule.
package creature

import (
	"errors"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
)

// ErrNegativeAmount rejects negative damage, heal, or XP inputs. The
// operation is a no-op and state is unchanged.
var ErrNegativeAmount = errors.New("creature: amount cannot be negative")

// Combatant is the capability the combat resolver needs from either
// side of an encounter.
type Combatant interface {
	// GetName returns the combatant's display name.
	GetName() string

	// TotalAttack returns base attack plus equipment bonuses.
	TotalAttack() int

	// TotalDefense returns base defense plus equipment bonuses.
	TotalDefense() int

	// TakeDamage subtracts damage (clamped at zero health) and reports
	// whether the combatant is still alive.
	TakeDamage(damage int) (bool, error)

	// Heal restores up to amount health, clamped at max, returning the
	// amount actually healed.
	Heal(amount int) (int, error)

	// GetCurrentHealth returns current health.
	GetCurrentHealth() int

	// GetMaxHealth returns maximum health.
	GetMaxHealth() int

	// Weapon returns the equipped weapon, if any. Enemies carry none;
	// their damage is folded into their flat attack value.
	Weapon() (catalog.Item, bool)

	// IsPlayer reports whether this combatant receives player bonuses.
	IsPlayer() bool
}
