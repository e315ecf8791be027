// Package combat resolves encounter turns: d20 hit rolls, damage,
// item use, flee attempts, and reward distribution on victory. The
// resolver keeps no state between calls beyond the combatants the
// caller passes in.
package combat

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

var (
	// ErrInvalidAction rejects an unrecognized action type. The turn is
	// a no-op and neither combatant changes.
	ErrInvalidAction = errors.New("combat: unrecognized action")

	// ErrCombatOver rejects a turn against an already-decided encounter.
	ErrCombatOver = errors.New("combat: encounter already resolved")

	// ErrCombatOngoing rejects reward distribution while the enemy
	// still stands.
	ErrCombatOngoing = errors.New("combat: enemy still standing")
)

// ActionType identifies what a combatant does with its turn.
type ActionType int

const (
	ActionAttack ActionType = iota
	ActionUseItem
	ActionFlee
)

// String returns the action's wire name.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionUseItem:
		return "use_item"
	case ActionFlee:
		return "flee"
	}
	return "unknown"
}

// ParseActionType converts a string to an ActionType.
func ParseActionType(s string) (ActionType, bool) {
	switch s {
	case "attack", "a":
		return ActionAttack, true
	case "use_item", "use", "u":
		return ActionUseItem, true
	case "flee", "run", "f":
		return ActionFlee, true
	}
	return ActionAttack, false
}

// Action is one combatant's choice for a turn. Item names the
// inventory entry for ActionUseItem and is ignored otherwise.
type Action struct {
	Type ActionType
	Item string
}

// Rolls exposes the intermediate numbers behind a turn so callers can
// audit or display exactly what happened.
type Rolls struct {
	HitRoll      int
	AttackBonus  int
	DefenseClass int
	FleeRoll     int
	DamageBase   int
	Crit         bool
}

// TurnResult reports the outcome of one processed action.
type TurnResult struct {
	Success     bool
	DamageDealt int
	Healed      int
	ItemUsed    string
	Fled        bool
	Messages    []string
	Rolls       Rolls
}

// Outcome is the termination state of an encounter.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
)

// String returns the outcome's display name.
func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeFled:
		return "fled"
	}
	return "unknown"
}

// potionUser is the extra capability item-use turns need; only the
// player implements it.
type potionUser interface {
	UsePotion(name string) (int, error)
}

// Resolver processes encounter turns against injected rules and
// randomness.
type Resolver struct {
	cfg     config.CombatConfig
	drops   config.DropsConfig
	catalog *catalog.Catalog
	roller  dice.Roller
}

// NewResolver builds a combat resolver.
func NewResolver(cat *catalog.Catalog, cfg config.CombatConfig, drops config.DropsConfig, roller dice.Roller) *Resolver {
	return &Resolver{
		cfg:     cfg,
		drops:   drops,
		catalog: cat,
		roller:  roller,
	}
}

// ProcessTurn resolves one action by the attacker against the
// defender. Acting on a decided encounter returns ErrCombatOver and
// changes nothing.
func (r *Resolver) ProcessTurn(attacker, defender creature.Combatant, action Action) (TurnResult, error) {
	if attacker.GetCurrentHealth() <= 0 || defender.GetCurrentHealth() <= 0 {
		return TurnResult{}, ErrCombatOver
	}

	switch action.Type {
	case ActionAttack:
		return r.resolveAttack(attacker, defender), nil
	case ActionUseItem:
		return r.resolveItemUse(attacker, action.Item), nil
	case ActionFlee:
		return r.resolveFlee(attacker), nil
	}
	return TurnResult{}, fmt.Errorf("%w: %s", ErrInvalidAction, action.Type)
}

// resolveAttack rolls to hit and applies damage. A natural 20 always
// hits and crits; a natural 1 always misses.
func (r *Resolver) resolveAttack(attacker, defender creature.Combatant) TurnResult {
	result := TurnResult{}

	roll := r.roller.D20()
	bonus := attacker.TotalAttack()
	if attacker.IsPlayer() {
		bonus += r.cfg.PlayerHitBonus
	}
	target := r.cfg.ArmorClassBase + defender.TotalDefense()

	result.Rolls.HitRoll = roll
	result.Rolls.AttackBonus = bonus
	result.Rolls.DefenseClass = target
	result.Rolls.Crit = roll == 20

	result.Messages = append(result.Messages, fmt.Sprintf(
		"%s rolls %d + %d against AC %d", attacker.GetName(), roll, bonus, target))

	hit := roll == 20 || (roll != 1 && roll+bonus >= target)
	if !hit {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s misses %s", attacker.GetName(), defender.GetName()))
		return result
	}

	damage, base := r.rollDamage(attacker, defender, result.Rolls.Crit)
	result.Rolls.DamageBase = base

	alive, err := defender.TakeDamage(damage)
	if err != nil {
		logger.Error("Damage application failed", "error", err)
		return result
	}

	result.Success = true
	result.DamageDealt = damage
	if result.Rolls.Crit {
		result.Messages = append(result.Messages, "Critical hit!")
	}
	result.Messages = append(result.Messages, fmt.Sprintf(
		"%s hits %s for %d damage", attacker.GetName(), defender.GetName(), damage))
	if !alive {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s is defeated", defender.GetName()))
	}
	return result
}

// rollDamage computes the damage of a landed hit and the pre-reduction
// base used for it. The result is never below 1.
func (r *Resolver) rollDamage(attacker, defender creature.Combatant, crit bool) (damage, base int) {
	baseF := float64(attacker.TotalAttack())
	if weapon, ok := attacker.Weapon(); ok {
		// Continuous draw: the fractional part survives into the
		// defense reduction before the final truncation.
		baseF += r.roller.Uniform(float64(weapon.DamageMin), float64(weapon.DamageMax))
	}
	base = int(baseF)

	dmg := baseF - float64(defender.TotalDefense())/r.cfg.DefenseReduction
	if dmg < 1 {
		dmg = 1
	}
	if crit {
		dmg *= r.cfg.CritMultiplier
	}
	if attacker.IsPlayer() {
		dmg *= r.cfg.PlayerDamageBonus
	}

	damage = int(dmg)
	if damage < 1 {
		damage = 1
	}
	return damage, base
}

// resolveItemUse consumes the named item on the actor's own turn.
// Missing or unusable items waste nothing: the result reports failure
// and state is unchanged.
func (r *Resolver) resolveItemUse(attacker creature.Combatant, name string) TurnResult {
	result := TurnResult{ItemUsed: name}

	user, ok := attacker.(potionUser)
	if !ok {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s cannot use items", attacker.GetName()))
		return result
	}

	healed, err := user.UsePotion(name)
	if err != nil {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s cannot use %s: %v", attacker.GetName(), name, err))
		return result
	}

	result.Success = true
	result.Healed = healed
	result.Messages = append(result.Messages, fmt.Sprintf(
		"%s uses %s and recovers %d health", attacker.GetName(), name, healed))
	return result
}

// resolveFlee rolls against the flee difficulty. Failure only wastes
// the turn.
func (r *Resolver) resolveFlee(attacker creature.Combatant) TurnResult {
	result := TurnResult{}

	roll := r.roller.D20()
	bonus := 0
	if attacker.IsPlayer() {
		bonus = r.cfg.PlayerHitBonus
	}
	result.Rolls.FleeRoll = roll

	result.Messages = append(result.Messages, fmt.Sprintf(
		"%s rolls %d + %d to flee against DC %d", attacker.GetName(), roll, bonus, r.cfg.FleeDC))

	if roll+bonus >= r.cfg.FleeDC {
		result.Success = true
		result.Fled = true
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s escapes the fight", attacker.GetName()))
	} else {
		result.Messages = append(result.Messages,
			fmt.Sprintf("%s fails to get away", attacker.GetName()))
	}
	return result
}

// Status reports the termination state of an encounter between the
// player and an enemy. The player at zero health is a defeat even in
// the ambiguous both-at-zero case.
func Status(player, enemy creature.Combatant) Outcome {
	if player.GetCurrentHealth() <= 0 {
		return OutcomeDefeat
	}
	if enemy.GetCurrentHealth() <= 0 {
		return OutcomeVictory
	}
	return OutcomeOngoing
}
