package combat

import (
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// Reward is everything a victory granted the player.
type Reward struct {
	XP       int
	Copper   int
	Items    []catalog.Item
	Messages []string
}

// DistributeRewards grants XP, copper, and item drops for a defeated
// enemy, crediting the player immediately. Each drop category rolls
// independently; catalog misses skip the drop rather than failing the
// whole distribution.
func (r *Resolver) DistributeRewards(player *creature.Character, enemy *creature.Enemy) (Reward, error) {
	if !enemy.Defeated() {
		return Reward{}, ErrCombatOngoing
	}

	reward := Reward{XP: enemy.XPValue}

	if err := player.AddXP(enemy.XPValue); err != nil {
		return Reward{}, fmt.Errorf("reward distribution: %w", err)
	}
	reward.Messages = append(reward.Messages,
		fmt.Sprintf("%s gains %d XP", player.Name, enemy.XPValue))

	reward.Copper = r.rollCopper(enemy)
	player.Money += reward.Copper
	reward.Messages = append(reward.Messages,
		fmt.Sprintf("%s loots %d copper", player.Name, reward.Copper))

	for _, item := range r.rollDrops(enemy) {
		player.AddItem(item)
		reward.Items = append(reward.Items, item)
		reward.Messages = append(reward.Messages,
			fmt.Sprintf("%s finds %s", player.Name, item.Name))
	}

	logger.Info("Rewards distributed",
		"enemy", enemy.Name, "xp", reward.XP, "copper", reward.Copper, "items", len(reward.Items))
	return reward, nil
}

// rollCopper draws the copper reward, with a chance of a bonus
// multiplier on top of the base range.
func (r *Resolver) rollCopper(enemy *creature.Enemy) int {
	copper := r.roller.IntBetween(enemy.MinCopper, enemy.MaxCopper)
	if r.roller.Float64() < r.drops.BonusMoneyChance {
		copper = int(float64(copper) * r.roller.Uniform(r.drops.BonusMoneyMin, r.drops.BonusMoneyMax))
	}
	if copper < 0 {
		copper = 0
	}
	return copper
}

// rollDrops rolls each drop category independently: legendary, rare,
// common, then the decaying per-tier bonus loop.
func (r *Resolver) rollDrops(enemy *creature.Enemy) []catalog.Item {
	var drops []catalog.Item

	if r.roller.Float64() < r.drops.LegendaryChance {
		if item, ok := r.drawFromPool(r.catalog.ItemsOfTier(r.catalog.MaxTier())); ok {
			drops = append(drops, item)
		}
	}

	if r.roller.Float64() < r.drops.RareChance {
		if item, ok := r.drawRare(enemy); ok {
			drops = append(drops, item)
		}
	}

	if r.roller.Float64() < r.drops.CommonChance {
		if item, ok := r.drawCommon(enemy); ok {
			drops = append(drops, item)
		}
	}

	// Bonus draws start at tier x the per-tier chance and decay after
	// every success; the first failed roll ends the loop.
	chance := r.drops.ExtraDropPerTier * float64(enemy.Tier)
	for chance > 1e-9 {
		if r.roller.Float64() >= chance {
			break
		}
		item, ok := r.drawFromPool(r.catalog.ItemsByTier(enemy.Tier))
		if !ok {
			break
		}
		drops = append(drops, item)
		chance -= r.drops.ExtraDropPerTier
	}

	return drops
}

// drawRare draws from the enemy's rare pool, falling back to items up
// to one tier above the enemy (capped below the legendary tier) when
// the pool is empty or fully unresolvable.
func (r *Resolver) drawRare(enemy *creature.Enemy) (catalog.Item, bool) {
	if pool := r.resolveNames(enemy.RareDrops); len(pool) > 0 {
		return r.drawFromPool(pool)
	}

	tier := enemy.Tier + 1
	if top := r.catalog.MaxTier() - 1; tier > top {
		tier = top
	}
	return r.drawFromPool(r.catalog.ItemsByTier(tier))
}

// drawCommon draws uniformly from catalog items at or below the
// enemy's tier, unioned with the enemy's own common pool.
func (r *Resolver) drawCommon(enemy *creature.Enemy) (catalog.Item, bool) {
	pool := r.catalog.ItemsByTier(enemy.Tier)
	pool = append(pool, r.resolveNames(enemy.CommonDrops)...)
	return r.drawFromPool(pool)
}

func (r *Resolver) drawFromPool(pool []catalog.Item) (catalog.Item, bool) {
	if len(pool) == 0 {
		return catalog.Item{}, false
	}
	return pool[r.roller.Intn(len(pool))], true
}

// resolveNames looks up each drop name, skipping catalog misses.
func (r *Resolver) resolveNames(names []string) []catalog.Item {
	var out []catalog.Item
	for _, name := range names {
		item, err := r.catalog.Item(name)
		if err != nil {
			logger.Warning("Drop name missing from catalog", "item", name)
			continue
		}
		out = append(out, item)
	}
	return out
}
