package creature

import (
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// Starting kit for freshly created characters.
const (
	startingMoney       = 100
	startingPotionName  = "Lesser Health Potion"
	startingPotionCount = 5
)

// Character is the player-controlled combatant. It persists across
// dungeons; tier and XP carry forward.
type Character struct {
	Name string
	Age  int

	Tier  int
	XP    int
	Money int

	CurrentHealth int

	// Inventory is insertion-stable: new items append, removal shifts.
	Inventory []catalog.Item

	EquippedWeapon *catalog.Item
	EquippedArmor  *catalog.Item
	EquippedShield *catalog.Item

	// Stats loaded from the tier record.
	Title          string
	SpecialAbility string
	BaseAttack     int
	BaseDefense    int
	MaxHealth      int

	catalog *catalog.Catalog
}

// NewCharacter creates a fresh tier-1 character with starting gear:
// a handful of health potions, pocket money, and the tier's listed
// weapon and armor.
func NewCharacter(name string, age int, cat *catalog.Catalog) (*Character, error) {
	c := &Character{
		Name:    name,
		Age:     age,
		Tier:    1,
		catalog: cat,
	}

	if err := c.loadTierStats(); err != nil {
		return nil, fmt.Errorf("failed to create character %q: %w", name, err)
	}
	c.CurrentHealth = c.MaxHealth

	c.equipStartingGear()

	logger.Info("Character created", "name", name, "tier", c.Tier, "title", c.Title)
	return c, nil
}

// RestoreCharacter rebuilds a character from persisted state. Tier
// stats are reloaded from the catalog; equipment and inventory come in
// as-is.
func RestoreCharacter(cat *catalog.Catalog, name string, age, tier, xp, currentHealth, money int,
	inventory []catalog.Item, weapon, armor, shield *catalog.Item) (*Character, error) {

	c := &Character{
		Name:           name,
		Age:            age,
		Tier:           tier,
		XP:             xp,
		Money:          money,
		Inventory:      append([]catalog.Item(nil), inventory...),
		EquippedWeapon: weapon,
		EquippedArmor:  armor,
		EquippedShield: shield,
		catalog:        cat,
	}

	if err := c.loadTierStats(); err != nil {
		return nil, fmt.Errorf("failed to restore character %q: %w", name, err)
	}

	if currentHealth < 0 {
		currentHealth = 0
	}
	if currentHealth > c.MaxHealth {
		currentHealth = c.MaxHealth
	}
	c.CurrentHealth = currentHealth

	return c, nil
}

// loadTierStats pulls base stats from the character's tier record.
func (c *Character) loadTierStats() error {
	rec, err := c.catalog.Tier(c.Tier)
	if err != nil {
		return err
	}

	c.Title = rec.Title
	c.SpecialAbility = rec.SpecialAbility
	c.BaseAttack = rec.Attack
	c.BaseDefense = rec.Defense
	c.MaxHealth = rec.Health
	return nil
}

// equipStartingGear hands out the new-character kit. A missing catalog
// entry degrades to skipping that piece.
func (c *Character) equipStartingGear() {
	c.Money = startingMoney

	if potion, err := c.catalog.Item(startingPotionName); err == nil {
		for i := 0; i < startingPotionCount; i++ {
			c.Inventory = append(c.Inventory, potion)
		}
	} else {
		logger.Warning("Starting potion missing from catalog", "item", startingPotionName)
	}

	rec, err := c.catalog.Tier(c.Tier)
	if err != nil {
		return
	}

	if rec.Weapon != "" {
		if weapon, err := c.catalog.Item(rec.Weapon); err == nil {
			c.EquippedWeapon = &weapon
		} else {
			logger.Warning("Starting weapon missing from catalog", "item", rec.Weapon)
		}
	}
	if rec.Armor != "" {
		if armor, err := c.catalog.Item(rec.Armor); err == nil {
			c.EquippedArmor = &armor
		} else {
			logger.Warning("Starting armor missing from catalog", "item", rec.Armor)
		}
	}
}

// GetName returns the character's name.
func (c *Character) GetName() string { return c.Name }

// IsPlayer always reports true for characters.
func (c *Character) IsPlayer() bool { return true }

// GetCurrentHealth returns current health.
func (c *Character) GetCurrentHealth() int { return c.CurrentHealth }

// GetMaxHealth returns maximum health for the current tier.
func (c *Character) GetMaxHealth() int { return c.MaxHealth }

// Weapon returns the equipped weapon, if any.
func (c *Character) Weapon() (catalog.Item, bool) {
	if c.EquippedWeapon == nil {
		return catalog.Item{}, false
	}
	return *c.EquippedWeapon, true
}

// TotalAttack is base attack plus the average of the equipped weapon's
// damage range, truncated, never negative.
func (c *Character) TotalAttack() int {
	total := float64(c.BaseAttack)
	if c.EquippedWeapon != nil {
		total += (float64(c.EquippedWeapon.DamageMin) + float64(c.EquippedWeapon.DamageMax)) / 2
	}
	if total < 0 {
		return 0
	}
	return int(total)
}

// TotalDefense is base defense plus equipped armor and shield values,
// truncated, never negative.
func (c *Character) TotalDefense() int {
	total := c.BaseDefense
	if c.EquippedArmor != nil {
		total += c.EquippedArmor.Defense
	}
	if c.EquippedShield != nil {
		total += c.EquippedShield.Defense
	}
	if total < 0 {
		return 0
	}
	return total
}

// TakeDamage applies damage, clamping health at zero, and reports
// whether the character is still alive.
func (c *Character) TakeDamage(damage int) (bool, error) {
	if damage < 0 {
		return c.CurrentHealth > 0, ErrNegativeAmount
	}

	c.CurrentHealth -= damage
	if c.CurrentHealth < 0 {
		c.CurrentHealth = 0
	}

	logger.Debug("Character took damage",
		"name", c.Name, "damage", damage,
		"health", c.CurrentHealth, "max_health", c.MaxHealth)
	return c.CurrentHealth > 0, nil
}

// Heal restores health up to the tier maximum and returns the amount
// actually healed, which may be less than requested near the cap.
func (c *Character) Heal(amount int) (int, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}

	old := c.CurrentHealth
	c.CurrentHealth += amount
	if c.CurrentHealth > c.MaxHealth {
		c.CurrentHealth = c.MaxHealth
	}

	healed := c.CurrentHealth - old
	logger.Debug("Character healed",
		"name", c.Name, "healed", healed,
		"health", c.CurrentHealth, "max_health", c.MaxHealth)
	return healed, nil
}

// AddXP grants experience and advances at most one tier per call, even
// when the grant crosses several thresholds. On advancement the new
// tier's base stats load and current health keeps the same fraction of
// the new maximum, rounded down.
func (c *Character) AddXP(amount int) error {
	if amount < 0 {
		return ErrNegativeAmount
	}

	c.XP += amount
	logger.Info("XP gained", "name", c.Name, "amount", amount, "total", c.XP)

	next, err := c.catalog.Tier(c.Tier + 1)
	if err != nil {
		// Already at the top tier
		return nil
	}
	if c.XP < next.MinXP {
		return nil
	}

	oldMax := c.MaxHealth
	oldTier := c.Tier

	c.Tier++
	if err := c.loadTierStats(); err != nil {
		c.Tier = oldTier
		return fmt.Errorf("level up aborted: %w", err)
	}

	fraction := float64(c.CurrentHealth) / float64(oldMax)
	c.CurrentHealth = int(float64(c.MaxHealth) * fraction)

	logger.Info("Character leveled up",
		"name", c.Name, "from_tier", oldTier, "to_tier", c.Tier, "title", c.Title)
	return nil
}

// AddItem appends an item to the inventory.
func (c *Character) AddItem(item catalog.Item) {
	c.Inventory = append(c.Inventory, item)
	logger.Debug("Item acquired", "name", c.Name, "item", item.Name)
}

// RemoveItem removes the first inventory entry with the given name.
func (c *Character) RemoveItem(name string) bool {
	for i, item := range c.Inventory {
		if item.Name == name {
			c.Inventory = append(c.Inventory[:i], c.Inventory[i+1:]...)
			return true
		}
	}
	logger.Warning("Item not in inventory", "name", c.Name, "item", name)
	return false
}

// HasItem reports whether the inventory holds an item with the name.
func (c *Character) HasItem(name string) bool {
	for _, item := range c.Inventory {
		if item.Name == name {
			return true
		}
	}
	return false
}

// Equip moves an equippable item from the inventory into its slot,
// returning any previously equipped item to the inventory.
func (c *Character) Equip(name string) error {
	var item catalog.Item
	found := false
	for _, inv := range c.Inventory {
		if inv.Name == name {
			item = inv
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("equip %q: %w", name, catalog.ErrNotFound)
	}

	if !item.Type.IsEquippable() {
		return fmt.Errorf("creature: cannot equip %s item %q", item.Type, item.Name)
	}

	equipped := item
	switch item.Type {
	case catalog.TypeWeapon:
		if c.EquippedWeapon != nil {
			c.Inventory = append(c.Inventory, *c.EquippedWeapon)
		}
		c.EquippedWeapon = &equipped
	case catalog.TypeArmor:
		if c.EquippedArmor != nil {
			c.Inventory = append(c.Inventory, *c.EquippedArmor)
		}
		c.EquippedArmor = &equipped
	case catalog.TypeShield:
		if c.EquippedShield != nil {
			c.Inventory = append(c.Inventory, *c.EquippedShield)
		}
		c.EquippedShield = &equipped
	}

	c.RemoveItem(name)
	logger.Info("Item equipped", "name", c.Name, "item", item.Name, "slot", item.Type.String())
	return nil
}

// UsePotion consumes a healing consumable from the inventory, applying
// its effect. Non-consumables and unknown effects are rejected without
// touching state.
func (c *Character) UsePotion(name string) (int, error) {
	var item catalog.Item
	found := false
	for _, inv := range c.Inventory {
		if inv.Name == name {
			item = inv
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("use %q: %w", name, catalog.ErrNotFound)
	}

	if item.Type != catalog.TypeConsumable {
		return 0, fmt.Errorf("creature: %q is not a consumable", item.Name)
	}
	if item.Effect.Kind != catalog.EffectHeal {
		return 0, fmt.Errorf("creature: %q has no usable effect", item.Name)
	}

	healed, err := c.Heal(item.Effect.Amount)
	if err != nil {
		return 0, err
	}
	c.RemoveItem(name)

	logger.Info("Potion used", "name", c.Name, "item", item.Name, "healed", healed)
	return healed, nil
}

// CanAfford reports whether the character has at least price copper.
func (c *Character) CanAfford(price int) bool {
	if price < 0 {
		return false
	}
	return c.Money >= price
}
