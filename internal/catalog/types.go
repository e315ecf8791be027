package catalog

// ItemType represents the category of an item
type ItemType int

const (
	TypeUnknown ItemType = iota
	TypeWeapon
	TypeArmor
	TypeShield
	TypeConsumable
	TypeTool
)

// String returns the string representation of an ItemType
func (t ItemType) String() string {
	switch t {
	case TypeWeapon:
		return "weapon"
	case TypeArmor:
		return "armor"
	case TypeShield:
		return "shield"
	case TypeConsumable:
		return "consumable"
	case TypeTool:
		return "tool"
	default:
		return "unknown"
	}
}

// ParseItemType converts a string to an ItemType
func ParseItemType(s string) ItemType {
	switch s {
	case "weapon":
		return TypeWeapon
	case "armor":
		return TypeArmor
	case "shield":
		return TypeShield
	case "consumable":
		return TypeConsumable
	case "tool":
		return TypeTool
	default:
		return TypeUnknown
	}
}

// IsEquippable returns true if the item type can be equipped
func (t ItemType) IsEquippable() bool {
	return t == TypeWeapon || t == TypeArmor || t == TypeShield
}

// EffectKind identifies what a consumable does when used.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectHeal
)

// String returns the string representation of an EffectKind
func (k EffectKind) String() string {
	switch k {
	case EffectHeal:
		return "heal"
	default:
		return "none"
	}
}

// ParseEffectKind converts a string to an EffectKind
func ParseEffectKind(s string) EffectKind {
	switch s {
	case "heal":
		return EffectHeal
	default:
		return EffectNone
	}
}

// Effect is a typed consumable effect. It replaces string-encoded tags
// like "heal_20" with a kind and a magnitude.
type Effect struct {
	Kind   EffectKind
	Amount int
}
