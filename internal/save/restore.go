package save

import (
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/dungeon"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// RestoreCharacter rebuilds a live character from a validated
// snapshot. Item names that miss the catalog are dropped with a
// warning rather than failing the load.
func (s CharacterSnapshot) RestoreCharacter(cat *catalog.Catalog) (*creature.Character, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var inventory []catalog.Item
	for _, name := range s.Inventory {
		item, err := cat.Item(name)
		if err != nil {
			logger.Warning("Saved inventory item missing from catalog", "item", name)
			continue
		}
		inventory = append(inventory, item)
	}

	c, err := creature.RestoreCharacter(cat, *s.Name, *s.Age, *s.Tier, *s.XP,
		*s.CurrentHealth, *s.Money, inventory,
		resolveEquipment(cat, s.EquippedWeapon),
		resolveEquipment(cat, s.EquippedArmor),
		resolveEquipment(cat, s.EquippedShield))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return c, nil
}

func resolveEquipment(cat *catalog.Catalog, name string) *catalog.Item {
	if name == "" {
		return nil
	}
	item, err := cat.Item(name)
	if err != nil {
		logger.Warning("Saved equipment missing from catalog", "item", name)
		return nil
	}
	return &item
}

// RestoreDungeon rebuilds a live dungeon from a validated snapshot.
func (s DungeonSnapshot) RestoreDungeon(cat *catalog.Catalog, cfg config.DungeonConfig, roller dice.Roller) (*dungeon.Dungeon, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	rooms := make([][]*dungeon.Room, len(s.Rooms))
	for y, row := range s.Rooms {
		rooms[y] = make([]*dungeon.Room, len(row))
		for x, snap := range row {
			rooms[y][x] = restoreRoom(cat, snap)
		}
	}

	pos := dungeon.Coord{X: s.PlayerPos[0], Y: s.PlayerPos[1]}
	d, err := dungeon.Restore(cat, cfg, roller, *s.Tier, *s.Size, pos, rooms)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return d, nil
}

func restoreRoom(cat *catalog.Catalog, s RoomSnapshot) *dungeon.Room {
	room := dungeon.NewRoom()
	room.IsCleared = s.Cleared
	room.IsVisible = s.Visible
	room.HasTreasure = s.HasTreasure
	room.TreasureLooted = s.TreasureLooted
	room.HasMerchant = s.HasMerchant
	room.MerchantVisited = s.MerchantVisited
	room.IsEndRoom = s.EndRoom

	for name, open := range s.Doors {
		// validate already proved the name parses
		dir, _ := dungeon.ParseDirection(name)
		room.Doors[dir] = open
	}

	for _, snap := range s.Enemies {
		enemy, err := creature.RestoreEnemy(cat, *snap.Name, *snap.CurrentHealth)
		if err != nil {
			logger.Warning("Saved enemy missing from catalog", "enemy", *snap.Name)
			continue
		}
		room.Enemies = append(room.Enemies, enemy)
	}

	for _, name := range s.Items {
		item, err := cat.Item(name)
		if err != nil {
			logger.Warning("Saved room item missing from catalog", "item", name)
			continue
		}
		room.AddItem(item)
	}
	return room
}
