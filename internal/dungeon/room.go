package dungeon

import (
	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
)

// Room is a single cell of the dungeon grid. The first enemy in
// Enemies is the active one; doors mirror their neighbors' doors.
type Room struct {
	Enemies []*creature.Enemy
	Items   []catalog.Item

	IsCleared       bool
	IsVisible       bool
	HasTreasure     bool
	TreasureLooted  bool
	HasMerchant     bool
	MerchantVisited bool
	IsEndRoom       bool

	Doors map[Direction]bool
}

// NewRoom creates an empty room with all doors closed.
func NewRoom() *Room {
	return &Room{
		Doors: map[Direction]bool{
			North: false,
			South: false,
			East:  false,
			West:  false,
		},
	}
}

// HasEnemy reports whether any enemy remains in the room.
func (r *Room) HasEnemy() bool {
	return len(r.Enemies) > 0
}

// ActiveEnemy returns the first enemy in the room, if any.
func (r *Room) ActiveEnemy() (*creature.Enemy, bool) {
	if len(r.Enemies) == 0 {
		return nil, false
	}
	return r.Enemies[0], true
}

// RemoveActiveEnemy drops the first enemy, typically after defeat.
func (r *Room) RemoveActiveEnemy() {
	if len(r.Enemies) > 0 {
		r.Enemies = r.Enemies[1:]
	}
}

// AddItem places loose loot in the room.
func (r *Room) AddItem(item catalog.Item) {
	r.Items = append(r.Items, item)
}

// TakeItems removes and returns all loose loot.
func (r *Room) TakeItems() []catalog.Item {
	items := r.Items
	r.Items = nil
	return items
}

// OpenDoors returns the directions with open doors in fixed N/S/E/W
// order, so random picks over them are reproducible under a seeded
// roller.
func (r *Room) OpenDoors() []Direction {
	var open []Direction
	for _, d := range AllDirections() {
		if r.Doors[d] {
			open = append(open, d)
		}
	}
	return open
}
