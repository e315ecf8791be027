// Package dungeon generates and drives the per-tier maze: a spanning
// tree of rooms populated with enemies, treasure, one merchant, and an
// end room, explored under fog of war.
package dungeon

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// ErrNoEndRoom is returned by path queries when no end room is set.
var ErrNoEndRoom = errors.New("dungeon: no end room")

// Coord is a grid position.
type Coord struct {
	X int
	Y int
}

// Dungeon is one generated floor. Rooms are indexed [y][x].
type Dungeon struct {
	Tier int
	Size int

	rooms   [][]*Room
	playerX int
	playerY int

	cfg     config.DungeonConfig
	catalog *catalog.Catalog
	roller  dice.Roller
}

// Generate builds a new dungeon for the tier: carve the maze, populate
// enemies, place treasure, merchant, and end room, then reveal the
// starting area.
func Generate(cat *catalog.Catalog, cfg config.DungeonConfig, roller dice.Roller, tier, size int) (*Dungeon, error) {
	if tier < 1 {
		return nil, fmt.Errorf("dungeon: tier %d must be at least 1", tier)
	}
	if size < cfg.MinSize {
		return nil, fmt.Errorf("dungeon: size %d below minimum %d", size, cfg.MinSize)
	}
	if cfg.MaxSize > 0 && size > cfg.MaxSize {
		return nil, fmt.Errorf("dungeon: size %d above maximum %d", size, cfg.MaxSize)
	}

	d := &Dungeon{
		Tier:    tier,
		Size:    size,
		cfg:     cfg,
		catalog: cat,
		roller:  roller,
	}

	d.rooms = make([][]*Room, size)
	for y := 0; y < size; y++ {
		d.rooms[y] = make([]*Room, size)
		for x := 0; x < size; x++ {
			d.rooms[y][x] = NewRoom()
		}
	}

	d.carveMaze(0, 0, make(map[Coord]bool))
	d.populateEnemies()
	d.placeTreasure()
	d.placeMerchant()
	d.placeEndRoom()

	d.rooms[0][0].IsVisible = true
	d.updateVisibility()

	logger.Info("Dungeon generated", "tier", tier, "size", size)
	return d, nil
}

// Restore rebuilds a dungeon around already-reconstructed rooms.
func Restore(cat *catalog.Catalog, cfg config.DungeonConfig, roller dice.Roller, tier, size int, playerPos Coord, rooms [][]*Room) (*Dungeon, error) {
	if tier < 1 {
		return nil, fmt.Errorf("dungeon: tier %d must be at least 1", tier)
	}
	if size < cfg.MinSize {
		return nil, fmt.Errorf("dungeon: size %d below minimum %d", size, cfg.MinSize)
	}
	if len(rooms) != size {
		return nil, fmt.Errorf("dungeon: room grid has %d rows, want %d", len(rooms), size)
	}
	for y, row := range rooms {
		if len(row) != size {
			return nil, fmt.Errorf("dungeon: row %d has %d rooms, want %d", y, len(row), size)
		}
	}

	d := &Dungeon{
		Tier:    tier,
		Size:    size,
		rooms:   rooms,
		cfg:     cfg,
		catalog: cat,
		roller:  roller,
	}

	// Clamp a stale position back into bounds rather than failing the load.
	d.playerX = clampInt(playerPos.X, 0, size-1)
	d.playerY = clampInt(playerPos.Y, 0, size-1)

	return d, nil
}

// carveMaze runs a randomized depth-first walk from (x, y), opening
// mirrored doors along every edge taken. The result is a spanning
// tree: every room reachable, no cycles.
func (d *Dungeon) carveMaze(x, y int, visited map[Coord]bool) {
	visited[Coord{x, y}] = true

	dirs := AllDirections()
	d.roller.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })

	for _, dir := range dirs {
		dx, dy := dir.Delta()
		nx, ny := x+dx, y+dy
		if !d.InBounds(nx, ny) || visited[Coord{nx, ny}] {
			continue
		}
		d.rooms[y][x].Doors[dir] = true
		d.rooms[ny][nx].Doors[dir.Opposite()] = true
		d.carveMaze(nx, ny, visited)
	}
}

// populateEnemies rolls each non-start room against the spawn chance
// and draws a tier-weighted enemy on success. Catalog misses degrade
// to an empty room.
func (d *Dungeon) populateEnemies() {
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if x == 0 && y == 0 {
				continue // starting room stays safe
			}
			if d.roller.Float64() >= d.cfg.EnemySpawnChance {
				continue
			}
			enemy, err := creature.RandomEnemy(d.catalog, d.Tier, d.roller)
			if err != nil {
				logger.Warning("No enemy available for tier", "tier", d.Tier, "error", err)
				continue
			}
			d.rooms[y][x].Enemies = append(d.rooms[y][x].Enemies, enemy)
		}
	}
}

// placeTreasure marks between 1 and tier rooms as treasure rooms,
// drawn without replacement from enemy-free non-start rooms.
func (d *Dungeon) placeTreasure() {
	count := d.roller.IntBetween(1, d.Tier)

	candidates := d.collectRooms(func(x, y int, r *Room) bool {
		return !(x == 0 && y == 0) && !r.HasEnemy()
	})

	for i := 0; i < count && len(candidates) > 0; i++ {
		idx := d.roller.Intn(len(candidates))
		pos := candidates[idx]
		candidates = append(candidates[:idx], candidates[idx+1:]...)

		d.rooms[pos.Y][pos.X].HasTreasure = true
		logger.Debug("Treasure placed", "x", pos.X, "y", pos.Y)
	}
}

// placeMerchant marks exactly one empty, treasure-free room.
func (d *Dungeon) placeMerchant() {
	candidates := d.collectRooms(func(x, y int, r *Room) bool {
		return !(x == 0 && y == 0) && !r.HasEnemy() && !r.HasTreasure
	})
	if len(candidates) == 0 {
		logger.Warning("No room left for merchant")
		return
	}

	pos := candidates[d.roller.Intn(len(candidates))]
	d.rooms[pos.Y][pos.X].HasMerchant = true
	logger.Debug("Merchant placed", "x", pos.X, "y", pos.Y)
}

// placeEndRoom marks the room at maximum Manhattan distance from the
// start. Scan order is row-major; the first maximum wins ties.
func (d *Dungeon) placeEndRoom() {
	best := Coord{}
	bestDist := 0
	found := false

	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			dist := manhattan(Coord{x, y}, Coord{d.playerX, d.playerY})
			if dist > bestDist {
				bestDist = dist
				best = Coord{x, y}
				found = true
			}
		}
	}

	if found {
		d.rooms[best.Y][best.X].IsEndRoom = true
		logger.Debug("End room placed", "x", best.X, "y", best.Y)
	}
}

func manhattan(a, b Coord) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// collectRooms gathers coordinates passing the filter in row-major order.
func (d *Dungeon) collectRooms(keep func(x, y int, r *Room) bool) []Coord {
	var out []Coord
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if keep(x, y, d.rooms[y][x]) {
				out = append(out, Coord{x, y})
			}
		}
	}
	return out
}

// InBounds reports whether (x, y) lies inside the grid.
func (d *Dungeon) InBounds(x, y int) bool {
	return x >= 0 && x < d.Size && y >= 0 && y < d.Size
}

// RoomAt returns the room at (x, y), or nil when out of bounds.
func (d *Dungeon) RoomAt(x, y int) *Room {
	if !d.InBounds(x, y) {
		return nil
	}
	return d.rooms[y][x]
}

// PlayerPos returns the player's current grid position.
func (d *Dungeon) PlayerPos() Coord {
	return Coord{d.playerX, d.playerY}
}

// CurrentRoom returns the room the player occupies.
func (d *Dungeon) CurrentRoom() *Room {
	return d.rooms[d.playerY][d.playerX]
}

// Rooms exposes the grid for rendering and persistence.
func (d *Dungeon) Rooms() [][]*Room {
	return d.rooms
}

// Move attempts to walk through the door in the given direction.
// It succeeds only if that door is open and the destination is in
// bounds; on success the player's position and visibility update.
// On failure nothing changes.
func (d *Dungeon) Move(dir Direction) bool {
	if !d.CurrentRoom().Doors[dir] {
		return false
	}

	dx, dy := dir.Delta()
	nx, ny := d.playerX+dx, d.playerY+dy
	if !d.InBounds(nx, ny) {
		return false
	}

	d.playerX, d.playerY = nx, ny
	d.updateVisibility()
	logger.Debug("Player moved", "direction", dir.String(), "x", nx, "y", ny)
	return true
}

// MoveRandomAdjacent relocates the player through a uniformly chosen
// open door, used after a successful flee.
func (d *Dungeon) MoveRandomAdjacent() bool {
	open := d.CurrentRoom().OpenDoors()
	if len(open) == 0 {
		return false
	}
	return d.Move(open[d.roller.Intn(len(open))])
}

// updateVisibility reveals every room within the circular view range
// of the player. Visibility never retracts.
func (d *Dungeon) updateVisibility() {
	r := d.cfg.ViewRange
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			nx, ny := d.playerX+dx, d.playerY+dy
			if d.InBounds(nx, ny) {
				d.rooms[ny][nx].IsVisible = true
			}
		}
	}
}

// ExplorationPercent returns the share of visible rooms, 0-100.
func (d *Dungeon) ExplorationPercent() float64 {
	visible := 0
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if d.rooms[y][x].IsVisible {
				visible++
			}
		}
	}
	return float64(visible) / float64(d.Size*d.Size) * 100
}

// Complete reports whether the dungeon is finished: the player stands
// in the cleared end room with enough of the floor explored.
func (d *Dungeon) Complete() bool {
	room := d.CurrentRoom()
	return room.IsEndRoom &&
		room.IsCleared &&
		d.ExplorationPercent() >= d.cfg.RequiredExploration
}

// TreasureLoot rolls the contents of a treasure room: a pile of copper
// scaled by tier plus a few items of up to two tiers above the floor.
func (d *Dungeon) TreasureLoot() (copper int, items []catalog.Item) {
	base := 100 * d.Tier
	copper = base + d.roller.IntBetween(0, base)

	count := d.roller.IntBetween(2, 3+d.Tier)
	maxTier := d.Tier + 2
	if top := d.catalog.MaxTier(); maxTier > top {
		maxTier = top
	}

	pool := d.catalog.ItemsByTier(maxTier)
	if len(pool) == 0 {
		logger.Warning("No items available for treasure", "max_tier", maxTier)
		return copper, nil
	}

	for i := 0; i < count; i++ {
		items = append(items, pool[d.roller.Intn(len(pool))])
	}
	return copper, items
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
