package dungeon

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
)

func testCatalog() *catalog.Catalog {
	items := []catalog.Item{
		{Name: "Rusty Sword", Type: catalog.TypeWeapon, DamageMin: 1, DamageMax: 4, Price: 20, Tier: 1},
		{Name: "Iron Sword", Type: catalog.TypeWeapon, DamageMin: 3, DamageMax: 8, Price: 120, Tier: 2},
		{Name: "Leather Armor", Type: catalog.TypeArmor, Defense: 2, Price: 50, Tier: 1},
		{Name: "Lesser Health Potion", Type: catalog.TypeConsumable, Price: 15, Tier: 1,
			Effect: catalog.Effect{Kind: catalog.EffectHeal, Amount: 20}},
		{Name: "Torch", Type: catalog.TypeTool, Price: 5, Tier: 1},
	}
	enemies := []catalog.EnemyRecord{
		{Name: "Giant Rat", Tier: 1, Attack: 2, Defense: 1, Health: 8, XPValue: 10,
			MinCopper: 1, MaxCopper: 5, SpawnChance: 0.5},
		{Name: "Goblin", Tier: 1, Attack: 3, Defense: 2, Health: 12, XPValue: 15,
			MinCopper: 5, MaxCopper: 12, SpawnChance: 0.3},
	}
	tiers := []catalog.TierRecord{
		{Tier: 1, Title: "Novice", Attack: 5, Defense: 3, Health: 50, MinXP: 0},
		{Tier: 2, Title: "Adventurer", Attack: 8, Defense: 5, Health: 80, MinXP: 100},
		{Tier: 3, Title: "Veteran", Attack: 12, Defense: 8, Health: 120, MinXP: 300},
	}
	return catalog.New(items, enemies, tiers)
}

// scriptedRoller feeds predetermined values to code under test.
type scriptedRoller struct {
	floats []float64
	ints   []int
	d20s   []int
}

func (s *scriptedRoller) D20() int {
	v := s.d20s[0]
	s.d20s = s.d20s[1:]
	return v
}

func (s *scriptedRoller) IntBetween(min, max int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRoller) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v
}

func (s *scriptedRoller) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRoller) Uniform(min, max float64) float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRoller) Shuffle(n int, swap func(i, j int)) {}

func generateTest(t *testing.T, tier, size int, seed int64) *Dungeon {
	t.Helper()
	d, err := Generate(testCatalog(), config.DefaultConfig().Dungeon, dice.NewRoller(seed), tier, size)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return d
}

func emptyGrid(size int) [][]*Room {
	rooms := make([][]*Room, size)
	for y := range rooms {
		rooms[y] = make([]*Room, size)
		for x := range rooms[y] {
			rooms[y][x] = NewRoom()
		}
	}
	return rooms
}

func TestGenerateValidatesArguments(t *testing.T) {
	cat := testCatalog()
	cfg := config.DefaultConfig().Dungeon
	r := dice.NewRoller(1)

	if _, err := Generate(cat, cfg, r, 0, 5); err == nil {
		t.Error("expected error for tier 0")
	}
	if _, err := Generate(cat, cfg, r, 1, cfg.MinSize-1); err == nil {
		t.Error("expected error for undersized grid")
	}
	if _, err := Generate(cat, cfg, r, 1, cfg.MaxSize+1); err == nil {
		t.Error("expected error for oversized grid")
	}
}

func TestGenerateConnectivity(t *testing.T) {
	for _, seed := range []int64{1, 42, 9001} {
		d := generateTest(t, 2, 7, seed)

		seen := map[Coord]bool{{0, 0}: true}
		queue := []Coord{{0, 0}}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, dir := range d.RoomAt(cur.X, cur.Y).OpenDoors() {
				dx, dy := dir.Delta()
				next := Coord{cur.X + dx, cur.Y + dy}
				if !d.InBounds(next.X, next.Y) {
					t.Fatalf("seed %d: door at %v leads out of bounds", seed, cur)
				}
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}

		if len(seen) != d.Size*d.Size {
			t.Errorf("seed %d: reached %d of %d rooms", seed, len(seen), d.Size*d.Size)
		}
	}
}

func TestGenerateDoorsMirrorNeighbors(t *testing.T) {
	d := generateTest(t, 1, 6, 7)

	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			for _, dir := range AllDirections() {
				if !d.RoomAt(x, y).Doors[dir] {
					continue
				}
				dx, dy := dir.Delta()
				neighbor := d.RoomAt(x+dx, y+dy)
				if neighbor == nil {
					t.Fatalf("open door at (%d,%d) %s leads off the grid", x, y, dir)
				}
				if !neighbor.Doors[dir.Opposite()] {
					t.Errorf("door at (%d,%d) %s has no mirrored door", x, y, dir)
				}
			}
		}
	}
}

func TestGenerateStartRoom(t *testing.T) {
	d := generateTest(t, 3, 8, 11)
	start := d.RoomAt(0, 0)

	if !start.IsVisible {
		t.Error("starting room is not visible")
	}
	if start.HasEnemy() {
		t.Error("starting room spawned an enemy")
	}
	if len(start.OpenDoors()) == 0 {
		t.Error("starting room has no open doors")
	}
	if pos := d.PlayerPos(); pos != (Coord{0, 0}) {
		t.Errorf("player starts at %v, want (0,0)", pos)
	}
}

func TestGenerateEndRoomAtMaxDistance(t *testing.T) {
	d := generateTest(t, 1, 6, 3)

	var end Coord
	count := 0
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if d.RoomAt(x, y).IsEndRoom {
				end = Coord{x, y}
				count++
			}
		}
	}

	if count != 1 {
		t.Fatalf("found %d end rooms, want 1", count)
	}
	if got, want := manhattan(end, Coord{0, 0}), 2*(d.Size-1); got != want {
		t.Errorf("end room at distance %d, want %d", got, want)
	}
}

func TestGeneratePlacesOneMerchant(t *testing.T) {
	merchants := 0
	d := generateTest(t, 2, 7, 21)
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			room := d.RoomAt(x, y)
			if room.HasMerchant {
				merchants++
				if room.HasEnemy() || room.HasTreasure {
					t.Error("merchant shares a room with an enemy or treasure")
				}
			}
		}
	}
	if merchants != 1 {
		t.Errorf("placed %d merchants, want 1", merchants)
	}
}

func TestGenerateTreasureCountWithinTier(t *testing.T) {
	d := generateTest(t, 3, 9, 5)

	treasures := 0
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			room := d.RoomAt(x, y)
			if room.HasTreasure {
				treasures++
				if room.HasEnemy() {
					t.Error("treasure placed in an occupied room")
				}
				if x == 0 && y == 0 {
					t.Error("treasure placed in the starting room")
				}
			}
		}
	}
	if treasures < 1 || treasures > 3 {
		t.Errorf("placed %d treasure rooms, want 1..3 for tier 3", treasures)
	}
}

func TestGenerateSurvivesEmptyEnemyPool(t *testing.T) {
	// No enemies in the catalog: every room's spawn roll hits but the
	// draw fails. Population must press on to the remaining rooms, and
	// treasure and merchant placement must still run.
	cat := catalog.New([]catalog.Item{
		{Name: "Torch", Type: catalog.TypeTool, Price: 5, Tier: 1},
	}, nil, []catalog.TierRecord{
		{Tier: 1, Title: "Novice", Attack: 5, Defense: 3, Health: 50, MinXP: 0},
	})

	// 24 spawn rolls for a 5x5 grid, all forced to hit; one treasure
	// room, then index draws for treasure and merchant.
	floats := make([]float64, 24)
	r := &scriptedRoller{floats: floats, ints: []int{1, 0, 0}}

	d, err := Generate(cat, config.DefaultConfig().Dungeon, r, 1, 5)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(r.floats) != 0 {
		t.Errorf("%d spawn rolls unconsumed: population stopped early", len(r.floats))
	}

	treasures, merchants := 0, 0
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			room := d.RoomAt(x, y)
			if room.HasEnemy() {
				t.Errorf("enemy spawned at (%d,%d) from an empty pool", x, y)
			}
			if room.HasTreasure {
				treasures++
			}
			if room.HasMerchant {
				merchants++
			}
		}
	}
	if treasures != 1 || merchants != 1 {
		t.Errorf("placed %d treasures and %d merchants, want 1 and 1", treasures, merchants)
	}
}

func TestVisibilityIsCircular(t *testing.T) {
	d := generateTest(t, 1, 15, 2)

	// (4,0) is on the radius-4 ring; (14,14) is far outside it.
	if !d.RoomAt(4, 0).IsVisible {
		t.Error("room at view-range edge should be visible")
	}
	if d.RoomAt(3, 3).IsVisible {
		t.Error("room outside the circle (3,3) should be hidden")
	}
	if d.RoomAt(14, 14).IsVisible {
		t.Error("far corner should be hidden at the start")
	}
}

func TestMoveThroughDoorsOnly(t *testing.T) {
	d := generateTest(t, 1, 6, 13)
	start := d.RoomAt(0, 0)

	for _, dir := range AllDirections() {
		if start.Doors[dir] {
			continue
		}
		if d.Move(dir) {
			t.Errorf("moved through closed door %s", dir)
		}
		if pos := d.PlayerPos(); pos != (Coord{0, 0}) {
			t.Fatalf("failed move changed position to %v", pos)
		}
	}

	open := start.OpenDoors()
	if len(open) == 0 {
		t.Fatal("starting room has no open doors")
	}
	dir := open[0]
	if !d.Move(dir) {
		t.Fatalf("move through open door %s failed", dir)
	}
	dx, dy := dir.Delta()
	if pos := d.PlayerPos(); pos != (Coord{dx, dy}) {
		t.Errorf("player at %v after moving %s", pos, dir)
	}
	if !d.CurrentRoom().IsVisible {
		t.Error("destination room not revealed after move")
	}
}

func TestVisibilityNeverRetracts(t *testing.T) {
	d := generateTest(t, 1, 10, 17)

	before := 0
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if d.RoomAt(x, y).IsVisible {
				before++
			}
		}
	}

	// Walk a few random steps and confirm the visible set only grows.
	for i := 0; i < 10; i++ {
		d.MoveRandomAdjacent()
		after := 0
		for y := 0; y < d.Size; y++ {
			for x := 0; x < d.Size; x++ {
				if d.RoomAt(x, y).IsVisible {
					after++
				}
			}
		}
		if after < before {
			t.Fatalf("visible rooms shrank from %d to %d", before, after)
		}
		before = after
	}
}

func TestCompleteRequiresClearedEndRoomAndExploration(t *testing.T) {
	cfg := config.DefaultConfig().Dungeon
	rooms := emptyGrid(5)
	rooms[4][4].IsEndRoom = true

	// 19 of 25 rooms visible clears the 75% bar.
	revealed := 0
	for y := 0; y < 5 && revealed < 19; y++ {
		for x := 0; x < 5 && revealed < 19; x++ {
			rooms[y][x].IsVisible = true
			revealed++
		}
	}

	d, err := Restore(testCatalog(), cfg, dice.NewRoller(1), 1, 5, Coord{4, 4}, rooms)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if d.Complete() {
		t.Error("dungeon complete before end room is cleared")
	}

	rooms[4][4].IsCleared = true
	if !d.Complete() {
		t.Errorf("dungeon not complete at %.0f%% explored in cleared end room", d.ExplorationPercent())
	}

	rooms[0][0].IsVisible = false
	rooms[0][1].IsVisible = false
	if d.Complete() {
		t.Error("dungeon complete below required exploration")
	}
}

func TestExplorationPercent(t *testing.T) {
	rooms := emptyGrid(5)
	for x := 0; x < 5; x++ {
		rooms[0][x].IsVisible = true
	}

	d, err := Restore(testCatalog(), config.DefaultConfig().Dungeon, dice.NewRoller(1), 1, 5, Coord{0, 0}, rooms)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := d.ExplorationPercent(); got != 20 {
		t.Errorf("ExplorationPercent = %v, want 20", got)
	}
}

func TestRestoreRejectsBadGrid(t *testing.T) {
	cfg := config.DefaultConfig().Dungeon
	if _, err := Restore(testCatalog(), cfg, dice.NewRoller(1), 1, 5, Coord{}, emptyGrid(4)); err == nil {
		t.Error("expected error for mismatched grid size")
	}
}

func TestTreasureLoot(t *testing.T) {
	rooms := emptyGrid(5)
	r := &scriptedRoller{ints: []int{50, 2, 0, 3}}

	d, err := Restore(testCatalog(), config.DefaultConfig().Dungeon, r, 1, 5, Coord{}, rooms)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	copper, items := d.TreasureLoot()
	if copper != 150 {
		t.Errorf("copper = %d, want 150", copper)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Tier-1 treasure draws from items up to tier 3, sorted by name.
	if items[0].Name != "Iron Sword" || items[1].Name != "Rusty Sword" {
		t.Errorf("items = %q, %q", items[0].Name, items[1].Name)
	}
}

func TestPathToEndIsWalkable(t *testing.T) {
	d := generateTest(t, 2, 7, 31)

	path, err := d.PathToEnd()
	if err != nil {
		t.Fatalf("PathToEnd failed: %v", err)
	}
	if len(path) == 0 {
		t.Fatal("no path found in a spanning-tree maze")
	}
	if path[0] != d.PlayerPos() {
		t.Errorf("path starts at %v, want %v", path[0], d.PlayerPos())
	}
	if last := path[len(path)-1]; !d.RoomAt(last.X, last.Y).IsEndRoom {
		t.Errorf("path ends at %v, not the end room", last)
	}

	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]
		if manhattan(prev, cur) != 1 {
			t.Fatalf("path step %v -> %v is not adjacent", prev, cur)
		}
		connected := false
		for _, dir := range d.RoomAt(prev.X, prev.Y).OpenDoors() {
			dx, dy := dir.Delta()
			if (Coord{prev.X + dx, prev.Y + dy}) == cur {
				connected = true
			}
		}
		if !connected {
			t.Fatalf("path step %v -> %v passes through a wall", prev, cur)
		}
	}
}

func TestPathToEndWithoutEndRoom(t *testing.T) {
	d, err := Restore(testCatalog(), config.DefaultConfig().Dungeon, dice.NewRoller(1), 1, 5, Coord{}, emptyGrid(5))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, err := d.PathToEnd(); !errors.Is(err, ErrNoEndRoom) {
		t.Errorf("expected ErrNoEndRoom, got %v", err)
	}
}
