package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/combat"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/database"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/dungeon"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
	"github.com/lawnchairsociety/dungeondelve/internal/merchant"
	"github.com/lawnchairsociety/dungeondelve/internal/save"
)

// game drives one synchronous play session over stdin/stdout. All
// engine calls are single request/response; the only state between
// commands is the live character, dungeon, and shop.
type game struct {
	cat      *catalog.Catalog
	cfg      *config.GameConfig
	roller   dice.Roller
	db       *database.Database
	resolver *combat.Resolver

	char  *creature.Character
	floor *dungeon.Dungeon
	shop  *merchant.Merchant

	in   *bufio.Scanner
	out  io.Writer
	quit bool
}

func newGame(cat *catalog.Catalog, cfg *config.GameConfig, roller dice.Roller, db *database.Database, in io.Reader, out io.Writer) *game {
	return &game{
		cat:      cat,
		cfg:      cfg,
		roller:   roller,
		db:       db,
		resolver: combat.NewResolver(cat, cfg.Combat, cfg.Drops, roller),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// start creates a fresh character and their first dungeon.
func (g *game) start(name string, age int) error {
	char, err := creature.NewCharacter(name, age, g.cat)
	if err != nil {
		return err
	}
	g.char = char

	if err := g.newFloor(char.Tier); err != nil {
		return err
	}

	g.printf("Welcome, %s the %s. Type 'help' for commands.\n", char.Name, char.Title)
	g.describeRoom()
	return nil
}

// newFloor generates a dungeon for the tier. Grids grow with tier up
// to the configured maximum.
func (g *game) newFloor(tier int) error {
	size := g.cfg.Dungeon.MinSize + (tier - 1)
	if size > g.cfg.Dungeon.MaxSize {
		size = g.cfg.Dungeon.MaxSize
	}

	floor, err := dungeon.Generate(g.cat, g.cfg.Dungeon, g.roller, tier, size)
	if err != nil {
		return err
	}
	g.floor = floor
	g.shop = merchant.New(g.cat, g.cfg.Merchant, g.roller, tier)
	return nil
}

// run reads commands until the player quits or dies.
func (g *game) run() {
	for !g.quit {
		g.printf("> ")
		if !g.in.Scan() {
			return
		}
		g.handle(strings.TrimSpace(g.in.Text()))
	}
}

func (g *game) handle(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(strings.ToLower(line))
	verb, arg := fields[0], strings.Join(fields[1:], " ")

	// Direction shorthand
	if dir, ok := dungeon.ParseDirection(verb); ok {
		g.move(dir)
		return
	}

	if g.inCombat() {
		g.handleCombat(verb, arg)
		return
	}

	switch verb {
	case "help":
		g.printHelp()
	case "quit", "exit":
		g.quit = true
	case "look", "l":
		g.describeRoom()
	case "map", "m":
		g.printMap()
	case "status", "stats":
		g.printStatus()
	case "inventory", "inv", "i":
		g.printInventory()
	case "use":
		g.useItem(arg)
	case "equip":
		g.equipItem(arg)
	case "loot":
		g.loot()
	case "shop", "list":
		g.printShop()
	case "buy":
		g.buy(arg)
	case "sell":
		g.sell(arg)
	case "path":
		g.printPath()
	case "descend":
		g.descend()
	case "save":
		g.saveGame(arg)
	case "load":
		if err := g.load(arg); err != nil {
			g.printf("Load failed: %v\n", err)
		}
	default:
		g.printf("Unknown command %q. Type 'help' for commands.\n", verb)
	}
}

func (g *game) handleCombat(verb, arg string) {
	switch verb {
	case "attack", "a":
		g.playerTurn(combat.Action{Type: combat.ActionAttack})
	case "use", "u":
		g.playerTurn(combat.Action{Type: combat.ActionUseItem, Item: g.matchInventory(arg)})
	case "flee", "run", "f":
		g.playerTurn(combat.Action{Type: combat.ActionFlee})
	case "status", "stats":
		g.printStatus()
	case "help":
		g.printf("In combat: attack, use <item>, flee, status, quit\n")
	case "quit", "exit":
		g.quit = true
	default:
		g.printf("There's no time for that. attack, use <item>, or flee.\n")
	}
}

func (g *game) inCombat() bool {
	return g.floor.CurrentRoom().HasEnemy()
}

// playerTurn resolves the player's action, then gives the enemy its
// swing if the fight goes on.
func (g *game) playerTurn(action combat.Action) {
	room := g.floor.CurrentRoom()
	enemy, ok := room.ActiveEnemy()
	if !ok {
		return
	}

	result, err := g.resolver.ProcessTurn(g.char, enemy, action)
	if err != nil {
		g.printf("Nothing happens: %v\n", err)
		return
	}
	g.printMessages(result.Messages)

	if result.Fled {
		if g.floor.MoveRandomAdjacent() {
			g.describeRoom()
		} else {
			g.printf("There is nowhere to run!\n")
		}
		return
	}

	switch combat.Status(g.char, enemy) {
	case combat.OutcomeVictory:
		g.victory(room, enemy)
		return
	case combat.OutcomeDefeat:
		g.defeat()
		return
	}

	// Enemy's turn
	result, err = g.resolver.ProcessTurn(enemy, g.char, combat.Action{Type: combat.ActionAttack})
	if err != nil {
		logger.Error("Enemy turn failed", "error", err)
		return
	}
	g.printMessages(result.Messages)

	if combat.Status(g.char, enemy) == combat.OutcomeDefeat {
		g.defeat()
	}
}

func (g *game) victory(room *dungeon.Room, enemy *creature.Enemy) {
	reward, err := g.resolver.DistributeRewards(g.char, enemy)
	if err != nil {
		logger.Error("Reward distribution failed", "error", err)
	} else {
		g.printMessages(reward.Messages)
	}

	room.RemoveActiveEnemy()
	if !room.HasEnemy() {
		room.IsCleared = true
		g.printf("The room falls quiet.\n")
		g.describeRoom()
	} else {
		next, _ := room.ActiveEnemy()
		g.printf("Another foe steps forward: %s!\n", next.Name)
	}
}

func (g *game) defeat() {
	g.printf("%s has fallen. The delve ends here.\n", g.char.Name)
	logger.Info("Character defeated", "name", g.char.Name, "tier", g.char.Tier)
	g.quit = true
}

func (g *game) move(dir dungeon.Direction) {
	if g.inCombat() {
		g.printf("You can't walk away mid-fight. Try 'flee'.\n")
		return
	}
	if !g.floor.Move(dir) {
		g.printf("There is no door to the %s.\n", dir)
		return
	}
	g.describeRoom()
}

func (g *game) describeRoom() {
	room := g.floor.CurrentRoom()
	pos := g.floor.PlayerPos()
	g.printf("Room (%d,%d), tier %d. Doors: %s\n", pos.X, pos.Y, g.floor.Tier, doorList(room))

	if enemy, ok := room.ActiveEnemy(); ok {
		g.printf("A %s blocks your way! (%d/%d HP)\n", enemy.Name, enemy.CurrentHealth, enemy.Health)
		return
	}
	// A room with nothing hostile left counts as cleared.
	room.IsCleared = true
	if room.HasTreasure && !room.TreasureLooted {
		g.printf("A treasure chest sits here. Try 'loot'.\n")
	}
	if len(room.Items) > 0 {
		g.printf("Something glints on the floor. Try 'loot'.\n")
	}
	if room.HasMerchant {
		room.MerchantVisited = true
		g.printf("A merchant has set up shop here. Try 'shop'.\n")
	}
	if room.IsEndRoom {
		if g.floor.Complete() {
			g.printf("The stairway down is open. Type 'descend'.\n")
		} else {
			g.printf("The stairway down is here, but the floor holds you back (%.0f%% explored, %.0f%% needed).\n",
				g.floor.ExplorationPercent(), g.cfg.Dungeon.RequiredExploration)
		}
	}
}

func doorList(room *dungeon.Room) string {
	var names []string
	for _, dir := range room.OpenDoors() {
		names = append(names, dir.String())
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func (g *game) loot() {
	room := g.floor.CurrentRoom()
	looted := false

	if room.HasTreasure && !room.TreasureLooted {
		copper, items := g.floor.TreasureLoot()
		room.TreasureLooted = true
		g.char.Money += copper
		g.printf("The chest holds %d copper", copper)
		for _, item := range items {
			g.char.AddItem(item)
			g.printf(", %s", item.Name)
		}
		g.printf(".\n")
		looted = true
	}

	for _, item := range room.TakeItems() {
		g.char.AddItem(item)
		g.printf("Picked up %s.\n", item.Name)
		looted = true
	}

	if !looted {
		g.printf("Nothing here to take.\n")
	}
}

func (g *game) useItem(arg string) {
	name := g.matchInventory(arg)
	healed, err := g.char.UsePotion(name)
	if err != nil {
		g.printf("Can't use that: %v\n", err)
		return
	}
	g.printf("You recover %d health (%d/%d).\n", healed, g.char.CurrentHealth, g.char.MaxHealth)
}

func (g *game) equipItem(arg string) {
	name := g.matchInventory(arg)
	if err := g.char.Equip(name); err != nil {
		g.printf("Can't equip that: %v\n", err)
		return
	}
	g.printf("%s equipped.\n", name)
}

// matchInventory resolves a lowercased command argument back to the
// cased item name in the inventory, falling back to the raw argument.
func (g *game) matchInventory(arg string) string {
	for _, item := range g.char.Inventory {
		if strings.ToLower(item.Name) == arg {
			return item.Name
		}
	}
	return arg
}

func (g *game) printShop() {
	room := g.floor.CurrentRoom()
	if !room.HasMerchant {
		g.printf("There is no merchant here.\n")
		return
	}
	g.printf("The merchant offers (you have %d copper):\n", g.char.Money)
	for _, entry := range g.shop.Stock() {
		g.printf("  %-24s %5d copper  [%s]\n", entry.Item.Name, entry.Price, entry.Item.Type)
	}
}

func (g *game) buy(arg string) {
	room := g.floor.CurrentRoom()
	if !room.HasMerchant {
		g.printf("There is no merchant here.\n")
		return
	}
	name := g.matchStock(arg)
	if !g.shop.Buy(g.char, name) {
		g.printf("The merchant shakes their head.\n")
		return
	}
	g.printf("Bought %s. %d copper left.\n", name, g.char.Money)
}

func (g *game) sell(arg string) {
	room := g.floor.CurrentRoom()
	if !room.HasMerchant {
		g.printf("There is no merchant here.\n")
		return
	}
	name := g.matchInventory(arg)
	price, ok := g.shop.Sell(g.char, name)
	if !ok {
		g.printf("You don't have that to sell.\n")
		return
	}
	g.printf("Sold %s for %d copper. You now have %d.\n", name, price, g.char.Money)
}

func (g *game) matchStock(arg string) string {
	for _, entry := range g.shop.Stock() {
		if strings.ToLower(entry.Item.Name) == arg {
			return entry.Item.Name
		}
	}
	return arg
}

func (g *game) descend() {
	if !g.floor.Complete() {
		g.printf("The stairway won't open yet: stand in the cleared end room with enough of the floor explored.\n")
		return
	}

	nextTier := g.floor.Tier + 1
	if nextTier > g.cat.MaxTier() {
		g.printf("You have conquered the deepest floor. %s retires a legend!\n", g.char.Name)
		g.quit = true
		return
	}

	if err := g.newFloor(nextTier); err != nil {
		g.printf("The way down is blocked: %v\n", err)
		return
	}
	g.printf("You descend to tier %d.\n", nextTier)
	g.describeRoom()
}

func (g *game) printPath() {
	path, err := g.floor.PathToEnd()
	if err != nil || path == nil {
		g.printf("No route to the end room presents itself.\n")
		return
	}
	g.printf("A faint trail leads on: ")
	for i, c := range path {
		if i > 0 {
			g.printf(" -> ")
		}
		g.printf("(%d,%d)", c.X, c.Y)
	}
	g.printf("\n")
}

func (g *game) printStatus() {
	c := g.char
	g.printf("%s the %s (tier %d)  HP %d/%d  XP %d  %d copper\n",
		c.Name, c.Title, c.Tier, c.CurrentHealth, c.MaxHealth, c.XP, c.Money)
	g.printf("Attack %d  Defense %d  Weapon: %s  Armor: %s  Shield: %s\n",
		c.TotalAttack(), c.TotalDefense(),
		slotName(c.EquippedWeapon), slotName(c.EquippedArmor), slotName(c.EquippedShield))
	g.printf("Explored %.0f%% of this floor.\n", g.floor.ExplorationPercent())
}

func slotName(item *catalog.Item) string {
	if item == nil {
		return "none"
	}
	return item.Name
}

func (g *game) printInventory() {
	if len(g.char.Inventory) == 0 {
		g.printf("Your pack is empty.\n")
		return
	}
	counts := map[string]int{}
	var order []string
	for _, item := range g.char.Inventory {
		if counts[item.Name] == 0 {
			order = append(order, item.Name)
		}
		counts[item.Name]++
	}
	for _, name := range order {
		g.printf("  %s x%d\n", name, counts[name])
	}
}

// printMap draws the explored portion of the floor. Unseen rooms are
// blanks; the player overrides whatever else is in their cell.
func (g *game) printMap() {
	pos := g.floor.PlayerPos()
	for y := 0; y < g.floor.Size; y++ {
		var row strings.Builder
		for x := 0; x < g.floor.Size; x++ {
			row.WriteByte(roomGlyph(g.floor.RoomAt(x, y), x == pos.X && y == pos.Y))
			row.WriteByte(' ')
		}
		g.printf("%s\n", row.String())
	}
	g.printf("@ you  E enemy  T treasure  M merchant  X stairs  . empty\n")
}

func roomGlyph(room *dungeon.Room, player bool) byte {
	switch {
	case player:
		return '@'
	case !room.IsVisible:
		return ' '
	case room.HasEnemy():
		return 'E'
	case room.IsEndRoom:
		return 'X'
	case room.HasMerchant:
		return 'M'
	case room.HasTreasure && !room.TreasureLooted:
		return 'T'
	default:
		return '.'
	}
}

func (g *game) saveGame(slot string) {
	if slot == "" {
		g.printf("Usage: save <slot>\n")
		return
	}

	charSnap := save.SnapshotCharacter(g.char)
	floorSnap := save.SnapshotDungeon(g.floor)
	payload, err := save.Encode(save.GameSnapshot{Character: &charSnap, Dungeon: &floorSnap})
	if err != nil {
		g.printf("Save failed: %v\n", err)
		return
	}

	if err := g.db.SaveGame(slot, g.char.Name, g.char.Tier, payload); err != nil {
		g.printf("Save failed: %v\n", err)
		return
	}
	g.printf("Saved to slot %q.\n", slot)
}

// load replaces the live game with the snapshot in the slot. A
// malformed snapshot leaves the current game untouched.
func (g *game) load(slot string) error {
	if slot == "" {
		return fmt.Errorf("no slot named")
	}

	payload, err := g.db.LoadGame(slot)
	if err != nil {
		return err
	}
	snapshot, err := save.Decode(payload)
	if err != nil {
		return err
	}

	char, err := snapshot.Character.RestoreCharacter(g.cat)
	if err != nil {
		return err
	}

	var floor *dungeon.Dungeon
	if snapshot.Dungeon != nil {
		floor, err = snapshot.Dungeon.RestoreDungeon(g.cat, g.cfg.Dungeon, g.roller)
		if err != nil {
			return err
		}
	}

	g.char = char
	if floor != nil {
		g.floor = floor
	} else if err := g.newFloor(char.Tier); err != nil {
		return err
	}
	g.shop = merchant.New(g.cat, g.cfg.Merchant, g.roller, g.floor.Tier)

	g.printf("Welcome back, %s the %s (tier %d).\n", char.Name, char.Title, char.Tier)
	g.describeRoom()
	return nil
}

func (g *game) printHelp() {
	g.printf(`Commands:
  north/south/east/west (n/s/e/w)   move through an open door
  look                              describe the current room
  map                               show the explored floor
  status                            character sheet
  inventory                         pack contents
  use <item>                        drink a potion
  equip <item>                      wield or wear an item
  loot                              open chests and pick up loot
  shop / buy <item> / sell <item>   trade with a merchant
  path                              hint toward the stairs
  descend                           take the stairs in the end room
  save <slot> / load <slot>         persist or resume a delve
  quit                              leave the dungeon
In combat: attack, use <item>, flee.
`)
}

func (g *game) printMessages(messages []string) {
	for _, m := range messages {
		g.printf("%s\n", m)
	}
}

func (g *game) printf(format string, args ...any) {
	fmt.Fprintf(g.out, format, args...)
}
