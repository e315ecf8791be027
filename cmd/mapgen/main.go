package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/dungeon"
)

// mapgen generates a dungeon floor and prints it as ASCII art. Useful
// for eyeballing maze connectivity, point-of-interest placement, and
// the solver's route without playing through a session.
func main() {
	itemsPath := flag.String("items", "data/items.yaml", "Path to items YAML")
	enemiesPath := flag.String("enemies", "data/enemies.yaml", "Path to enemies YAML")
	tiersPath := flag.String("tiers", "data/tiers.yaml", "Path to tiers YAML")
	configPath := flag.String("config", "data/delve.yaml", "Path to game config YAML")
	tier := flag.Int("tier", 1, "Dungeon tier to generate")
	size := flag.Int("size", 0, "Grid size (0 derives from tier)")
	seed := flag.Int64("seed", 0, "RNG seed (0 uses current time)")
	showPath := flag.Bool("path", true, "Overlay the route to the end room")
	showLegend := flag.Bool("legend", true, "Show legend")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	flag.Parse()

	cat, err := catalog.Load(catalog.DataFiles{
		Items:   *itemsPath,
		Enemies: *enemiesPath,
		Tiers:   *tiersPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *size == 0 {
		*size = cfg.Dungeon.MinSize + (*tier - 1)
		if *size > cfg.Dungeon.MaxSize {
			*size = cfg.Dungeon.MaxSize
		}
	}

	floor, err := dungeon.Generate(cat, cfg.Dungeon, dice.NewRoller(*seed), *tier, *size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating dungeon: %v\n", err)
		os.Exit(1)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Dungeon Map (Tier: %d, Size: %dx%d, Seed: %d)\n", *tier, *size, *size, *seed))
	output.WriteString(strings.Repeat("=", 50) + "\n\n")

	onPath := map[dungeon.Coord]bool{}
	if *showPath {
		if route, err := floor.PathToEnd(); err == nil {
			for _, c := range route {
				onPath[c] = true
			}
		}
	}

	renderFloor(&output, floor, onPath)
	renderDetails(&output, floor)

	if *showLegend {
		output.WriteString(legend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// renderFloor draws each room as a 3-line cell: north door above,
// west-[symbol]-east in the middle, south door below.
func renderFloor(output *strings.Builder, floor *dungeon.Dungeon, onPath map[dungeon.Coord]bool) {
	for y := 0; y < floor.Size; y++ {
		for x := 0; x < floor.Size; x++ {
			if floor.RoomAt(x, y).Doors[dungeon.North] {
				output.WriteString("  |  ")
			} else {
				output.WriteString("     ")
			}
		}
		output.WriteString("\n")

		for x := 0; x < floor.Size; x++ {
			room := floor.RoomAt(x, y)
			if room.Doors[dungeon.West] {
				output.WriteString("-")
			} else {
				output.WriteString(" ")
			}
			output.WriteString("[")
			output.WriteString(roomSymbol(floor, x, y, onPath))
			output.WriteString("]")
			if room.Doors[dungeon.East] {
				output.WriteString("-")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		for x := 0; x < floor.Size; x++ {
			if floor.RoomAt(x, y).Doors[dungeon.South] {
				output.WriteString("  |  ")
			} else {
				output.WriteString("     ")
			}
		}
		output.WriteString("\n")
	}
}

func roomSymbol(floor *dungeon.Dungeon, x, y int, onPath map[dungeon.Coord]bool) string {
	room := floor.RoomAt(x, y)
	start := floor.PlayerPos()
	switch {
	case x == start.X && y == start.Y:
		return "@"
	case room.IsEndRoom:
		return "X"
	case room.HasEnemy():
		return "E"
	case room.HasMerchant:
		return "M"
	case room.HasTreasure:
		return "$"
	case onPath[dungeon.Coord{X: x, Y: y}]:
		return "*"
	default:
		return "."
	}
}

func renderDetails(output *strings.Builder, floor *dungeon.Dungeon) {
	output.WriteString("\nPoints of Interest:\n")
	for y := 0; y < floor.Size; y++ {
		for x := 0; x < floor.Size; x++ {
			room := floor.RoomAt(x, y)
			var markers []string
			if enemy, ok := room.ActiveEnemy(); ok {
				markers = append(markers, fmt.Sprintf("enemy: %s", enemy.Name))
			}
			if room.HasTreasure {
				markers = append(markers, "treasure")
			}
			if room.HasMerchant {
				markers = append(markers, "merchant")
			}
			if room.IsEndRoom {
				markers = append(markers, "end room")
			}
			if len(markers) > 0 {
				output.WriteString(fmt.Sprintf("  (%d,%d) %s\n", x, y, strings.Join(markers, ", ")))
			}
		}
	}

	if route, err := floor.PathToEnd(); err == nil && route != nil {
		output.WriteString(fmt.Sprintf("\nRoute to end room: %d steps\n", len(route)-1))
	}
}

func legend() string {
	return `
Legend:
  [@] Entrance
  [X] End room (stairs down)
  [E] Enemy
  [M] Merchant
  [$] Treasure
  [*] On the route to the end room
  [.] Empty room

  Connections:
  -   Horizontal passage (east-west)
  |   Vertical passage (north-south)
`
}
