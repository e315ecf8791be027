package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/lawnchairsociety/dungeondelve/internal/catalog"
	"github.com/lawnchairsociety/dungeondelve/internal/config"
	"github.com/lawnchairsociety/dungeondelve/internal/database"
	"github.com/lawnchairsociety/dungeondelve/internal/dice"
	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

func main() {
	// Parse command-line flags
	itemsFile := flag.String("items", "data/items.yaml", "Path to items YAML file")
	enemiesFile := flag.String("enemies", "data/enemies.yaml", "Path to enemies YAML file")
	tiersFile := flag.String("tiers", "data/tiers.yaml", "Path to tiers YAML file")
	configFile := flag.String("config", "data/delve.yaml", "Path to game config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	dbFile := flag.String("db", "data/delve.db", "Path to save database file")
	seed := flag.Int64("seed", 0, "Run seed (default: random based on current time)")
	name := flag.String("name", "Adventurer", "Character name")
	age := flag.Int("age", 25, "Character age")
	loadSlot := flag.String("load", "", "Save slot to resume instead of starting fresh")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting Dungeon Delve")

	gameCfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Falling back to default game config", "error", err)
	}

	cat, err := catalog.Load(catalog.DataFiles{
		Items:   *itemsFile,
		Enemies: *enemiesFile,
		Tiers:   *tiersFile,
	})
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Use provided seed or generate from time
	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
		logger.Info("Run seed selected", "seed", runSeed, "random", true)
	} else {
		logger.Info("Run seed selected", "seed", runSeed, "random", false)
	}
	roller := dice.NewRoller(runSeed)

	db, err := database.Open(database.DefaultConfig(*dbFile))
	if err != nil {
		log.Fatalf("Failed to open save database: %v", err)
	}
	defer db.Close()

	g := newGame(cat, gameCfg, roller, db, os.Stdin, os.Stdout)

	if *loadSlot != "" {
		if err := g.load(*loadSlot); err != nil {
			log.Fatalf("Failed to load slot %q: %v", *loadSlot, err)
		}
	} else {
		if err := g.start(*name, *age); err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}
	}

	g.run()

	logger.Info("Dungeon Delve shutting down")
}
