// Package save defines the persistence snapshots for the engine's
// entities and their YAML codec. Snapshots are field-complete: a
// payload missing a required field, or carrying the wrong type for
// one, is rejected wholesale instead of partially reconstructed.
package save

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeondelve/internal/creature"
	"github.com/lawnchairsociety/dungeondelve/internal/dungeon"
)

// ErrMalformedSnapshot is returned when a persisted payload cannot be
// reconstructed. The prior live state, if any, is untouched.
var ErrMalformedSnapshot = errors.New("save: malformed snapshot")

// CharacterSnapshot captures a character. Required scalars are
// pointers so a missing field is distinguishable from a zero value.
type CharacterSnapshot struct {
	Name          *string  `yaml:"name"`
	Age           *int     `yaml:"age"`
	Tier          *int     `yaml:"tier"`
	XP            *int     `yaml:"xp"`
	CurrentHealth *int     `yaml:"current_health"`
	Money         *int     `yaml:"money"`
	Inventory     []string `yaml:"inventory"`

	// Equipment slots hold item names; empty means the slot is bare.
	EquippedWeapon string `yaml:"equipped_weapon"`
	EquippedArmor  string `yaml:"equipped_armor"`
	EquippedShield string `yaml:"equipped_shield"`
}

// EnemySnapshot captures a live enemy inside a room.
type EnemySnapshot struct {
	Name          *string `yaml:"name"`
	CurrentHealth *int    `yaml:"current_health"`
}

// RoomSnapshot captures one grid cell.
type RoomSnapshot struct {
	Cleared         bool `yaml:"cleared"`
	Visible         bool `yaml:"visible"`
	HasTreasure     bool `yaml:"has_treasure"`
	TreasureLooted  bool `yaml:"treasure_looted"`
	HasMerchant     bool `yaml:"has_merchant"`
	MerchantVisited bool `yaml:"merchant_visited"`
	EndRoom         bool `yaml:"end_room"`

	Doors   map[string]bool `yaml:"doors"`
	Enemies []EnemySnapshot `yaml:"enemies,omitempty"`
	Items   []string        `yaml:"items,omitempty"`
}

// DungeonSnapshot captures a dungeon grid and the player's place in it.
type DungeonSnapshot struct {
	Tier      *int             `yaml:"tier"`
	Size      *int             `yaml:"size"`
	PlayerPos []int            `yaml:"player_pos"`
	Rooms     [][]RoomSnapshot `yaml:"rooms"`
}

// FormatVersion stamps encoded snapshots for forward compatibility.
const FormatVersion = "1.0"

// GameSnapshot bundles everything one save slot holds.
type GameSnapshot struct {
	Version   string             `yaml:"version,omitempty"`
	SavedAt   time.Time          `yaml:"saved_at,omitempty"`
	Character *CharacterSnapshot `yaml:"character"`
	Dungeon   *DungeonSnapshot   `yaml:"dungeon"`
}

// SnapshotCharacter captures the character's current state.
func SnapshotCharacter(c *creature.Character) CharacterSnapshot {
	s := CharacterSnapshot{
		Name:          &c.Name,
		Age:           &c.Age,
		Tier:          &c.Tier,
		XP:            &c.XP,
		CurrentHealth: &c.CurrentHealth,
		Money:         &c.Money,
	}
	for _, item := range c.Inventory {
		s.Inventory = append(s.Inventory, item.Name)
	}
	if c.EquippedWeapon != nil {
		s.EquippedWeapon = c.EquippedWeapon.Name
	}
	if c.EquippedArmor != nil {
		s.EquippedArmor = c.EquippedArmor.Name
	}
	if c.EquippedShield != nil {
		s.EquippedShield = c.EquippedShield.Name
	}
	return s
}

// SnapshotDungeon captures the dungeon grid, doors, flags, and every
// surviving enemy.
func SnapshotDungeon(d *dungeon.Dungeon) DungeonSnapshot {
	pos := d.PlayerPos()
	s := DungeonSnapshot{
		Tier:      &d.Tier,
		Size:      &d.Size,
		PlayerPos: []int{pos.X, pos.Y},
	}

	for _, row := range d.Rooms() {
		var snapRow []RoomSnapshot
		for _, room := range row {
			snapRow = append(snapRow, snapshotRoom(room))
		}
		s.Rooms = append(s.Rooms, snapRow)
	}
	return s
}

func snapshotRoom(r *dungeon.Room) RoomSnapshot {
	s := RoomSnapshot{
		Cleared:         r.IsCleared,
		Visible:         r.IsVisible,
		HasTreasure:     r.HasTreasure,
		TreasureLooted:  r.TreasureLooted,
		HasMerchant:     r.HasMerchant,
		MerchantVisited: r.MerchantVisited,
		EndRoom:         r.IsEndRoom,
		Doors:           make(map[string]bool, len(r.Doors)),
	}
	for dir, open := range r.Doors {
		s.Doors[dir.String()] = open
	}
	for _, enemy := range r.Enemies {
		name := enemy.Name
		health := enemy.CurrentHealth
		s.Enemies = append(s.Enemies, EnemySnapshot{Name: &name, CurrentHealth: &health})
	}
	for _, item := range r.Items {
		s.Items = append(s.Items, item.Name)
	}
	return s
}

// Encode serializes a game snapshot to YAML, stamping the format
// version and save time if the caller left them unset.
func Encode(s GameSnapshot) ([]byte, error) {
	if s.Version == "" {
		s.Version = FormatVersion
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a YAML payload into a game snapshot. Unknown fields,
// type mismatches, and missing required fields all reject the whole
// payload with ErrMalformedSnapshot.
func Decode(data []byte) (GameSnapshot, error) {
	var s GameSnapshot

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return GameSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	if err := s.validate(); err != nil {
		return GameSnapshot{}, err
	}
	return s, nil
}

func (s GameSnapshot) validate() error {
	if s.Character == nil {
		return fmt.Errorf("%w: missing character", ErrMalformedSnapshot)
	}
	if err := s.Character.validate(); err != nil {
		return err
	}
	if s.Dungeon != nil {
		return s.Dungeon.validate()
	}
	return nil
}

func (s *CharacterSnapshot) validate() error {
	switch {
	case s.Name == nil:
		return fmt.Errorf("%w: character missing name", ErrMalformedSnapshot)
	case s.Age == nil:
		return fmt.Errorf("%w: character missing age", ErrMalformedSnapshot)
	case s.Tier == nil:
		return fmt.Errorf("%w: character missing tier", ErrMalformedSnapshot)
	case s.XP == nil:
		return fmt.Errorf("%w: character missing xp", ErrMalformedSnapshot)
	case s.CurrentHealth == nil:
		return fmt.Errorf("%w: character missing current_health", ErrMalformedSnapshot)
	case s.Money == nil:
		return fmt.Errorf("%w: character missing money", ErrMalformedSnapshot)
	}
	return nil
}

func (s *DungeonSnapshot) validate() error {
	switch {
	case s.Tier == nil:
		return fmt.Errorf("%w: dungeon missing tier", ErrMalformedSnapshot)
	case s.Size == nil:
		return fmt.Errorf("%w: dungeon missing size", ErrMalformedSnapshot)
	case len(s.PlayerPos) != 2:
		return fmt.Errorf("%w: player_pos is not a coordinate pair", ErrMalformedSnapshot)
	case len(s.Rooms) != *s.Size:
		return fmt.Errorf("%w: room grid has %d rows, want %d", ErrMalformedSnapshot, len(s.Rooms), *s.Size)
	}

	for y, row := range s.Rooms {
		if len(row) != *s.Size {
			return fmt.Errorf("%w: row %d has %d rooms, want %d", ErrMalformedSnapshot, y, len(row), *s.Size)
		}
		for x, room := range row {
			if err := room.validate(); err != nil {
				return fmt.Errorf("%w at room (%d,%d)", err, x, y)
			}
		}
	}
	return nil
}

func (s RoomSnapshot) validate() error {
	if s.Doors == nil {
		return fmt.Errorf("%w: room missing doors", ErrMalformedSnapshot)
	}
	for name := range s.Doors {
		if _, ok := dungeon.ParseDirection(name); !ok {
			return fmt.Errorf("%w: unknown door direction %q", ErrMalformedSnapshot, name)
		}
	}
	for _, enemy := range s.Enemies {
		if enemy.Name == nil || enemy.CurrentHealth == nil {
			return fmt.Errorf("%w: enemy missing name or current_health", ErrMalformedSnapshot)
		}
	}
	return nil
}
