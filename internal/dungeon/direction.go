package dungeon

// Direction represents a cardinal direction
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Opposite returns the mirrored direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return North
}

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// ParseDirection converts a string to a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n":
		return North, true
	case "south", "s":
		return South, true
	case "east", "e":
		return East, true
	case "west", "w":
		return West, true
	}
	return North, false
}

// Delta returns the grid offset for the direction. North decreases y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, South, East, West}
}
