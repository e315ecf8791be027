package dungeon

import (
	"math"
	"sort"
)

type pathNode struct {
	pos      Coord
	cost     int     // steps from the start
	priority float64 // cost + heuristic
}

// PathToEnd returns the shortest sequence of coordinates from the
// player's position to the end room, start and end inclusive, walking
// only through open doors. Returns ErrNoEndRoom when no end room is
// set and nil when the end room is unreachable.
func (d *Dungeon) PathToEnd() ([]Coord, error) {
	goal, ok := d.endRoomPos()
	if !ok {
		return nil, ErrNoEndRoom
	}
	return d.findPath(d.PlayerPos(), goal), nil
}

func (d *Dungeon) endRoomPos() (Coord, bool) {
	for y := 0; y < d.Size; y++ {
		for x := 0; x < d.Size; x++ {
			if d.rooms[y][x].IsEndRoom {
				return Coord{x, y}, true
			}
		}
	}
	return Coord{}, false
}

// findPath runs A* over the door graph with a Euclidean heuristic.
// The frontier is a plain slice re-sorted after each insertion; the
// grids are small enough that a heap buys nothing.
func (d *Dungeon) findPath(start, goal Coord) []Coord {
	frontier := []pathNode{{pos: start}}
	cameFrom := map[Coord]Coord{}
	costSoFar := map[Coord]int{start: 0}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		if current.pos == goal {
			return reconstructPath(cameFrom, start, goal)
		}

		for _, dir := range d.rooms[current.pos.Y][current.pos.X].OpenDoors() {
			dx, dy := dir.Delta()
			next := Coord{current.pos.X + dx, current.pos.Y + dy}
			if !d.InBounds(next.X, next.Y) {
				continue
			}

			cost := costSoFar[current.pos] + 1
			if prev, seen := costSoFar[next]; seen && cost >= prev {
				continue
			}
			costSoFar[next] = cost
			cameFrom[next] = current.pos

			frontier = append(frontier, pathNode{
				pos:      next,
				cost:     cost,
				priority: float64(cost) + euclidean(next, goal),
			})
		}

		sort.Slice(frontier, func(i, j int) bool {
			return frontier[i].priority < frontier[j].priority
		})
	}

	return nil
}

func reconstructPath(cameFrom map[Coord]Coord, start, goal Coord) []Coord {
	path := []Coord{goal}
	for pos := goal; pos != start; {
		pos = cameFrom[pos]
		path = append(path, pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func euclidean(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
