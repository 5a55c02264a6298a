package systems

import (
	"deskmate-server/internal/domain"
	"errors"
	"math/rand"
	"testing"
)

func mustPathfinder(t *testing.T, w, h int) *Pathfinder {
	t.Helper()
	pf, err := NewPathfinder(w, h)
	if err != nil {
		t.Fatalf("NewPathfinder(%d, %d): %v", w, h, err)
	}
	return pf
}

// assertValidPath проверяет концы, 4-направленные шаги и обход препятствий.
func assertValidPath(t *testing.T, pf *Pathfinder, path []domain.Cell, start, goal domain.Cell, obstacles CellSet, fp domain.Footprint) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("Expected a path, got none")
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("Path endpoints %v..%v, want %v..%v", path[0], path[len(path)-1], start, goal)
	}
	for i, c := range path {
		if i > 0 && !path[i-1].IsAdjacent(c) {
			t.Errorf("Step %d: %v -> %v is not a 4-directional step", i, path[i-1], c)
		}
		if obstacles.Has(c) {
			t.Errorf("Path goes through obstacle %v", c)
		}
		if i > 0 && pf.IsBlocked(c, obstacles, fp) {
			t.Errorf("Footprint blocked at %v", c)
		}
	}
}

// bfsDistance - независимый эталон кратчайшего числа шагов (-1, если недостижимо).
func bfsDistance(pf *Pathfinder, start, goal domain.Cell, obstacles CellSet) int {
	dist := map[domain.Cell]int{start: 0}
	queue := []domain.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == goal {
			return dist[c]
		}
		for _, n := range c.Neighbors() {
			if _, seen := dist[n]; seen || !pf.InBounds(n) || obstacles.Has(n) {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

func TestNewPathfinderRejectsBadBounds(t *testing.T) {
	if _, err := NewPathfinder(0, 16); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}
	if _, err := NewPathfinder(64, -1); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}
}

func TestFindPathStraightLine(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)

	path, err := pf.FindPath(domain.Cell{X: 0, Y: 0}, domain.Cell{X: 3, Y: 0}, NewCellSet(), domain.DefaultFootprint)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	if len(path) != len(want) {
		t.Fatalf("Expected %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d] = %v, want %v", i, path[i], want[i])
		}
	}
}

func TestFindPathDetoursAroundWall(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)
	wall := NewCellSet(domain.Cell{X: 2, Y: 1}, domain.Cell{X: 2, Y: 2}, domain.Cell{X: 2, Y: 3})
	start, goal := domain.Cell{X: 0, Y: 2}, domain.Cell{X: 5, Y: 2}

	path, err := pf.FindPath(start, goal, wall, domain.DefaultFootprint)
	if err != nil {
		t.Fatal(err)
	}
	assertValidPath(t, pf, path, start, goal, wall, domain.DefaultFootprint)

	if len(path) <= 6 {
		t.Errorf("Expected a detour longer than 6 cells, got %d", len(path))
	}
	// Вокруг любого конца стены: 5 поперек + 2 наружу + 2 обратно.
	if len(path) != 10 {
		t.Errorf("Expected optimal detour of 10 cells, got %d: %v", len(path), path)
	}
}

func TestFindPathGoalInsideSolidBlock(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)
	block := BuildObstacleSet([]domain.RoomObject{{
		ID: "crate", Pos: domain.Cell{X: 6, Y: 6}, Size: domain.Footprint{Width: 2, Height: 2}, Solid: true,
	}})

	path, err := pf.FindPath(domain.Cell{X: 0, Y: 0}, domain.Cell{X: 7, Y: 7}, block, domain.DefaultFootprint)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 0 {
		t.Errorf("Expected empty path, got %v", path)
	}
}

func TestFindPathEnclosedGoal(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)
	goal := domain.Cell{X: 5, Y: 5}
	ring := NewCellSet()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx != 0 || dy != 0 {
				ring.Put(goal.Shift(dx, dy))
			}
		}
	}

	path, err := pf.FindPath(domain.Cell{X: 0, Y: 0}, goal, ring, domain.DefaultFootprint)
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 0 {
		t.Errorf("Expected no path into a closed ring, got %v", path)
	}
}

func TestFindPathEdgeCases(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)
	obstacles := NewCellSet(domain.Cell{X: 4, Y: 4})

	tests := []struct {
		name       string
		start      domain.Cell
		goal       domain.Cell
		wantLength int
	}{
		{"Trivial path", domain.Cell{X: 2, Y: 2}, domain.Cell{X: 2, Y: 2}, 1},
		{"Start out of bounds", domain.Cell{X: -1, Y: 0}, domain.Cell{X: 2, Y: 2}, 0},
		{"Goal out of bounds", domain.Cell{X: 0, Y: 0}, domain.Cell{X: 10, Y: 0}, 0},
		{"Goal on obstacle", domain.Cell{X: 0, Y: 0}, domain.Cell{X: 4, Y: 4}, 0},
		{"Start on obstacle still searches", domain.Cell{X: 4, Y: 4}, domain.Cell{X: 4, Y: 6}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := pf.FindPath(tt.start, tt.goal, obstacles, domain.DefaultFootprint)
			if err != nil {
				t.Fatal(err)
			}
			if len(path) != tt.wantLength {
				t.Errorf("len(path) = %d, want %d (%v)", len(path), tt.wantLength, path)
			}
		})
	}
}

func TestFindPathInvalidFootprint(t *testing.T) {
	pf := mustPathfinder(t, 10, 10)
	_, err := pf.FindPath(domain.Cell{}, domain.Cell{X: 1}, NewCellSet(), domain.Footprint{Width: 0, Height: 1})
	if !errors.Is(err, domain.ErrInvalidFootprint) {
		t.Errorf("Expected ErrInvalidFootprint, got %v", err)
	}
}

func TestFindPathLargeFootprint(t *testing.T) {
	pf := mustPathfinder(t, 6, 6)
	fp := domain.Footprint{Width: 2, Height: 2}
	// Одна колонна посередине; агент 2x2 должен целиком держаться от нее в стороне.
	obstacles := NewCellSet(domain.Cell{X: 2, Y: 2})

	start, goal := domain.Cell{X: 0, Y: 0}, domain.Cell{X: 4, Y: 4}
	path, err := pf.FindPath(start, goal, obstacles, fp)
	if err != nil {
		t.Fatal(err)
	}
	assertValidPath(t, pf, path, start, goal, obstacles, fp)
	if len(path) != 9 {
		t.Errorf("Expected 9 cells, got %d: %v", len(path), path)
	}

	// Якорь в последнем столбце выталкивает footprint за сетку.
	path, _ = pf.FindPath(start, domain.Cell{X: 5, Y: 0}, obstacles, fp)
	if len(path) != 0 {
		t.Errorf("Expected no path for an out-of-bounds footprint, got %v", path)
	}
}

func TestFindPathIsOptimalOnRandomRooms(t *testing.T) {
	pf := mustPathfinder(t, 16, 12)
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 40; round++ {
		obstacles := NewCellSet()
		for i := 0; i < 50; i++ {
			obstacles.Put(domain.Cell{X: rng.Intn(16), Y: rng.Intn(12)})
		}
		start := domain.Cell{X: rng.Intn(16), Y: rng.Intn(12)}
		goal := domain.Cell{X: rng.Intn(16), Y: rng.Intn(12)}
		obstacles.Remove(start)
		obstacles.Remove(goal)

		path, err := pf.FindPath(start, goal, obstacles, domain.DefaultFootprint)
		if err != nil {
			t.Fatal(err)
		}
		want := bfsDistance(pf, start, goal, obstacles)
		if want < 0 {
			if len(path) != 0 {
				t.Errorf("round %d: expected no path, got %v", round, path)
			}
			continue
		}
		assertValidPath(t, pf, path, start, goal, obstacles, domain.DefaultFootprint)
		if len(path) != want+1 {
			t.Errorf("round %d: path has %d steps, shortest is %d", round, len(path)-1, want)
		}
	}
}
