package systems

import (
	"container/heap"
	"errors"
	"fmt"

	"deskmate-server/internal/domain"
	"deskmate-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

var ErrInvalidBounds = errors.New("pathfinder bounds must be positive")

// Pathfinder гоняет A* по сетке фиксированного размера. Состояния поиска
// не хранит, так что одно значение обслуживает конкурентных вызывающих.
type Pathfinder struct {
	width, height int
}

func NewPathfinder(width, height int) (*Pathfinder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, width, height)
	}
	return &Pathfinder{width: width, height: height}, nil
}

func (p *Pathfinder) Width() int  { return p.width }
func (p *Pathfinder) Height() int { return p.height }

// InBounds проверяет одну клетку.
func (p *Pathfinder) InBounds(c domain.Cell) bool {
	return c.X >= 0 && c.X < p.width && c.Y >= 0 && c.Y < p.height
}

// IsBlocked проверяет, выходит ли footprint с якорем в c за сетку или
// накрывает препятствие.
func (p *Pathfinder) IsBlocked(c domain.Cell, obstacles CellSet, fp domain.Footprint) bool {
	for dy := 0; dy < fp.Height; dy++ {
		for dx := 0; dx < fp.Width; dx++ {
			cell := domain.Cell{X: c.X + dx, Y: c.Y + dy}
			if !p.InBounds(cell) || obstacles.Has(cell) {
				return true
			}
		}
	}
	return false
}

// FindPath возвращает кратчайший 4-направленный путь от start до goal, оба
// включительно. Пустой путь означает недостижимость: это исход, а не ошибка.
// Ошибка зарезервирована для некорректного footprint.
func (p *Pathfinder) FindPath(start, goal domain.Cell, obstacles CellSet, fp domain.Footprint) ([]domain.Cell, error) {
	if err := fp.Validate(); err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "pathfinder",
		"start":     start,
		"goal":      goal,
	})

	// 1. Предусловия
	if !p.InBounds(start) || !p.InBounds(goal) {
		log.Debug("start or goal out of bounds")
		return nil, nil
	}
	if start == goal {
		return []domain.Cell{start}, nil
	}
	// 2. Быстрый отказ на занятой цели
	if p.IsBlocked(goal, obstacles, fp) {
		log.Debug("goal blocked")
		return nil, nil
	}

	// 3. Поиск
	open := &pathQueue{}
	heap.Init(open)
	openByCell := make(map[domain.Cell]*pathNode)
	closed := mapset.New[domain.Cell]()

	h := start.ManhattanTo(goal)
	root := &pathNode{cell: start, h: h, f: h}
	heap.Push(open, root)
	openByCell[start] = root

	expanded := 0
	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		delete(openByCell, current.cell)

		if current.cell == goal {
			path := reconstructPath(current)
			log.WithFields(logrus.Fields{"expanded": expanded, "length": len(path)}).Debug("path found")
			return path, nil
		}
		closed.Put(current.cell)
		expanded++

		for _, next := range current.cell.Neighbors() {
			if closed.Has(next) || p.IsBlocked(next, obstacles, fp) {
				continue
			}
			g := current.g + 1
			if node, ok := openByCell[next]; ok {
				if g < node.g {
					open.update(node, g, current)
				}
				continue
			}
			nh := next.ManhattanTo(goal)
			node := &pathNode{cell: next, g: g, h: nh, f: g + nh, parent: current}
			heap.Push(open, node)
			openByCell[next] = node
		}
	}

	log.WithField("expanded", expanded).Debug("no path")
	return nil, nil
}

func reconstructPath(node *pathNode) []domain.Cell {
	var path []domain.Cell
	for n := node; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
