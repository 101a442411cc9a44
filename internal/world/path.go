package world

import "container/heap"

// Passable reports whether a coordinate may be entered.
type Passable func(x, y int) bool

// NeighborFunc yields the candidate neighbors of a coordinate.
type NeighborFunc func(x, y int) []Coord

// StepCost prices a move between two adjacent coordinates.
type StepCost func(from, to Coord) int

// Pathfinder runs A* over a grid using a pluggable passability predicate
// and neighbor generator. The zero cost function is uniform: every step
// costs 1, which keeps the Manhattan heuristic exact as well as admissible.
type Pathfinder struct {
	passable  Passable
	neighbors NeighborFunc
	cost      StepCost
}

// NewPathfinder creates a pathfinder over the given predicates.
func NewPathfinder(passable Passable, neighbors NeighborFunc) *Pathfinder {
	return &Pathfinder{
		passable:  passable,
		neighbors: neighbors,
	}
}

// SetCost replaces the uniform step cost. Costs below 1 are clamped to 1
// so the Manhattan heuristic never overestimates.
func (p *Pathfinder) SetCost(cost StepCost) {
	p.cost = cost
}

// FindPath returns the cheapest route from start to goal, both inclusive,
// or an empty path when no route exists. Searching expands 4-directional
// neighbors only; equal-cost frontier nodes pop in insertion order, so the
// chosen path is deterministic for a fixed grid. A start or goal that is
// out of bounds or blocked yields an empty path, and start == goal yields
// the single-element path.
func (p *Pathfinder) FindPath(start, goal Coord) []Coord {
	if !p.passable(start.X, start.Y) || !p.passable(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []Coord{start}
	}

	frontier := &nodeQueue{}
	heap.Init(frontier)

	seq := 0
	push := func(n *pathNode) {
		n.seq = seq
		seq++
		heap.Push(frontier, n)
	}

	bestG := map[Coord]int{start: 0}
	done := map[Coord]bool{}

	push(&pathNode{coord: start, f: start.Manhattan(goal)})

	for frontier.Len() > 0 {
		current := heap.Pop(frontier).(*pathNode)
		if done[current.coord] {
			// Stale duplicate left behind by a cheaper rediscovery
			continue
		}
		done[current.coord] = true

		if current.coord == goal {
			return unwind(current)
		}

		for _, next := range p.neighbors(current.coord.X, current.coord.Y) {
			if done[next] || !p.passable(next.X, next.Y) {
				continue
			}
			g := current.g + p.stepCost(current.coord, next)
			if known, seen := bestG[next]; seen && g >= known {
				continue
			}
			bestG[next] = g
			push(&pathNode{
				coord:  next,
				g:      g,
				f:      g + next.Manhattan(goal),
				parent: current,
			})
		}
	}

	return nil
}

func (p *Pathfinder) stepCost(from, to Coord) int {
	if p.cost == nil {
		return 1
	}
	if c := p.cost(from, to); c > 1 {
		return c
	}
	return 1
}

// unwind walks parent links back to the start and reverses them.
func unwind(n *pathNode) []Coord {
	var path []Coord
	for ; n != nil; n = n.parent {
		path = append(path, n.coord)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathNode struct {
	coord  Coord
	g      int
	f      int
	seq    int
	parent *pathNode
}

// nodeQueue is a min-heap over f, breaking ties by insertion order.
type nodeQueue []*pathNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*pathNode)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}
