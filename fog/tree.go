package fog

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type childKey struct {
	parent HistoryID
	action string
}

// Tree is an arena of Histories for one Game. It owns the memoized child
// map, so each (History, action) pair is extended at most once.
//
// Tree is not safe for concurrent use.
type Tree struct {
	game     Game
	nodes    []*History
	children map[childKey]*History
}

// NewTree returns a Tree containing only the initial History of game.
func NewTree(game Game) *Tree {
	t := &Tree{
		game:     game,
		children: make(map[childKey]*History),
	}

	root := newRootHistory(0, StepRecord{
		NextState: game.InitialState(),
		Obs:       game.InitialObs(),
	})
	t.nodes = append(t.nodes, root)
	return t
}

func (t *Tree) Game() Game { return t.game }

// Root returns the initial History.
func (t *Tree) Root() *History { return t.nodes[0] }

// Len returns the number of Histories created so far.
func (t *Tree) Len() int { return len(t.nodes) }

// History returns the History with the given id.
func (t *Tree) History(id HistoryID) *History {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(errors.Wrapf(ErrUnknownHistory, "id %d (tree has %d)", id, len(t.nodes)))
	}

	return t.nodes[id]
}

// Child returns the History extending h by action, creating it if
// necessary. Applying an illegal action is a programming error and panics,
// whether or not the child already exists.
func (t *Tree) Child(h *History, action Action) *History {
	state := h.State()
	if err := ValidateAction(state, action); err != nil {
		panic(err)
	}

	key := childKey{h.id, action.String()}
	if child, ok := t.children[key]; ok {
		return child
	}

	record := t.game.Step(state, action)
	child := h.extend(HistoryID(len(t.nodes)), record)
	t.nodes = append(t.nodes, child)
	t.children[key] = child
	return child
}

// Children returns the children of h in legal action order.
func (t *Tree) Children(h *History) []*History {
	legal := h.LegalActions()
	result := make([]*History, len(legal))
	for i, a := range legal {
		result[i] = t.Child(h, a)
	}
	return result
}

// Visited is a History reached during enumeration, with its depth in
// actions from the enumeration root.
type Visited struct {
	History *History
	Depth   int
}

// Enumerate walks the tree breadth-first from roots, returning every
// reachable History exactly once. Histories at maxDepth are returned but
// not expanded. A negative maxDepth is unbounded and only terminates for
// finite games.
func (t *Tree) Enumerate(roots []*History, maxDepth int) []Visited {
	seen := make(map[HistoryID]struct{}, len(roots))
	queue := make([]Visited, 0, len(roots))
	for _, h := range roots {
		if _, ok := seen[h.id]; ok {
			continue
		}

		seen[h.id] = struct{}{}
		queue = append(queue, Visited{h, 0})
	}

	for i := 0; i < len(queue); i++ {
		v := queue[i]
		if v.History.IsTerminal() || (maxDepth >= 0 && v.Depth >= maxDepth) {
			continue
		}

		for _, child := range t.Children(v.History) {
			if _, ok := seen[child.id]; ok {
				continue
			}

			seen[child.id] = struct{}{}
			queue = append(queue, Visited{child, v.Depth + 1})
		}
	}

	glog.V(3).Infof("Enumerated %d histories from %d roots (max depth %d)",
		len(queue), len(roots), maxDepth)
	return queue
}

// AllHistories returns every History of a finite game in breadth-first order.
func (t *Tree) AllHistories() []*History {
	visited := t.Enumerate([]*History{t.Root()}, -1)
	result := make([]*History, len(visited))
	for i, v := range visited {
		result[i] = v.History
	}
	return result
}
