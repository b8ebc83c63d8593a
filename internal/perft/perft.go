// Package perft counts the leaf nodes of the legal move tree, the standard
// check of move generator correctness.
package perft

import (
	"sort"

	"github.com/hailam/chesscore/internal/board"
)

// Entry is the node count below one root move.
type Entry struct {
	Move  board.Move
	UCI   string
	Nodes uint64
}

// Count returns the number of leaf nodes depth plies below pos.
// pos is left unchanged.
func Count(pos *board.Position, depth int) uint64 {
	return count(pos.Copy(), depth, nil)
}

// CountHashed is Count with subtree results shared through t.
func CountHashed(pos *board.Position, depth int, t *Table) uint64 {
	return count(pos.Copy(), depth, t)
}

func count(p *board.Position, depth int, t *Table) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	if t != nil {
		if n, ok := t.Probe(p.Hash(), depth); ok {
			return n
		}
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += count(p, depth-1, t)
		p.UnmakeMove(m, undo)
	}

	if t != nil {
		t.Store(p.Hash(), depth, nodes)
	}
	return nodes
}

// Divide returns the node count below each root move, sorted by UCI string.
func Divide(pos *board.Position, depth int) []Entry {
	if depth < 1 {
		return nil
	}
	p := pos.Copy()
	moves := p.GenerateLegalMoves()
	out := make([]Entry, 0, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		out = append(out, Entry{Move: m, UCI: m.String(), Nodes: count(p, depth-1, nil)})
		p.UnmakeMove(m, undo)
	}
	sortEntries(out)
	return out
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].UCI < entries[j].UCI })
}

// Total sums the node counts of a divide.
func Total(entries []Entry) uint64 {
	var n uint64
	for _, e := range entries {
		n += e.Nodes
	}
	return n
}
