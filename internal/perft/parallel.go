package perft

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// worker counts the subtrees of the root moves handed to it.
// Each worker owns its position copy; the table is shared.
type worker struct {
	pos   *board.Position
	table *Table
}

func newWorker(pos *board.Position, table *Table) *worker {
	return &worker{pos: pos.Copy(), table: table}
}

// search counts the nodes below root move m.
func (w *worker) search(m board.Move, depth int) uint64 {
	undo := w.pos.MakeMove(m)
	n := count(w.pos, depth-1, w.table)
	w.pos.UnmakeMove(m, undo)
	return n
}

// Parallel counts the leaf nodes depth plies below pos, spreading the root
// moves over workers goroutines (GOMAXPROCS when workers < 1). table may be
// nil. Cancellation is checked before each root move; on cancellation the
// context error is returned.
func Parallel(ctx context.Context, pos *board.Position, depth, workers int, table *Table) ([]Entry, error) {
	if depth < 1 {
		return nil, nil
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	moves := pos.GenerateLegalMoves().Slice()
	entries := make([]Entry, len(moves))
	for i, m := range moves {
		entries[i] = Entry{Move: m, UCI: m.String()}
	}

	var next atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for n := 0; n < workers && n < len(moves); n++ {
		w := newWorker(pos, table)
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := int(next.Add(1) - 1)
				if i >= len(entries) {
					return nil
				}
				entries[i].Nodes = w.search(entries[i].Move, depth)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortEntries(entries)
	return entries, nil
}
