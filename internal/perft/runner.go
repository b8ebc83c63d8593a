package perft

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
)

// Result is a finished perft run.
type Result struct {
	FEN        string        `json:"fen"`
	Depth      int           `json:"depth"`
	Nodes      uint64        `json:"nodes"`
	Elapsed    time.Duration `json:"elapsed"`
	ComputedAt time.Time     `json:"computed_at"`
	Divide     []Entry       `json:"-"`
	Cached     bool          `json:"-"`
}

// NPS returns nodes per second, 0 for cached or instant results.
func (r Result) NPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// Cache persists results between runs, keyed by FEN and depth.
type Cache interface {
	Get(fen string, depth int) (Result, bool, error)
	Put(r Result) error
}

// Runner runs perft with optional parallelism, subtree hashing and a
// persistent result cache.
type Runner struct {
	Workers int   // 0 means GOMAXPROCS
	HashMB  int   // subtree table size, 0 disables it
	Cache   Cache // may be nil
	Logger  logr.Logger
}

// NewRunner returns a Runner logging to logger with a 16 MB subtree table.
func NewRunner(logger logr.Logger) *Runner {
	return &Runner{HashMB: 16, Logger: logger}
}

// Run counts the leaf nodes depth plies below pos. A cache hit skips the
// count and returns a result without a divide.
func (r *Runner) Run(ctx context.Context, pos *board.Position, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, errors.Errorf("perft depth %d, want at least 1", depth)
	}

	key := fen.Format(pos)
	log := r.Logger.WithValues("fen", key, "depth", depth)

	if r.Cache != nil {
		res, ok, err := r.Cache.Get(key, depth)
		if err != nil {
			log.Error(err, "cache lookup failed, counting instead")
		} else if ok {
			log.V(1).Info("cache hit", "nodes", res.Nodes)
			res.Cached = true
			return res, nil
		}
	}

	var table *Table
	if r.HashMB > 0 {
		table = NewTable(r.HashMB)
	}

	start := time.Now()
	entries, err := Parallel(ctx, pos, depth, r.Workers, table)
	if err != nil {
		return Result{}, errors.Wrap(err, "perft")
	}

	res := Result{
		FEN:        key,
		Depth:      depth,
		Nodes:      Total(entries),
		Elapsed:    time.Since(start),
		ComputedAt: time.Now().UTC(),
		Divide:     entries,
	}
	log.V(1).Info("counted", "nodes", res.Nodes, "elapsed", res.Elapsed, "moves", len(entries))
	if table != nil {
		log.V(2).Info("subtree table", "entries", table.Size(), "hitRate", table.HitRate())
	}

	if r.Cache != nil {
		if err := r.Cache.Put(res); err != nil {
			log.Error(err, "cache store failed")
		}
	}
	return res, nil
}
