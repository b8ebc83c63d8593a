// Command perft counts move tree leaf nodes for a position.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/fen"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/san"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	fenFlag    = flag.String("fen", fen.StartFEN, "FEN of the root position")
	depth      = flag.Int("depth", 0, "perft depth (required unless -list)")
	divide     = flag.Bool("divide", false, "print per-move node counts at the root")
	workers    = flag.Int("workers", 0, "parallel workers, 0 for GOMAXPROCS")
	hashMB     = flag.Int("hash", 16, "subtree table size in MB, 0 to disable")
	useCache   = flag.Bool("cache", false, "reuse and store results in the perft database")
	list       = flag.Bool("list", false, "print every stored result and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

var errUsage = errors.New("usage")

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("perft")

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "perft:", err)
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	if *list {
		return listResults(logger)
	}
	if *depth <= 0 {
		return errors.Wrap(errUsage, "-depth must be > 0")
	}

	pos, err := fen.Parse(*fenFlag)
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return errors.Wrap(err, "create cpu profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errors.Wrap(err, "start cpu profile")
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	runner := perft.NewRunner(logger)
	runner.Workers = *workers
	runner.HashMB = *hashMB

	// Cached results carry no divide.
	if *useCache && !*divide {
		store, err := storage.OpenDefault(logger.WithName("storage"))
		if err != nil {
			return err
		}
		defer store.Close()
		runner.Cache = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runner.Run(ctx, pos, *depth)
	if err != nil {
		return err
	}

	if *divide {
		for _, e := range res.Divide {
			fmt.Printf("%s %-7s %d\n", e.UCI, san.Format(pos, e.Move), e.Nodes)
		}
		fmt.Println()
	}

	fmt.Printf("Depth: %d\nNodes: %d\n", res.Depth, res.Nodes)
	if res.Cached {
		fmt.Printf("Cached: computed %s\n", res.ComputedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Printf("Time:  %s\nNPS:   %.0f\n", res.Elapsed, res.NPS())
	}
	return nil
}

func listResults(logger logr.Logger) error {
	store, err := storage.OpenDefault(logger.WithName("storage"))
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Each(func(r perft.Result) error {
		_, err := fmt.Printf("%d\t%d\t%s\t%s\n", r.Depth, r.Nodes, r.Elapsed, r.FEN)
		return err
	})
}
