// Command chesscore-uci serves the position and perft subset of UCI on
// stdin and stdout.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	useCache   = flag.Bool("cache", false, "reuse and store perft results in the perft database")
	verbosity  = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("uci")

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	var cache perft.Cache
	if *useCache {
		store, err := storage.OpenDefault(logger.WithName("storage"))
		if err != nil {
			logger.Error(err, "perft cache unavailable")
		} else {
			defer store.Close()
			cache = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	protocol := uci.New(os.Stdout, logger, cache)
	if err := protocol.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		logger.Error(err, "uci loop failed")
	}
}
