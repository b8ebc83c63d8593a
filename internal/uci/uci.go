// Package uci speaks the position and perft subset of the Universal Chess
// Interface protocol over a line-oriented stream.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
	"github.com/hailam/chesscore/internal/perft"
	"github.com/hailam/chesscore/internal/san"
)

// UCI implements the protocol handler. Commands are read by Run; perft
// started with "go perft" runs in the background until done or stopped.
type UCI struct {
	out    io.Writer
	outMu  sync.Mutex
	log    logr.Logger
	runner *perft.Runner

	position *board.Position
	lastMove board.Move

	// Background perft state
	cancel     context.CancelFunc
	searchDone chan struct{}
}

// New creates a protocol handler writing responses to out. cache may be nil.
func New(out io.Writer, logger logr.Logger, cache perft.Cache) *UCI {
	runner := perft.NewRunner(logger.WithName("perft"))
	runner.Cache = cache
	return &UCI{
		out:      out,
		log:      logger,
		runner:   runner,
		position: board.NewPosition(),
	}
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands from in until "quit", end of input, or ctx is done.
// At end of input a running perft is allowed to finish. Cancellation is
// noticed while waiting for input; the reader goroutine may stay blocked in
// a read on in after Run returns.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			u.handleStop()
			return err
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			u.handleStop()
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			u.wait()
			return errors.Wrap(<-readErr, "read commands")
		}

		if u.execute(ctx, line) {
			return nil
		}
	}
}

// execute runs one command line and reports whether it was "quit".
func (u *UCI) execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]
	u.log.V(2).Info("command", "line", strings.TrimSpace(line))

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.handleStop()
		u.position = board.NewPosition()
		u.lastMove = board.NoMove
	case "position":
		u.handleStop()
		u.handlePosition(args)
	case "go":
		u.handleGo(ctx, args)
	case "stop":
		u.handleStop()
	case "quit":
		u.handleStop()
		return true
	case "setoption":
		u.handleSetOption(args)
	// Debug commands
	case "d":
		u.handleDisplay()
	case "moves":
		u.handleMoves()
	case "perft":
		u.handleStop()
		u.handlePerft(ctx, args)
	default:
		u.printf("info string Unknown command: %s\n", cmd)
	}
	return false
}

func (u *UCI) printf(format string, args ...interface{}) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chesscore")
	u.println("id author chesscore authors")
	u.println("")
	u.printf("option name Hash type spin default %d min 0 max 4096\n", u.runner.HashMB)
	u.println("option name Threads type spin default 0 min 0 max 1024")
	u.println("uciok")
}

// handlePosition sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// On any error the previous position is kept.
func (u *UCI) handlePosition(args []string) {
	pos, last, err := parsePosition(args)
	if err != nil {
		u.log.V(1).Info("position rejected", "error", err.Error())
		u.printf("info string Invalid position: %v\n", err)
		return
	}
	u.position = pos
	u.lastMove = last
}

func parsePosition(args []string) (*board.Position, board.Move, error) {
	if len(args) == 0 {
		return nil, board.NoMove, errors.New("missing startpos or fen")
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = fen.Parse(strings.Join(args[1:movesAt], " "))
		if err != nil {
			return nil, board.NoMove, err
		}
	default:
		return nil, board.NoMove, errors.Errorf("unknown position kind %q", args[0])
	}

	last := board.NoMove
	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			m, err := board.ParseMove(s, pos)
			if err != nil {
				return nil, board.NoMove, err
			}
			pos.MakeMove(m)
			last = m
		}
	}
	return pos, last, nil
}

// handleGo starts "go perft <depth>" in the background. Searching is not
// supported.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	if len(args) < 2 || args[0] != "perft" {
		u.println("info string Only go perft <depth> is supported")
		return
	}
	depth, err := strconv.Atoi(args[1])
	if err != nil || depth < 1 {
		u.printf("info string Invalid perft depth: %s\n", args[1])
		return
	}

	u.handleStop()

	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.searchDone = make(chan struct{})

	pos := u.position.Copy()
	runner := *u.runner

	go func() {
		defer close(u.searchDone)
		defer cancel()

		res, err := runner.Run(ctx, pos, depth)
		if err != nil {
			u.printf("info string perft stopped: %v\n", err)
			return
		}

		// Divide lines in the usual "move: nodes" form.
		u.outMu.Lock()
		defer u.outMu.Unlock()
		for _, e := range res.Divide {
			fmt.Fprintf(u.out, "%s: %d\n", e.UCI, e.Nodes)
		}
		fmt.Fprintf(u.out, "\nNodes searched: %d\n\n", res.Nodes)
	}()
}

// handleStop cancels a running perft and waits for it.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.searchDone = nil
		u.cancel = nil
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	v, err := strconv.Atoi(strings.Join(value, " "))
	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		if err != nil || v < 0 {
			u.printf("info string Invalid Hash value: %s\n", strings.Join(value, " "))
			return
		}
		u.runner.HashMB = v
	case "threads":
		if err != nil || v < 0 {
			u.printf("info string Invalid Threads value: %s\n", strings.Join(value, " "))
			return
		}
		u.runner.Workers = v
	default:
		u.printf("info string Unknown option: %s\n", strings.Join(name, " "))
	}
}

// handleDisplay prints the board, FEN and checkers.
func (u *UCI) handleDisplay() {
	p := u.position
	var checkers []string
	p.Checkers().ForEach(func(sq board.Square) {
		checkers = append(checkers, sq.String())
	})

	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprint(u.out, p.String())
	fmt.Fprintf(u.out, "\nFen: %s\n", fen.Format(p))
	fmt.Fprintf(u.out, "Checkers: %s\n", strings.Join(checkers, " "))
	if u.lastMove != board.NoMove {
		fmt.Fprintf(u.out, "Last move: %s\n", u.lastMove)
	}
}

// handleMoves lists the legal moves in UCI and SAN.
func (u *UCI) handleMoves() {
	moves := u.position.GenerateLegalMoves().Slice()
	parts := make([]string, 0, len(moves))
	for _, m := range moves {
		parts = append(parts, m.String()+"("+san.Format(u.position, m)+")")
	}

	switch {
	case u.position.IsCheckmate():
		u.println("info string checkmate")
	case u.position.IsStalemate():
		u.println("info string stalemate")
	}
	u.printf("moves %d %s\n", len(moves), strings.Join(parts, " "))
}

// handlePerft runs a perft test in the foreground.
func (u *UCI) handlePerft(ctx context.Context, args []string) {
	depth := 5
	if len(args) > 0 {
		var err error
		if depth, err = strconv.Atoi(args[0]); err != nil {
			u.printf("info string Invalid perft depth: %s\n", args[0])
			return
		}
	}

	res, err := u.runner.Run(ctx, u.position, depth)
	if err != nil {
		u.printf("info string perft failed: %v\n", err)
		return
	}

	u.printf("Nodes: %d\n", res.Nodes)
	u.printf("Time: %v\n", res.Elapsed)
	if nps := res.NPS(); nps > 0 {
		u.printf("NPS: %.0f\n", nps)
	}
}
