package uci

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/fen"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func session(t *testing.T, commands ...string) (*UCI, string) {
	t.Helper()
	var out bytes.Buffer
	u := New(&out, testr.New(t), nil)
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	require.NoError(t, u.Run(context.Background(), in))
	return u, out.String()
}

func TestHandshake(t *testing.T) {
	_, out := session(t, "uci", "isready")
	assert.Contains(t, out, "id name chesscore\n")
	assert.Contains(t, out, "option name Hash type spin default 16")
	assert.Contains(t, out, "uciok\nreadyok\n")
}

func TestPosition(t *testing.T) {
	u, _ := session(t, "position startpos moves e2e4 c7c5")
	assert.Equal(t, "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2", fen.Format(u.Position()))

	u, _ = session(t, "position fen "+kiwipete+" moves e1g1")
	assert.Equal(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R4RK1 b kq - 1 1", fen.Format(u.Position()))

	u, _ = session(t, "position fen "+kiwipete)
	assert.Equal(t, kiwipete, fen.Format(u.Position()))
}

func TestPositionRejectedKeepsPrevious(t *testing.T) {
	u, out := session(t,
		"position startpos moves e2e4",
		"position startpos moves e2e4 e7e4",
		"position fen 8/8/8/8/8/8/8/8 w - - 0 1",
		"position sideways",
	)
	assert.Equal(t, 3, strings.Count(out, "info string Invalid position"))
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", fen.Format(u.Position()))
}

func TestGoPerft(t *testing.T) {
	_, out := session(t, "go perft 2")
	assert.Contains(t, out, "e2e4: 20\n")
	assert.Contains(t, out, "g1f3: 20\n")
	assert.Equal(t, 20, strings.Count(out, ": 20\n"))
	assert.Contains(t, out, "Nodes searched: 400\n")
}

func TestGoPerftStop(t *testing.T) {
	_, out := session(t,
		"setoption name Threads value 1",
		"go perft 7",
		"stop",
		"isready",
	)
	assert.Contains(t, out, "info string perft stopped")
	assert.NotContains(t, out, "Nodes searched")
	assert.True(t, strings.HasSuffix(out, "readyok\n"))
}

func TestGoRejectsSearch(t *testing.T) {
	_, out := session(t, "go depth 5", "go perft x")
	assert.Contains(t, out, "info string Only go perft <depth> is supported")
	assert.Contains(t, out, "info string Invalid perft depth: x")
}

func TestForegroundPerft(t *testing.T) {
	_, out := session(t, "position fen "+kiwipete, "perft 2")
	assert.Contains(t, out, "Nodes: 2039\n")
}

func TestSetOption(t *testing.T) {
	u, out := session(t,
		"setoption name Hash value 0",
		"setoption name Threads value 3",
		"setoption name Threads value many",
		"setoption name Ponder value true",
	)
	assert.Equal(t, 0, u.runner.HashMB)
	assert.Equal(t, 3, u.runner.Workers)
	assert.Contains(t, out, "info string Invalid Threads value: many")
	assert.Contains(t, out, "info string Unknown option: Ponder")
}

func TestDisplay(t *testing.T) {
	_, out := session(t, "position startpos moves f2f3 e7e5 g2g4 d8h4", "d")
	assert.Contains(t, out, "Fen: rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3\n")
	assert.Contains(t, out, "Checkers: h4\n")
	assert.Contains(t, out, "Last move: d8h4\n")
}

func TestMoves(t *testing.T) {
	_, out := session(t, "moves")
	assert.Contains(t, out, "moves 20 ")
	assert.Contains(t, out, "g1f3(Nf3)")

	_, out = session(t, "position startpos moves f2f3 e7e5 g2g4 d8h4", "moves")
	assert.Contains(t, out, "info string checkmate\nmoves 0 \n")
}

func TestUnknownCommand(t *testing.T) {
	_, out := session(t, "", "xyzzy")
	assert.Equal(t, "info string Unknown command: xyzzy\n", out)
}

func TestQuitStopsReading(t *testing.T) {
	_, out := session(t, "quit", "isready")
	assert.Empty(t, out)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := New(&out, testr.New(t), nil).Run(ctx, strings.NewReader("isready\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out lockedBuffer
	errc := make(chan error, 1)
	go func() {
		errc <- New(&out, testr.New(t), nil).Run(ctx, pr)
	}()

	_, err := io.WriteString(pw, "isready\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return out.String() == "readyok\n"
	}, 5*time.Second, 10*time.Millisecond)

	// No further input arrives; cancellation alone must end Run.
	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
