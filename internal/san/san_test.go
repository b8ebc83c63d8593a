package san

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
)

func uci(t *testing.T, pos *board.Position, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s, pos)
	require.NoError(t, err)
	return m
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name, fen, move, want string
	}{
		{"pawn push", fen.StartFEN, "e2e4", "e4"},
		{"knight", fen.StartFEN, "g1f3", "Nf3"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", "exd5"},
		{"en passant", "4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 1", "d5e6", "dxe6"},
		{"king side castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", "O-O"},
		{"queen side castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "O-O-O"},
		{"promotion", "8/P3k3/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", "a8=Q"},
		{"promotion with check", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8r", "a8=R+"},
		{"capture promotion", "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8n", "axb8=N"},
		{"file disambiguation", "4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1", "b1d2", "Nbd2"},
		{"rank disambiguation", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "a1a3", "R1a3"},
		{"square disambiguation", "k7/8/8/8/8/2Q1Q3/8/2Q1K3 w - - 0 1", "c3d2", "Qc3d2"},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8+"},
		{"mate", "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", "Ra8#"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := fen.MustParse(tc.fen)
			assert.Equal(t, tc.want, Format(pos, uci(t, pos, tc.move)))
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, f := range []string{
		fen.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"k7/8/8/8/8/2Q1Q3/8/2Q1K3 w - - 0 1",
	} {
		pos := fen.MustParse(f)
		for _, m := range pos.GenerateLegalMoves().Slice() {
			s := Format(pos, m)
			got, err := Parse(s, pos)
			require.NoError(t, err, "%s in %s", s, f)
			assert.Equal(t, m, got, "%s in %s", s, f)
		}
	}
}

func TestParseAcceptsVariants(t *testing.T) {
	pos := fen.MustParse("4k2r/P7/8/8/8/8/8/R3K2R w KQk - 0 1")
	for s, want := range map[string]string{
		"0-0":     "e1g1",
		"O-O-O+":  "e1c1",
		"a8Q":     "a7a8q",
		"a8=N!":   "a7a8n",
		"Rh1h7":   "h1h7",
		"Kf1?":    "e1f1",
		" Rxh8 ":  "h1h8",
		"axb8=Q":  "",
		"Rb1":     "a1b1",
		"Rhxh8+":  "h1h8",
	} {
		m, err := Parse(s, pos)
		if want == "" {
			assert.ErrorIs(t, err, board.ErrIllegalMove, s)
			continue
		}
		require.NoError(t, err, s)
		assert.Equal(t, want, m.String(), s)
	}
}

func TestParseRejects(t *testing.T) {
	pos := fen.MustParse("4k3/8/8/8/8/8/8/1N2KN2 w - - 0 1")

	_, err := Parse("Nd2", pos)
	assert.ErrorIs(t, err, board.ErrIllegalMove, "ambiguous")

	for _, s := range []string{"", "N", "Nd5", "O-O", "e4", "Nzd2"} {
		_, err := Parse(s, pos)
		assert.ErrorIs(t, err, board.ErrIllegalMove, "%q", s)
	}

	_, err = Parse("Ni9", pos)
	assert.ErrorIs(t, err, board.ErrInvalidSquare)
}

func TestFormatLine(t *testing.T) {
	pos := board.NewPosition()
	var moves []board.Move
	p := pos
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m := uci(t, p, s)
		moves = append(moves, m)
		var err error
		p, err = p.Apply(m)
		require.NoError(t, err)
	}

	line, err := FormatLine(pos, moves)
	require.NoError(t, err)
	assert.Equal(t, []string{"f3", "e5", "g4", "Qh4#"}, line)

	// The second move is played twice: illegal the second time round
	line, err = FormatLine(pos, []board.Move{moves[0], moves[1], moves[1]})
	assert.ErrorIs(t, err, board.ErrIllegalMove)
	assert.Equal(t, []string{"f3", "e5"}, line)
}

// TestParseNotnilSAN resolves every move written by notnil/chess.
func TestParseNotnilSAN(t *testing.T) {
	for _, f := range []string{
		fen.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	} {
		opt, err := chess.FEN(f)
		require.NoError(t, err)
		root := chess.NewGame(opt).Position()
		pos := fen.MustParse(f)

		for _, m := range root.ValidMoves() {
			s := chess.AlgebraicNotation{}.Encode(root, m)
			got, err := Parse(s, pos)
			require.NoError(t, err, "%s in %s", s, f)
			assert.Equal(t, chess.UCINotation{}.Encode(root, m), got.String(), "%s in %s", s, f)
		}
	}
}
