package board_test

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
)

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king h8 boxed in by its own pawns
	pos := fen.MustParse("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	if !pos.InCheck() {
		t.Fatal("expected black to be in check")
	}
	if n := pos.GenerateLegalMoves().Len(); n != 0 {
		t.Errorf("legal moves = %d, want 0", n)
	}
	if !pos.IsCheckmate() {
		t.Error("expected checkmate")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can take the unprotected rook on g8
	pos := fen.MustParse("6Rk/8/8/8/8/8/8/K7 b - - 0 1")

	if !pos.InCheck() {
		t.Fatal("expected black to be in check")
	}
	if pos.IsCheckmate() {
		t.Error("expected NOT checkmate")
	}
	if _, err := board.ParseMove("h8g8", pos); err != nil {
		t.Errorf("h8g8 should be legal: %v", err)
	}
}

func TestFoolsMate(t *testing.T) {
	pos := board.NewPosition()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := board.ParseMove(s, pos)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if pos, err = pos.Apply(m); err != nil {
			t.Fatalf("apply %s: %v", s, err)
		}
	}
	if !pos.IsCheckmate() {
		t.Errorf("expected checkmate after fool's mate:\n%v", pos)
	}
}

func TestSmotheredMate(t *testing.T) {
	pos := fen.MustParse("6rk/5Npp/8/8/8/8/8/K7 b - - 0 1")
	if !pos.IsCheckmate() {
		t.Errorf("expected smothered mate:\n%v", pos)
	}
}

func TestStalemate(t *testing.T) {
	pos := fen.MustParse("7k/5Q2/8/8/8/8/8/K7 b - - 0 1")

	if pos.InCheck() {
		t.Fatal("stalemated side should not be in check")
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate reported as checkmate")
	}
}
