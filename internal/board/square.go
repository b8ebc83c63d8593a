// Package board implements the chess rules core: bitboards, attack tables,
// legal move generation and make/unmake on a Position.
package board

import "github.com/pkg/errors"

// Square indexes the board little-endian rank-file: a1 is 0, h1 is 7 and
// h8 is 63.
type Square uint8

const (
	A1, B1, C1, D1, E1, F1, G1, H1 Square = 8*iota + 0, 8*iota + 1, 8*iota + 2, 8*iota + 3, 8*iota + 4, 8*iota + 5, 8*iota + 6, 8*iota + 7
	A2, B2, C2, D2, E2, F2, G2, H2
	A3, B3, C3, D3, E3, F3, G3, H3
	A4, B4, C4, D4, E4, F4, G4, H4
	A5, B5, C5, D5, E5, F5, G5, H5
	A6, B6, C6, D6, E6, F6, G6, H6
	A7, B7, C7, D7, E7, F7, G7, H7
	A8, B8, C8, D8, E8, F8, G8, H8
)

// NoSquare is the off-board sentinel, used for an absent en passant target.
const NoSquare Square = 64

func (sq Square) File() int { return int(sq % 8) }
func (sq Square) Rank() int { return int(sq / 8) }

// IsValid reports whether sq is on the board.
func (sq Square) IsValid() bool { return sq < NoSquare }

// RelativeRank counts ranks from c's own back rank.
func (sq Square) RelativeRank(c Color) int {
	if c == Black {
		return 7 - sq.Rank()
	}
	return sq.Rank()
}

// String renders sq in algebraic form, "-" for NoSquare.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return string([]byte{"abcdefgh"[sq.File()], "12345678"[sq.Rank()]})
}

func square(file, rank int) Square {
	return Square(rank<<3 | file)
}

func onBoard(file, rank int) bool {
	return uint(file) < 8 && uint(rank) < 8
}

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) (Square, error) {
	if !onBoard(file, rank) {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "file %d rank %d", file, rank)
	}
	return square(file, rank), nil
}

// SquareFromIndex checks that i is in 0..63.
func SquareFromIndex(i int) (Square, error) {
	if uint(i) >= uint(NoSquare) {
		return NoSquare, errors.Wrapf(ErrInvalidSquare, "index %d out of range", i)
	}
	return Square(i), nil
}

// ParseSquare reads algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) == 2 {
		if file, rank := int(s[0])-'a', int(s[1])-'1'; onBoard(file, rank) {
			return square(file, rank), nil
		}
	}
	return NoSquare, errors.Wrapf(ErrInvalidSquare, "%q", s)
}
