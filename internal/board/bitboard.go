package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i standing for Square(i).
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101 << iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Bitboard = 0xFF << (8 * iota)
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	Empty    Bitboard = 0
	Universe          = ^Empty

	NotFileA  = ^FileA
	NotFileH  = ^FileH
	NotFileAB = ^(FileA | FileB)
	NotFileGH = ^(FileG | FileH)
)

// SquareBB returns the set holding only sq.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

func (b Bitboard) Set(sq Square) Bitboard    { return b | SquareBB(sq) }
func (b Bitboard) Clear(sq Square) Bitboard  { return b &^ SquareBB(sq) }
func (b Bitboard) Toggle(sq Square) Bitboard { return b ^ SquareBB(sq) }
func (b Bitboard) IsSet(sq Square) bool      { return b&SquareBB(sq) != 0 }

func (b Bitboard) Union(o Bitboard) Bitboard     { return b | o }
func (b Bitboard) Intersect(o Bitboard) Bitboard { return b & o }
func (b Bitboard) Complement() Bitboard          { return ^b }
func (b Bitboard) Empty() bool                   { return b == 0 }

// PopCount returns the number of squares in b.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in b, NoSquare when b is empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB returns the highest square in b, NoSquare when b is empty.
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.Len64(uint64(b)) - 1)
}

// PopLowest splits b into its lowest square and the remaining set.
// An empty b yields NoSquare and Empty.
func (b Bitboard) PopLowest() (Square, Bitboard) {
	return b.LSB(), b & (b - 1)
}

// PopLSB is the in-place form of PopLowest.
func (b *Bitboard) PopLSB() Square {
	sq, rest := b.PopLowest()
	*b = rest
	return sq
}

// Directional shifts. Bits pushed off the board are dropped, never wrapped
// onto the opposite file.
func (b Bitboard) North() Bitboard     { return b << 8 }
func (b Bitboard) South() Bitboard     { return b >> 8 }
func (b Bitboard) East() Bitboard      { return b << 1 & NotFileA }
func (b Bitboard) West() Bitboard      { return b >> 1 & NotFileH }
func (b Bitboard) NorthEast() Bitboard { return b << 9 & NotFileA }
func (b Bitboard) NorthWest() Bitboard { return b << 7 & NotFileH }
func (b Bitboard) SouthEast() Bitboard { return b >> 7 & NotFileA }
func (b Bitboard) SouthWest() Bitboard { return b >> 9 & NotFileH }

// ForEach calls f for every square in b, lowest first.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Squares lists the squares in b, lowest first.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.PopCount())
	b.ForEach(func(sq Square) { out = append(out, sq) })
	return out
}

// String draws b as an 8x8 grid with rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteString(string(rune('1'+rank)) + " ")
		row := b >> (8 * rank)
		for file := 0; file < 8; file++ {
			cell := ". "
			if row&(1<<file) != 0 {
				cell = "1 "
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
