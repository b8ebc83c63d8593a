package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// slowSlider walks each direction square by square, stopping after the first blocker.
func slowSlider(sq Square, occupied Bitboard, dirs [4]Direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		df, dr := directionDelta[d][0], directionDelta[d][1]
		for f, r := sq.File()+df, sq.Rank()+dr; onBoard(f, r); f, r = f+df, r+dr {
			s := square(f, r)
			attacks |= SquareBB(s)
			if occupied.IsSet(s) {
				break
			}
		}
	}
	return attacks
}

func TestSliderAttacksMatchRayWalk(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		occupied := Bitboard(rng.Uint64() & rng.Uint64())
		sq := Square(rng.Intn(64))

		assert.Equal(t, slowSlider(sq, occupied, rookDirections), RookAttacks(sq, occupied), "rook %v occ %x", sq, uint64(occupied))
		assert.Equal(t, slowSlider(sq, occupied, bishopDirections), BishopAttacks(sq, occupied), "bishop %v occ %x", sq, uint64(occupied))
	}
}

func TestSliderStopsAtFirstBlockerInclusive(t *testing.T) {
	occupied := SquareBB(D4) | SquareBB(D6) | SquareBB(F4)

	attacks := RookAttacks(D4, occupied)
	assert.True(t, attacks.IsSet(D5))
	assert.True(t, attacks.IsSet(D6), "blocker square is attacked")
	assert.False(t, attacks.IsSet(D7), "no x-ray past the blocker")
	assert.True(t, attacks.IsSet(F4))
	assert.False(t, attacks.IsSet(G4))
	assert.True(t, attacks.IsSet(A4))
	assert.True(t, attacks.IsSet(D1))
	assert.False(t, attacks.IsSet(D4), "origin is never attacked")

	// Empty board rook attacks: 14 squares from anywhere
	for sq := A1; sq <= H8; sq++ {
		assert.Equal(t, 14, RookAttacks(sq, Empty).PopCount())
	}
	assert.Equal(t, 7, BishopAttacks(A1, Empty).PopCount())
	assert.Equal(t, 13, BishopAttacks(D4, Empty).PopCount())
	assert.Equal(t, 27, QueenAttacks(D4, Empty).PopCount())
}

func TestLeaperAttacks(t *testing.T) {
	assert.Equal(t, SquareBB(B3)|SquareBB(C2), KnightAttacks(A1))
	assert.Equal(t, 8, KnightAttacks(D4).PopCount())
	assert.Equal(t, 2, KnightAttacks(H8).PopCount())

	assert.Equal(t, 3, KingAttacks(A1).PopCount())
	assert.Equal(t, 8, KingAttacks(E4).PopCount())
	assert.Equal(t, 5, KingAttacks(E1).PopCount())
}

func TestPawnAttacksExcludePushes(t *testing.T) {
	assert.Equal(t, SquareBB(D3)|SquareBB(F3), PawnAttacks(E2, White))
	assert.Equal(t, SquareBB(D6)|SquareBB(F6), PawnAttacks(E7, Black))
	assert.Equal(t, SquareBB(B3), PawnAttacks(A2, White))
	assert.Equal(t, SquareBB(E3), PawnPushes(E2, White))
	assert.Equal(t, SquareBB(E6), PawnPushes(E7, Black))

	for sq := A2; sq <= H7; sq++ {
		for c := White; c <= Black; c++ {
			assert.Zero(t, PawnAttacks(sq, c)&PawnPushes(sq, c))
			assert.Equal(t, PawnAttacks(sq, c), Attacks(Pawn, c, sq, Universe))
		}
	}
}

func TestAttacksIncludeFriendlySquares(t *testing.T) {
	pos := NewPosition()
	// Rook on a1 defends the a2 pawn and the b1 knight
	attacks := Attacks(Rook, White, A1, pos.AllOccupied())
	assert.Equal(t, SquareBB(A2)|SquareBB(B1), attacks)
}

func TestBetween(t *testing.T) {
	assert.Equal(t, SquareBB(F1)|SquareBB(G1), Between(E1, H1))
	assert.Equal(t, SquareBB(B1)|SquareBB(C1)|SquareBB(D1), Between(E1, A1))
	assert.Equal(t, SquareBB(B2)|SquareBB(C3), Between(A1, D4))
	assert.Equal(t, Between(A1, D4), Between(D4, A1))
	assert.Equal(t, Empty, Between(A1, B3), "not aligned")
	assert.Equal(t, Empty, Between(E4, E5), "adjacent")
}

func TestAttackedByStartPosition(t *testing.T) {
	pos := NewPosition()
	assert.Equal(t, Rank3|Rank2|(Rank1&^(SquareBB(A1)|SquareBB(H1))), pos.AttackedBy(White))
	assert.True(t, pos.IsSquareAttacked(F3, White))
	assert.False(t, pos.IsSquareAttacked(E4, White))
}
