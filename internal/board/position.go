package board

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CastlingRights represents the available castling options as four independent flags.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr&AllCastling == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// Has reports whether every flag in f is set.
func (cr CastlingRights) Has(f CastlingRights) bool {
	return cr&f == f
}

// castlingMask[sq] holds the rights that survive a move touching sq.
var castlingMask [64]CastlingRights

func init() {
	for sq := range castlingMask {
		castlingMask[sq] = AllCastling
	}
	castlingMask[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castlingMask[H1] &^= WhiteKingSideCastle
	castlingMask[A1] &^= WhiteQueenSideCastle
	castlingMask[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	castlingMask[H8] &^= BlackKingSideCastle
	castlingMask[A8] &^= BlackQueenSideCastle
}

// State is the non-placement part of a position.
type State struct {
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1, incremented after Black moves
}

// Position represents a complete chess position.
//
// Positions are built by NewPosition or NewPositionFromSetup and changed only
// by MakeMove and UnmakeMove. A Position must not be shared between goroutines
// while one of them mutates it; use Copy to hand out independent positions.
type Position struct {
	// Piece bitboards: [Color][PieceType], pairwise disjoint.
	pieces [2][6]Bitboard

	state State

	// Zobrist hash, kept equal to ComputeHash by make/unmake.
	hash uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, err := NewPositionFromSetup(StartSetup())
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Pieces returns the bitboard of pieces of the given color and type.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard {
	return p.pieces[c][pt]
}

// Occupied returns all squares occupied by pieces of color c.
func (p *Position) Occupied(c Color) Bitboard {
	b := p.pieces[c]
	return b[Pawn] | b[Knight] | b[Bishop] | b[Rook] | b[Queen] | b[King]
}

// AllOccupied returns all occupied squares.
func (p *Position) AllOccupied() Bitboard {
	return p.Occupied(White) | p.Occupied(Black)
}

// State returns a copy of the position's state record.
func (p *Position) State() State {
	return p.state
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.state.SideToMove
}

// CastlingRights returns the remaining castling rights.
func (p *Position) CastlingRights() CastlingRights {
	return p.state.Castling
}

// EnPassant returns the en passant target square and whether one is set.
func (p *Position) EnPassant() (Square, bool) {
	return p.state.EnPassant, p.state.EnPassant != NoSquare
}

// HalfMoveClock returns the number of plies since the last pawn move or capture.
func (p *Position) HalfMoveClock() int {
	return p.state.HalfMoveClock
}

// FullMoveNumber returns the full move counter.
func (p *Position) FullMoveNumber() int {
	return p.state.FullMoveNumber
}

// Hash returns the Zobrist hash of the position.
func (p *Position) Hash() uint64 {
	return p.hash
}

// KingSquare returns the square of the king of color c, or NoSquare if absent.
func (p *Position) KingSquare(c Color) Square {
	return p.pieces[c][King].LSB()
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if p.pieces[c][pt]&bb != 0 {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// addPiece places a piece on an empty square.
func (p *Position) addPiece(c Color, pt PieceType, sq Square) {
	p.pieces[c][pt] |= SquareBB(sq)
	p.hash ^= zobristPiece[c][pt][sq]
}

// removePiece removes a piece known to stand on sq.
func (p *Position) removePiece(c Color, pt PieceType, sq Square) {
	p.pieces[c][pt] &^= SquareBB(sq)
	p.hash ^= zobristPiece[c][pt][sq]
}

// movePiece moves a piece known to stand on from to the empty square to.
func (p *Position) movePiece(c Color, pt PieceType, from, to Square) {
	p.pieces[c][pt] ^= SquareBB(from) | SquareBB(to)
	p.hash ^= zobristPiece[c][pt][from] ^ zobristPiece[c][pt][to]
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.state.SideToMove
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return Empty
	}
	return p.AttackersByColor(ksq, us.Other(), p.AllOccupied())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}

// kingAttacked reports whether the king of color c is attacked.
func (p *Position) kingAttacked(c Color) bool {
	ksq := p.KingSquare(c)
	return ksq != NoSquare && p.IsSquareAttacked(ksq, c.Other())
}

// CheckInvariants verifies that the piece bitboards are pairwise disjoint.
// Occupancy views are derived, so disjointness is the only stored-state invariant.
func (p *Position) CheckInvariants() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.pieces[c][pt]
			if overlap := seen & bb; overlap != 0 {
				return errors.Wrapf(ErrInvalidPositionState, "%v %v overlaps another piece on %v", c, pt, overlap.LSB())
			}
			seen |= bb
		}
	}
	if p.hash != p.ComputeHash() {
		return errors.Wrapf(ErrInvalidPositionState, "hash %016x does not match recomputed %016x", p.hash, p.ComputeHash())
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(square(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.state.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.state.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.state.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.state.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.state.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.hash)
	return sb.String()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.pieces[White][Pawn]|p.pieces[Black][Pawn] != 0 ||
		p.pieces[White][Rook]|p.pieces[Black][Rook] != 0 ||
		p.pieces[White][Queen]|p.pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := p.pieces[White][Knight].PopCount() + p.pieces[White][Bishop].PopCount()
	bMinors := p.pieces[Black][Knight].PopCount() + p.pieces[Black][Bishop].PopCount()

	// K vs K, K+minor vs K
	return wMinors+bMinors <= 1
}
