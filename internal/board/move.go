package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Move encodes one ply in 23 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-14: moving piece type
// bits 15-17: captured piece type (NoPieceType if none)
// bits 18-20: promotion piece type (NoPieceType if none)
// bits 21-22: flags (0=normal, 1=double push, 2=en passant, 3=castling)
type Move uint32

// Move flags
const (
	FlagNormal     uint32 = 0 << 21
	FlagDoublePush uint32 = 1 << 21
	FlagEnPassant  uint32 = 2 << 21
	FlagCastling   uint32 = 3 << 21
)

const flagMask uint32 = 3 << 21

// NoMove represents an invalid or null move.
const NoMove Move = 0

func newMove(from, to Square, pt, captured, promo PieceType, flag uint32) Move {
	return Move(from) | Move(to)<<6 | Move(pt)<<12 | Move(captured)<<15 | Move(promo)<<18 | Move(flag)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Piece returns the type of the moving piece.
func (m Move) Piece() PieceType {
	return PieceType((m >> 12) & 7)
}

// Captured returns the type of the captured piece, NoPieceType for non-captures.
func (m Move) Captured() PieceType {
	return PieceType((m >> 15) & 7)
}

// Promotion returns the promotion piece type, NoPieceType for non-promotions.
func (m Move) Promotion() PieceType {
	return PieceType((m >> 18) & 7)
}

// Flag returns the move flag.
func (m Move) Flag() uint32 {
	return uint32(m) & flagMask
}

// IsCapture returns true if this move captures a piece (en passant included).
func (m Move) IsCapture() bool {
	return m.Captured() != NoPieceType
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPieceType
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePush returns true if this is a two-square pawn advance.
func (m Move) IsDoublePush() bool {
	return m.Flag() == FlagDoublePush
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}

	return s
}

// ParseMove resolves a UCI format move string against the legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, errors.Wrapf(ErrIllegalMove, "malformed move %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, errors.Wrapf(ErrIllegalMove, "invalid promotion piece %q", s[4])
		}
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NoMove, errors.Wrapf(ErrIllegalMove, "%s", s)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice. The slice aliases the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores the state a move overwrites, for UnmakeMove.
type UndoInfo struct {
	State State
	Hash  uint64
}
