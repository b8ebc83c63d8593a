package board

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Setup is an unvalidated description of a position, as produced by a
// position parser. NewPositionFromSetup turns it into a Position.
type Setup struct {
	Pieces         [2][6]Bitboard
	SideToMove     Color
	Castling       CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int
}

// EmptySetup returns a setup with no pieces, White to move and no rights.
func EmptySetup() Setup {
	return Setup{
		SideToMove:     White,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// StartSetup returns the setup of the standard starting position.
func StartSetup() Setup {
	s := EmptySetup()
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, pt := range back {
		s.Place(NewPiece(pt, White), square(file, 0))
		s.Place(NewPiece(Pawn, White), square(file, 1))
		s.Place(NewPiece(Pawn, Black), square(file, 6))
		s.Place(NewPiece(pt, Black), square(file, 7))
	}
	s.Castling = AllCastling
	return s
}

// Place sets a piece on sq. It does not clear other pieces from the square;
// overlaps are reported by NewPositionFromSetup.
func (s *Setup) Place(p Piece, sq Square) {
	if p >= NoPiece || !sq.IsValid() {
		return
	}
	s.Pieces[p.Color()][p.Type()] |= SquareBB(sq)
}

// castling rights and the king/rook squares they need
var castlingHomes = []struct {
	right      CastlingRights
	color      Color
	king, rook Square
}{
	{WhiteKingSideCastle, White, E1, H1},
	{WhiteQueenSideCastle, White, E1, A1},
	{BlackKingSideCastle, Black, E8, H8},
	{BlackQueenSideCastle, Black, E8, A8},
}

// promotedPieces returns how many pieces exceed the starting complement,
// the minimum number of promotions needed to reach the placement.
func promotedPieces(pieces [6]Bitboard) int {
	extra := 0
	for _, pt := range [...]PieceType{Knight, Bishop, Rook, Queen} {
		extra += max(0, pieces[pt].PopCount()-startingCount[pt])
	}
	return extra
}

var startingCount = [6]int{Pawn: 8, Knight: 2, Bishop: 2, Rook: 2, Queen: 1, King: 1}

// NewPositionFromSetup validates s and returns the position it describes.
// Every violation found is reported; each one wraps ErrInvalidPositionState.
func NewPositionFromSetup(s Setup) (*Position, error) {
	var errs *multierror.Error
	invalid := func(format string, args ...interface{}) {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidPositionState, format, args...))
	}

	if !s.SideToMove.Valid() {
		invalid("side to move %d", s.SideToMove)
	}

	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := s.Pieces[c][pt]
			if overlap := seen & bb; overlap != 0 {
				invalid("%v %v placed on occupied square %v", c, pt, overlap.LSB())
			}
			seen |= bb
		}
	}

	for c := White; c <= Black; c++ {
		if n := s.Pieces[c][King].PopCount(); n != 1 {
			invalid("%v has %d kings, want 1", c, n)
		}
		if n := s.Pieces[c][Pawn].PopCount(); n > 8 {
			invalid("%v has %d pawns", c, n)
		}
		var all Bitboard
		for pt := Pawn; pt <= King; pt++ {
			all |= s.Pieces[c][pt]
		}
		if n := all.PopCount(); n > 16 {
			invalid("%v has %d pieces", c, n)
		}
		if extra := promotedPieces(s.Pieces[c]); extra > 8-s.Pieces[c][Pawn].PopCount() {
			invalid("%v has %d promoted pieces with %d pawns", c, extra, s.Pieces[c][Pawn].PopCount())
		}
		if s.Pieces[c][Pawn]&(Rank1|Rank8) != 0 {
			invalid("%v pawn on %v", c, (s.Pieces[c][Pawn] & (Rank1 | Rank8)).LSB())
		}
	}

	if s.Castling&^AllCastling != 0 {
		invalid("castling rights %#x", uint8(s.Castling))
	}
	for _, h := range castlingHomes {
		if !s.Castling.Has(h.right) {
			continue
		}
		if !s.Pieces[h.color][King].IsSet(h.king) || !s.Pieces[h.color][Rook].IsSet(h.rook) {
			invalid("castling right %v without king on %v and rook on %v", h.right, h.king, h.rook)
		}
	}

	if s.EnPassant != NoSquare {
		validateEnPassant(s, invalid)
	}

	if s.HalfMoveClock < 0 {
		invalid("half-move clock %d", s.HalfMoveClock)
	}
	if s.FullMoveNumber < 1 {
		invalid("full-move number %d", s.FullMoveNumber)
	}

	if errs != nil {
		return nil, errs.ErrorOrNil()
	}

	pos := &Position{
		pieces: s.Pieces,
		state: State{
			SideToMove:     s.SideToMove,
			Castling:       s.Castling,
			EnPassant:      s.EnPassant,
			HalfMoveClock:  s.HalfMoveClock,
			FullMoveNumber: s.FullMoveNumber,
		},
	}
	pos.hash = pos.ComputeHash()

	if pos.kingAttacked(s.SideToMove.Other()) {
		invalid("%v is in check with %v to move", s.SideToMove.Other(), s.SideToMove)
		return nil, errs.ErrorOrNil()
	}

	return pos, nil
}

// validateEnPassant checks that the target sits behind a pawn that could
// have just made a double push.
func validateEnPassant(s Setup, invalid func(string, ...interface{})) {
	ep := s.EnPassant
	if !ep.IsValid() {
		invalid("en passant square %d", ep)
		return
	}
	if !s.SideToMove.Valid() {
		return
	}
	them := s.SideToMove.Other()
	if ep.RelativeRank(s.SideToMove) != 5 {
		invalid("en passant square %v on wrong rank for %v to move", ep, s.SideToMove)
		return
	}

	var pushed, origin Square
	if them == Black {
		pushed, origin = ep-8, ep+8
	} else {
		pushed, origin = ep+8, ep-8
	}

	var occupied Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			occupied |= s.Pieces[c][pt]
		}
	}
	if !s.Pieces[them][Pawn].IsSet(pushed) {
		invalid("en passant square %v without %v pawn on %v", ep, them, pushed)
	}
	if occupied.IsSet(ep) || occupied.IsSet(origin) {
		invalid("en passant square %v with occupied path", ep)
	}
}
