package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// MakeMove applies a move to the position in place and returns undo information.
//
// m must come from the move generator for this exact position; MakeMove does
// not check legality. Use Apply for moves of unknown origin.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		State: p.state,
		Hash:  p.hash,
	}

	us := p.state.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pt := m.Piece()

	if !pt.Valid() || p.pieces[us][pt]&SquareBB(from) == 0 {
		panic(fmt.Sprintf("board: make move %v: no %v %v on %v", m, us, pt, from))
	}

	// Castling and en passant keys are re-added below once the new values are known
	p.hash ^= zobristCastling[p.state.Castling]
	if p.state.EnPassant != NoSquare {
		p.hash ^= zobristEnPassant[p.state.EnPassant.File()]
	}
	p.state.EnPassant = NoSquare

	switch {
	case m.IsEnPassant():
		p.removePiece(them, Pawn, enPassantVictim(us, to))
	case m.IsCapture():
		p.removePiece(them, m.Captured(), to)
	}

	p.movePiece(us, pt, from, to)

	if m.IsPromotion() {
		p.removePiece(us, Pawn, to)
		p.addPiece(us, m.Promotion(), to)
	}

	if m.IsCastling() {
		c := castlingPathFor(us, from, to)
		p.movePiece(us, Rook, c.rook, c.rookTo)
	}

	// King moves, rook moves and captures on a rook's home square drop rights
	p.state.Castling &= castlingMask[from] & castlingMask[to]
	p.hash ^= zobristCastling[p.state.Castling]

	if m.IsDoublePush() {
		ep := Square((int(from) + int(to)) / 2)
		p.state.EnPassant = ep
		p.hash ^= zobristEnPassant[ep.File()]
	}

	if pt == Pawn || m.IsCapture() {
		p.state.HalfMoveClock = 0
	} else {
		p.state.HalfMoveClock++
	}

	if us == Black {
		p.state.FullMoveNumber++
	}

	p.state.SideToMove = them
	p.hash ^= zobristSideToMove

	return undo
}

// UnmakeMove undoes a move made by MakeMove using the stored undo information.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.state.SideToMove.Other()
	them := us.Other()
	from, to := m.From(), m.To()

	if m.IsCastling() {
		c := castlingPathFor(us, from, to)
		p.movePiece(us, Rook, c.rookTo, c.rook)
	}

	if m.IsPromotion() {
		p.removePiece(us, m.Promotion(), to)
		p.addPiece(us, Pawn, to)
	}

	p.movePiece(us, m.Piece(), to, from)

	switch {
	case m.IsEnPassant():
		p.addPiece(them, Pawn, enPassantVictim(us, to))
	case m.IsCapture():
		p.addPiece(them, m.Captured(), to)
	}

	p.state = undo.State
	p.hash = undo.Hash
}

// Apply returns the position after the legal move m. The receiver is not modified.
func (p *Position) Apply(m Move) (*Position, error) {
	if !p.GenerateLegalMoves().Contains(m) {
		return nil, errors.Wrapf(ErrIllegalMove, "%v in %v to move", m, p.state.SideToMove)
	}
	next := p.Copy()
	next.MakeMove(m)
	return next, nil
}

// enPassantVictim returns the square of the pawn captured en passant by
// color us landing on to: same file as to, on the rank the capturer left.
func enPassantVictim(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

func castlingPathFor(us Color, from, to Square) castlingPath {
	if to > from {
		return castlingPaths[us][0]
	}
	return castlingPaths[us][1]
}
