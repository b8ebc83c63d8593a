package board

// GenerateLegalMoves generates all legal moves for the position.
//
// The order is deterministic: pawn moves first, then knights, bishops, rooks,
// queens, king steps and castling, pieces taken by ascending square.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures generates all legal captures, en passant included.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	captures := NewMoveList()
	for _, m := range ml.Slice() {
		if m.IsCapture() {
			captures.Add(m)
		}
	}
	return p.filterLegalMoves(captures)
}

// generateAllMoves generates all pseudo-legal moves.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.state.SideToMove
	them := us.Other()
	occupied := p.AllOccupied()
	targets := ^p.Occupied(us)

	p.generatePawnMoves(ml, us, p.Occupied(them), occupied)

	for pt := Knight; pt <= King; pt++ {
		pieces := p.pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			attacks := Attacks(pt, us, from, occupied) & targets
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(newMove(from, to, pt, p.capturedAt(them, to), NoPieceType, FlagNormal))
			}
		}
	}

	p.generateCastlingMoves(ml, us)
}

// capturedAt returns the type of the piece of color c on sq, NoPieceType if none.
func (p *Position) capturedAt(c Color, sq Square) PieceType {
	bb := SquareBB(sq)
	for pt := Pawn; pt <= King; pt++ {
		if p.pieces[c][pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// generatePawnMoves generates all pawn moves.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	them := us.Other()
	pawns := p.pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Single pushes, promotions expanded
	for push1 != 0 {
		to := push1.PopLSB()
		from := Square(int(to) - pushDir)
		p.addPawnMove(ml, from, to, NoPieceType, promotionRank)
	}

	// Double pushes
	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ml.Add(newMove(from, to, Pawn, NoPieceType, NoPieceType, FlagDoublePush))
	}

	// Captures toward the a-file
	for attackL != 0 {
		to := attackL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		p.addPawnMove(ml, from, to, p.capturedAt(them, to), promotionRank)
	}

	// Captures toward the h-file
	for attackR != 0 {
		to := attackR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		p.addPawnMove(ml, from, to, p.capturedAt(them, to), promotionRank)
	}

	// En passant: only pawns attacking the current target square
	if ep := p.state.EnPassant; ep != NoSquare {
		epAttackers := pawnAttacks[them][ep] & pawns
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(newMove(from, ep, Pawn, Pawn, NoPieceType, FlagEnPassant))
		}
	}
}

// addPawnMove adds a pawn move, expanded into four promotions on the last rank.
func (p *Position) addPawnMove(ml *MoveList, from, to Square, captured PieceType, promotionRank Bitboard) {
	if promotionRank&SquareBB(to) == 0 {
		ml.Add(newMove(from, to, Pawn, captured, NoPieceType, FlagNormal))
		return
	}
	for _, promo := range PromotionTypes {
		ml.Add(newMove(from, to, Pawn, captured, promo, FlagNormal))
	}
}

// castlingPath is the geometry of one castling move.
type castlingPath struct {
	right          CastlingRights
	king, kingTo   Square
	rook, rookTo   Square
	kingPassesOver Square
}

// castlingPaths is indexed by color, then king side (0) or queen side (1).
var castlingPaths = [2][2]castlingPath{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, F1, F1},
		{WhiteQueenSideCastle, E1, C1, A1, D1, D1},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, F8, F8},
		{BlackQueenSideCastle, E8, C8, A8, D8, D8},
	},
}

// generateCastlingMoves generates castling moves.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	occupied := p.AllOccupied()

	for _, c := range castlingPaths[us] {
		if !p.state.Castling.Has(c.right) {
			continue
		}
		// Every square between king and rook must be empty
		if Between(c.king, c.rook)&occupied != 0 {
			continue
		}
		// King may not castle out of, through, or into check
		if p.IsSquareAttacked(c.king, them) ||
			p.IsSquareAttacked(c.kingPassesOver, them) ||
			p.IsSquareAttacked(c.kingTo, them) {
			continue
		}
		ml.Add(newMove(c.king, c.kingTo, King, NoPieceType, NoPieceType, FlagCastling))
	}
}

// filterLegalMoves keeps the moves that do not leave the mover's king attacked.
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal returns true if the pseudo-legal move m does not leave the
// mover's king in check. It makes and unmakes the move.
func (p *Position) IsLegal(m Move) bool {
	us := p.state.SideToMove
	undo := p.MakeMove(m)
	attacked := p.kingAttacked(us)
	p.UnmakeMove(m, undo)
	return !attacked
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for _, m := range ml.Slice() {
		if p.IsLegal(m) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}
