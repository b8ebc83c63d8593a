package board

// Direction is one of the eight compass directions a sliding piece moves in.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// file and rank deltas per direction
var directionDelta = [8][2]int{
	North:     {0, 1},
	South:     {0, -1},
	East:      {1, 0},
	West:      {-1, 0},
	NorthEast: {1, 1},
	NorthWest: {-1, 1},
	SouthEast: {1, -1},
	SouthWest: {-1, -1},
}

// positive reports whether walking in d increases the square index,
// which decides whether the nearest blocker is the LSB or the MSB of the ray.
func (d Direction) positive() bool {
	return d == North || d == East || d == NorthEast || d == NorthWest
}

var (
	rookDirections   = [4]Direction{North, South, East, West}
	bishopDirections = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
)

// Pre-computed attack tables. Written only by init.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]
	pawnPushes    [2][64]Bitboard // [Color][Square] - single push targets

	rays      [8][64]Bitboard  // [Direction][Square], origin excluded, to the board edge
	betweenBB [64][64]Bitboard // Squares strictly between two aligned squares
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initRays()
	initBetweenBB()
}

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := Empty

		// Up/down 2, left/right 1
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA

		// Up/down 1, left/right 2
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()

		pawnPushes[White][sq] = bb.North()
		pawnPushes[Black][sq] = bb.South()
	}
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for d := North; d <= SouthWest; d++ {
			df, dr := directionDelta[d][0], directionDelta[d][1]
			var ray Bitboard
			for f, r := sq.File()+df, sq.Rank()+dr; onBoard(f, r); f, r = f+df, r+dr {
				ray |= SquareBB(square(f, r))
			}
			rays[d][sq] = ray
		}
	}
}

func initBetweenBB() {
	for sq1 := A1; sq1 <= H8; sq1++ {
		for d := North; d <= SouthWest; d++ {
			df, dr := directionDelta[d][0], directionDelta[d][1]
			var between Bitboard
			for f, r := sq1.File()+df, sq1.Rank()+dr; onBoard(f, r); f, r = f+df, r+dr {
				sq2 := square(f, r)
				betweenBB[sq1][sq2] = between
				between |= SquareBB(sq2)
			}
		}
	}
}

// rayAttacks walks one ray from sq and stops after the first occupied square.
func rayAttacks(d Direction, sq Square, occupied Bitboard) Bitboard {
	attacks := rays[d][sq]
	blockers := attacks & occupied
	if blockers == 0 {
		return attacks
	}
	if d.positive() {
		return attacks &^ rays[d][blockers.LSB()]
	}
	return attacks &^ rays[d][blockers.MSB()]
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the pawn attack bitboard for a square and color.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnPushes returns the pawn push target bitboard for a square and color.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range bishopDirections {
		attacks |= rayAttacks(d, sq, occupied)
	}
	return attacks
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range rookDirections {
		attacks |= rayAttacks(d, sq, occupied)
	}
	return attacks
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Attacks returns the squares a piece of type pt and color c attacks from sq.
// Occupied squares are included whatever their color; occupied only matters
// for sliders and c only for pawns.
func Attacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return Empty
}

// Between returns the bitboard of squares strictly between two squares.
// Returns empty if squares are not aligned (not on same rank, file, or diagonal).
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// AttackersByColor returns a bitboard of pieces of the given color attacking a square.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	enemy := c.Other()
	return (pawnAttacks[enemy][sq] & p.pieces[c][Pawn]) |
		(knightAttacks[sq] & p.pieces[c][Knight]) |
		(kingAttacks[sq] & p.pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.pieces[c][Bishop] | p.pieces[c][Queen])) |
		(RookAttacks(sq, occupied) & (p.pieces[c][Rook] | p.pieces[c][Queen]))
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.AllOccupied()) != 0
}

// AttackedBy returns every square attacked by the given color.
func (p *Position) AttackedBy(c Color) Bitboard {
	occupied := p.AllOccupied()
	var attacked Bitboard
	for pt := Pawn; pt <= King; pt++ {
		pieces := p.pieces[c][pt]
		for pieces != 0 {
			attacked |= Attacks(pt, c, pieces.PopLSB(), occupied)
		}
	}
	return attacked
}
