package board

import "strings"

// Color is the side owning a piece or having the move.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

var colorNames = [...]string{"White", "Black", "NoColor"}

// Other flips White and Black.
func (c Color) Other() Color { return c ^ 1 }

func (c Color) Valid() bool { return c < NoColor }

func (c Color) String() string {
	if c > NoColor {
		c = NoColor
	}
	return colorNames[c]
}

// PieceType is a colorless piece kind.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

// PromotionTypes is the order promotions are generated in.
var PromotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

func (pt PieceType) Valid() bool { return pt < NoPieceType }

func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// Char is the lowercase letter for pt, a space for NoPieceType.
func (pt PieceType) Char() byte {
	if !pt.Valid() {
		return ' '
	}
	return pieceLetters[pt+6]
}

// Piece packs a type and color as type + 6*color.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// pieceLetters holds the FEN letter of every Piece, indexed by value.
const pieceLetters = "PNBRQKpnbrqk"

// NewPiece returns NoPiece unless both pt and c are valid.
func NewPiece(pt PieceType, c Color) Piece {
	if !pt.Valid() || !c.Valid() {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String is the FEN letter, uppercase for White.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return pieceLetters[p : p+1]
}

// PieceFromChar maps a FEN letter to its piece, NoPiece if unknown.
func PieceFromChar(c byte) Piece {
	if i := strings.IndexByte(pieceLetters, c); i >= 0 {
		return Piece(i)
	}
	return NoPiece
}
