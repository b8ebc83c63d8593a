// Package fen converts between Forsyth-Edwards Notation and board positions.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/board"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrSyntax is returned for FEN strings that cannot be read at all.
var ErrSyntax = errors.New("fen syntax error")

// Parse parses a FEN string and returns the validated Position.
// The half-move clock and full-move number fields are optional.
func Parse(fen string) (*board.Position, error) {
	setup, err := ParseSetup(fen)
	if err != nil {
		return nil, err
	}
	pos, err := board.NewPositionFromSetup(setup)
	if err != nil {
		return nil, errors.WithMessagef(err, "fen %q", fen)
	}
	return pos, nil
}

// MustParse is Parse for FEN literals known to be valid. It panics on error.
func MustParse(fen string) *board.Position {
	pos, err := Parse(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// ParseSetup reads a FEN string into an unvalidated board.Setup.
func ParseSetup(fen string) (board.Setup, error) {
	setup := board.EmptySetup()

	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return setup, errors.Wrapf(ErrSyntax, "need 4 to 6 fields, got %d", len(parts))
	}

	// Piece placement (field 0)
	if err := parsePiecePlacement(&setup, parts[0]); err != nil {
		return setup, err
	}

	// Side to move (field 1)
	switch parts[1] {
	case "w":
		setup.SideToMove = board.White
	case "b":
		setup.SideToMove = board.Black
	default:
		return setup, errors.Wrapf(ErrSyntax, "invalid side to move %q", parts[1])
	}

	// Castling rights (field 2)
	cr, err := parseCastlingRights(parts[2])
	if err != nil {
		return setup, err
	}
	setup.Castling = cr

	// En passant square (field 3)
	if parts[3] != "-" {
		sq, err := board.ParseSquare(parts[3])
		if err != nil {
			return setup, errors.WithMessage(err, "en passant field")
		}
		setup.EnPassant = sq
	}

	// Half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return setup, errors.Wrapf(ErrSyntax, "invalid half-move clock %q", parts[4])
		}
		setup.HalfMoveClock = hmc
	}

	// Full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return setup, errors.Wrapf(ErrSyntax, "invalid full-move number %q", parts[5])
		}
		setup.FullMoveNumber = fmn
	}

	return setup, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(setup *board.Setup, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return errors.Wrapf(ErrSyntax, "need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return errors.Wrapf(ErrSyntax, "too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := board.PieceFromChar(byte(c))
			if piece == board.NoPiece {
				return errors.Wrapf(ErrSyntax, "invalid piece character %q", c)
			}
			sq, err := board.NewSquare(file, rank)
			if err != nil {
				return err
			}
			setup.Place(piece, sq)
			file++
		}

		if file != 8 {
			return errors.Wrapf(ErrSyntax, "rank %d has %d squares", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(castling string) (board.CastlingRights, error) {
	if castling == "-" {
		return board.NoCastling, nil
	}

	var cr board.CastlingRights
	for _, c := range castling {
		switch c {
		case 'K':
			cr |= board.WhiteKingSideCastle
		case 'Q':
			cr |= board.WhiteQueenSideCastle
		case 'k':
			cr |= board.BlackKingSideCastle
		case 'q':
			cr |= board.BlackQueenSideCastle
		default:
			return cr, errors.Wrapf(ErrSyntax, "invalid castling character %q", c)
		}
	}

	return cr, nil
}

// Format returns the FEN representation of the position.
func Format(p *board.Position) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq, _ := board.NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == board.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	st := p.State()
	side := "w"
	if st.SideToMove == board.Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, st.Castling, st.EnPassant, st.HalfMoveClock, st.FullMoveNumber)

	return sb.String()
}
