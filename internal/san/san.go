// Package san reads and writes moves in Standard Algebraic Notation.
package san

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/board"
)

const pieceLetters = "PNBRQK"

// Format returns the SAN of m, which must be legal in pos.
func Format(pos *board.Position, m board.Move) string {
	if m == board.NoMove {
		return "-"
	}

	var sb strings.Builder
	from, to := m.From(), m.To()

	switch {
	case m.IsCastling() && to > from:
		sb.WriteString("O-O")
	case m.IsCastling():
		sb.WriteString("O-O-O")
	default:
		pt := m.Piece()
		if pt != board.Pawn {
			sb.WriteByte(pieceLetters[pt])
			sb.WriteString(disambiguation(pos, m))
		}
		if m.IsCapture() {
			if pt == board.Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(pieceLetters[m.Promotion()])
		}
	}

	next := pos.Copy()
	next.MakeMove(m)
	if next.InCheck() {
		if next.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *board.Position, m board.Move) string {
	from := m.From()
	var others []board.Square
	for _, o := range pos.GenerateLegalMoves().Slice() {
		if o.To() == m.To() && o.Piece() == m.Piece() && o.From() != from {
			others = append(others, o.From())
		}
	}
	if len(others) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range others {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// FormatLine returns the SAN of each move of a line played from pos.
// It stops with an error at the first move that is not legal.
func FormatLine(pos *board.Position, moves []board.Move) ([]string, error) {
	out := make([]string, 0, len(moves))
	for i, m := range moves {
		next, err := pos.Apply(m)
		if err != nil {
			return out, errors.WithMessagef(err, "move %d", i+1)
		}
		out = append(out, Format(pos, m))
		pos = next
	}
	return out, nil
}

// Parse resolves a SAN string against the legal moves of pos. Check and
// annotation suffixes are ignored. The error wraps board.ErrIllegalMove when
// no legal move or more than one legal move matches.
func Parse(s string, pos *board.Position) (board.Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")

	legal := pos.GenerateLegalMoves().Slice()

	switch s {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.IsCastling() && (m.To() > m.From()) == kingSide {
				return m, nil
			}
		}
		return board.NoMove, errors.Wrapf(board.ErrIllegalMove, "san %q", orig)
	}

	promo := board.NoPieceType
	if n := len(s); n > 2 {
		if strings.IndexByte("NBRQ", s[n-1]) >= 0 {
			promo = board.PieceType(strings.IndexByte(pieceLetters, s[n-1]))
			s = strings.TrimSuffix(s[:n-1], "=")
		}
	}

	pt := board.Pawn
	if s != "" {
		if i := strings.IndexByte(pieceLetters[1:], s[0]); i >= 0 {
			pt = board.PieceType(i + 1)
			s = s[1:]
		}
	}

	capture := strings.Contains(s, "x")
	s = strings.Replace(s, "x", "", 1)
	if len(s) < 2 {
		return board.NoMove, errors.Wrapf(board.ErrIllegalMove, "san %q", orig)
	}

	to, err := board.ParseSquare(s[len(s)-2:])
	if err != nil {
		return board.NoMove, errors.WithMessagef(err, "san %q", orig)
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		default:
			return board.NoMove, errors.Wrapf(board.ErrIllegalMove, "san %q", orig)
		}
	}

	found := board.NoMove
	for _, m := range legal {
		if m.To() != to || m.Piece() != pt || m.Promotion() != promo || m.IsCastling() {
			continue
		}
		if file >= 0 && m.From().File() != file {
			continue
		}
		if rank >= 0 && m.From().Rank() != rank {
			continue
		}
		if capture && !m.IsCapture() {
			continue
		}
		if found != board.NoMove {
			return board.NoMove, errors.Wrapf(board.ErrIllegalMove, "san %q is ambiguous", orig)
		}
		found = m
	}
	if found == board.NoMove {
		return board.NoMove, errors.Wrapf(board.ErrIllegalMove, "san %q", orig)
	}
	return found, nil
}
