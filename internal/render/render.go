package render

import (
	"fmt"
	"image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/chesscore/internal/board"
)

const pieceLetters = "PNBRQK"

// DefaultSize is the board edge in pixels when Options.Size is unset.
const DefaultSize = 480

// Options controls a diagram.
type Options struct {
	Size        int  // board edge in pixels, rounded down to a multiple of 8
	Flip        bool // draw from Black's side
	Coordinates bool // file and rank labels
	Theme       *Theme
}

// Renderer draws positions with fixed geometry and colors.
type Renderer struct {
	theme       *Theme
	squareSize  int
	flip        bool
	coordinates bool
}

// New creates a renderer. Sizes below 64 pixels are raised to 64.
func New(opts Options) *Renderer {
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	if size < 64 {
		size = 64
	}
	theme := opts.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Renderer{
		theme:       theme,
		squareSize:  size / 8,
		flip:        opts.Flip,
		coordinates: opts.Coordinates,
	}
}

// BoardSize returns the board size in pixels.
func (r *Renderer) BoardSize() int {
	return 8 * r.squareSize
}

// SquareSize returns the size of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// SquareToScreen returns the top-left pixel of sq.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	file, rank := sq.File(), sq.Rank()
	if r.flip {
		return (7 - file) * r.squareSize, rank * r.squareSize
	}
	return file * r.squareSize, (7 - rank) * r.squareSize
}

// ScreenToSquare returns the square under pixel (x, y), NoSquare off the board.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || y < 0 {
		return board.NoSquare
	}
	file, rank := x/r.squareSize, 7-y/r.squareSize
	if r.flip {
		file, rank = 7-file, 7-rank
	}
	sq, err := board.NewSquare(file, rank)
	if err != nil {
		return board.NoSquare
	}
	return sq
}

// squareColor returns the fill of sq with last move and check highlights applied.
func (r *Renderer) squareColor(pos *board.Position, sq board.Square, last board.Move) color.RGBA {
	c := r.theme.LightSquare
	if (sq.File()+sq.Rank())%2 == 0 {
		c = r.theme.DarkSquare
	}
	if last != board.NoMove && (sq == last.From() || sq == last.To()) {
		c = blend(c, r.theme.LastMoveColor)
	}
	if pos.InCheck() && sq == pos.KingSquare(pos.SideToMove()) {
		c = blend(c, r.theme.CheckColor)
	}
	return c
}

// SVG writes the diagram of pos as an SVG document. last is highlighted
// unless it is NoMove.
func (r *Renderer) SVG(w io.Writer, pos *board.Position, last board.Move) error {
	return r.writeSVG(w, pos, last, true)
}

// writeSVG draws squares and piece discs; labels are included with text.
func (r *Renderer) writeSVG(w io.Writer, pos *board.Position, last board.Move, text bool) error {
	ew := &errWriter{w: w}
	size, s := r.BoardSize(), r.squareSize

	canvas := svg.New(ew)
	canvas.Startview(size, size, 0, 0, size, size)

	canvas.Group(`id="squares"`)
	for sq := board.A1; sq <= board.H8; sq++ {
		x, y := r.SquareToScreen(sq)
		canvas.Rect(x, y, s, s, "fill:"+hex(r.squareColor(pos, sq, last)))
	}
	canvas.Gend()

	canvas.Group(`id="pieces"`)
	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		fill, ink := r.theme.WhitePiece, r.theme.BlackPiece
		if p.Color() == board.Black {
			fill, ink = ink, fill
		}
		x, y := r.SquareToScreen(sq)
		cx, cy := x+s/2, y+s/2
		canvas.Circle(cx, cy, s*2/5, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d",
			hex(fill), hex(r.theme.PieceOutline), max(1, s/32)))
		if text {
			canvas.Text(cx, cy, string(pieceLetters[p.Type()]), fmt.Sprintf(
				"fill:%s;font-family:sans-serif;font-weight:bold;font-size:%dpx;text-anchor:middle;dominant-baseline:central",
				hex(ink), s/2))
		}
	}
	canvas.Gend()

	if text && r.coordinates {
		r.svgCoordinates(canvas)
	}

	canvas.End()
	return ew.err
}

func (r *Renderer) svgCoordinates(canvas *svg.SVG) {
	s := r.squareSize
	style := fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx", hex(r.theme.PieceOutline), max(6, s/5))
	canvas.Group(`id="coordinates"`)
	for i := 0; i < 8; i++ {
		fileSq, _ := board.NewSquare(i, 0)
		rankSq, _ := board.NewSquare(0, i)
		if r.flip {
			fileSq, _ = board.NewSquare(i, 7)
			rankSq, _ = board.NewSquare(7, i)
		}
		x, y := r.SquareToScreen(fileSq)
		canvas.Text(x+s-s/5, y+s-s/12, string(rune('a'+i)), style)
		x, y = r.SquareToScreen(rankSq)
		canvas.Text(x+s/16, y+s/4, string(rune('1'+i)), style)
	}
	canvas.Gend()
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
