package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

var regularFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

func newFace(size float64) (font.Face, error) {
	f, err := regularFont()
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return face, errors.Wrap(err, "create font face")
}

// Image rasterizes the diagram of pos.
func (r *Renderer) Image(pos *board.Position, last board.Move) (*image.RGBA, error) {
	var buf bytes.Buffer
	if err := r.writeSVG(&buf, pos, last, false); err != nil {
		return nil, err
	}

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "parse board svg")
	}

	size := r.BoardSize()
	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	if err := r.drawLetters(rgba, pos); err != nil {
		return nil, err
	}
	if r.coordinates {
		if err := r.drawCoordinates(rgba); err != nil {
			return nil, err
		}
	}
	return rgba, nil
}

// PNG writes the diagram of pos as a PNG image.
func (r *Renderer) PNG(w io.Writer, pos *board.Position, last board.Move) error {
	img, err := r.Image(pos, last)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "encode png")
}

func (r *Renderer) drawLetters(dst draw.Image, pos *board.Position) error {
	s := r.squareSize
	face, err := newFace(float64(s) / 2)
	if err != nil {
		return err
	}
	defer face.Close()

	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		ink := r.theme.BlackPiece
		if p.Color() == board.Black {
			ink = r.theme.WhitePiece
		}
		x, y := r.SquareToScreen(sq)
		drawCentered(dst, face, string(pieceLetters[p.Type()]), x+s/2, y+s/2, ink)
	}
	return nil
}

func (r *Renderer) drawCoordinates(dst draw.Image) error {
	s := r.squareSize
	face, err := newFace(float64(max(6, s/5)))
	if err != nil {
		return err
	}
	defer face.Close()

	for i := 0; i < 8; i++ {
		fileSq, _ := board.NewSquare(i, 0)
		rankSq, _ := board.NewSquare(0, i)
		if r.flip {
			fileSq, _ = board.NewSquare(i, 7)
			rankSq, _ = board.NewSquare(7, i)
		}
		x, y := r.SquareToScreen(fileSq)
		drawAt(dst, face, string(rune('a'+i)), x+s-s/5, y+s-s/12, r.theme.PieceOutline)
		x, y = r.SquareToScreen(rankSq)
		drawAt(dst, face, string(rune('1'+i)), x+s/16, y+s/4, r.theme.PieceOutline)
	}
	return nil
}

// drawCentered draws s with its center at (cx, cy).
func drawCentered(dst draw.Image, face font.Face, s string, cx, cy int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(cx) - d.MeasureString(s)/2,
		Y: fixed.I(cy) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(s)
}

// drawAt draws s with its baseline starting at (x, y).
func drawAt(dst draw.Image, face font.Face, s string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}
