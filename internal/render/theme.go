// Package render draws board diagrams as SVG or PNG.
package render

import (
	"fmt"
	"image/color"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare   color.RGBA
	DarkSquare    color.RGBA
	LastMoveColor color.RGBA // blended over the square by its alpha
	CheckColor    color.RGBA // blended over the square by its alpha
	WhitePiece    color.RGBA
	BlackPiece    color.RGBA
	PieceOutline  color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:   color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:    color.RGBA{181, 136, 99, 255},  // Brown
		LastMoveColor: color.RGBA{180, 190, 100, 160},
		CheckColor:    color.RGBA{255, 100, 100, 180},
		WhitePiece:    color.RGBA{250, 250, 250, 255},
		BlackPiece:    color.RGBA{40, 44, 52, 255},
		PieceOutline:  color.RGBA{20, 20, 20, 255},
	}
}

// blend draws over on top of base and returns the opaque result.
func blend(base, over color.RGBA) color.RGBA {
	a := uint32(over.A)
	mix := func(b, o uint8) uint8 {
		return uint8((uint32(o)*a + uint32(b)*(255-a) + 127) / 255)
	}
	return color.RGBA{mix(base.R, over.R), mix(base.G, over.G), mix(base.B, over.B), 255}
}

// hex formats c as #rrggbb, ignoring alpha.
func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
