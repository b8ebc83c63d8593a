// Command diagram draws a position as SVG or PNG after an optional move line.
//
//	diagram -moves "e4 e5 Nf3" -format png -o board.png
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/pkg/errors"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/fen"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/san"
)

var (
	fenFlag   = flag.String("fen", fen.StartFEN, "FEN of the starting position")
	moves     = flag.String("moves", "", "moves to play first, UCI or SAN, separated by spaces or commas")
	format    = flag.String("format", "svg", "output format: svg or png")
	size      = flag.Int("size", render.DefaultSize, "board size in pixels")
	flip      = flag.Bool("flip", false, "draw from Black's side")
	coords    = flag.Bool("coords", true, "draw file and rank labels")
	output    = flag.String("o", "", "output file (default stdout)")
	verbosity = flag.Int("v", 0, "log verbosity")
)

func main() {
	flag.Parse()

	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags)).WithName("diagram")

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "diagram:", err)
		os.Exit(1)
	}
}

func run(logger logr.Logger) error {
	if *format != "svg" && *format != "png" {
		return errors.Errorf("unknown format %q", *format)
	}

	start, err := fen.Parse(*fenFlag)
	if err != nil {
		return err
	}

	pos, line, err := playMoves(start, *moves)
	if err != nil {
		return err
	}
	last := board.NoMove
	if len(line) > 0 {
		last = line[len(line)-1]
		text, err := san.FormatLine(start, line)
		if err != nil {
			return err
		}
		logger.Info("played", "moves", strings.Join(text, " "), "fen", fen.Format(pos))
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	r := render.New(render.Options{Size: *size, Flip: *flip, Coordinates: *coords})
	if *format == "png" {
		err = r.PNG(bw, pos, last)
	} else {
		err = r.SVG(bw, pos, last)
	}
	if err != nil {
		return err
	}
	logger.V(1).Info("rendered", "format", *format, "size", r.BoardSize())
	return errors.Wrap(bw.Flush(), "write output")
}

// playMoves applies each move of text to pos, trying UCI before SAN.
func playMoves(pos *board.Position, text string) (*board.Position, []board.Move, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ','
	})

	var line []board.Move
	for i, s := range fields {
		m, err := board.ParseMove(s, pos)
		if err != nil {
			m, err = san.Parse(s, pos)
		}
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "move %d %q", i+1, s)
		}
		next, err := pos.Apply(m)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "move %d %q", i+1, s)
		}
		pos = next
		line = append(line, m)
	}
	return pos, line, nil
}
