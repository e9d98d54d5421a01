// Package render turns a solved grid into terminal text or a PNG
// image. It consumes the solver's assignment read-only.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/fillgrid/fillgrid/grid"
	"github.com/fillgrid/fillgrid/solver"
)

const blockedRune = '█'

// Text renders the assignment as one line per grid row: blocked cells
// as '█', filled cells as their letter, uncovered blanks as spaces.
func Text(g *grid.Grid, asgn solver.Assignment) string {
	letters := g.Letters(asgn)
	var sb strings.Builder
	for i := 0; i < g.Height(); i++ {
		for j := 0; j < g.Width(); j++ {
			switch {
			case g.Blocked(i, j):
				sb.WriteRune(blockedRune)
			case letters[i][j] != 0:
				sb.WriteRune(letters[i][j])
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

const (
	cellSize   = 100
	cellBorder = 2
	glyphScale = 6
)

// WritePNG encodes the assignment as a PNG: black canvas, white cells,
// black letters.
func WritePNG(w io.Writer, g *grid.Grid, asgn solver.Assignment) error {
	letters := g.Letters(asgn)
	img := image.NewRGBA(image.Rect(0, 0, g.Width()*cellSize, g.Height()*cellSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	white := image.NewUniform(color.White)
	for i := 0; i < g.Height(); i++ {
		for j := 0; j < g.Width(); j++ {
			if g.Blocked(i, j) {
				continue
			}
			cell := image.Rect(
				j*cellSize+cellBorder, i*cellSize+cellBorder,
				(j+1)*cellSize-cellBorder, (i+1)*cellSize-cellBorder)
			draw.Draw(img, cell, white, image.Point{}, draw.Src)
			if letters[i][j] != 0 {
				drawLetter(img, letters[i][j], j*cellSize, i*cellSize)
			}
		}
	}
	return png.Encode(w, img)
}

// SavePNG writes the PNG to a file.
func SavePNG(path string, g *grid.Grid, asgn solver.Assignment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := WritePNG(f, g, asgn); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawLetter rasterizes one glyph at the bitmap face's native size,
// then scales it up into the center of the cell.
func drawLetter(dst *image.RGBA, r rune, x, y int) {
	face := basicfont.Face7x13
	small := image.NewRGBA(image.Rect(0, 0, face.Advance, face.Height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(r))

	gw := face.Advance * glyphScale
	gh := face.Height * glyphScale
	x0 := x + (cellSize-gw)/2
	y0 := y + (cellSize-gh)/2
	target := image.Rect(x0, y0, x0+gw, y0+gh)
	xdraw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), xdraw.Over, nil)
}
