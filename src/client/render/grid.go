// Package render draws search candidates into a single PNG contact sheet and
// opens it in the system viewer.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/apimgr/assetsearch/src/client/asset"
)

// Layout defaults, in pixels.
const (
	DefaultColumns  = 5
	DefaultMaxTiles = 20
	DefaultTileSize = 240

	margin      = 12
	headerH     = 36
	labelH      = 34
	lineH       = 15
	glyphW      = 7
	placeholder = "No Preview"
	decodeError = "Image Error"
)

var (
	background = color.RGBA{0x28, 0x2a, 0x36, 0xff}
	tileBG     = color.RGBA{0x44, 0x47, 0x5a, 0xff}
	foreground = color.RGBA{0xf8, 0xf8, 0xf2, 0xff}
	muted      = color.RGBA{0x62, 0x72, 0xa4, 0xff}
	errorFG    = color.RGBA{0xff, 0x55, 0x55, 0xff}
)

// ErrNoCandidates is returned when there is nothing to draw.
var ErrNoCandidates = errors.New("no candidates to render")

// Grid lays candidates out in rows of Columns tiles.
type Grid struct {
	Columns  int
	MaxTiles int
	TileSize int
	Logger   *slog.Logger
}

// NewGrid returns a Grid with defaults for non-positive values.
func NewGrid(columns, maxTiles int) *Grid {
	if columns <= 0 {
		columns = DefaultColumns
	}
	if maxTiles <= 0 {
		maxTiles = DefaultMaxTiles
	}
	return &Grid{Columns: columns, MaxTiles: maxTiles, TileSize: DefaultTileSize}
}

func (g *Grid) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Grid) tileSize() int {
	if g.TileSize <= 0 {
		return DefaultTileSize
	}
	return g.TileSize
}

func (g *Grid) columns(n int) int {
	cols := g.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	return max(1, min(cols, n))
}

// cellRect is the full cell (preview plus label) of tile i.
func (g *Grid) cellRect(i, cols int) image.Rectangle {
	ts := g.tileSize()
	x := margin + (i%cols)*(ts+margin)
	y := headerH + margin + (i/cols)*(ts+labelH+margin)
	return image.Rect(x, y, x+ts, y+ts+labelH)
}

// previewRect is the preview area of tile i.
func (g *Grid) previewRect(i, cols int) image.Rectangle {
	r := g.cellRect(i, cols)
	return image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y-labelH)
}

// Draw renders up to MaxTiles candidates. A preview that cannot be decoded
// is drawn as a placeholder tile.
func (g *Grid) Draw(title string, candidates []asset.Candidate) (*image.RGBA, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if g.MaxTiles > 0 && len(candidates) > g.MaxTiles {
		candidates = candidates[:g.MaxTiles]
	}

	n := len(candidates)
	cols := g.columns(n)
	rows := (n + cols - 1) / cols
	ts := g.tileSize()

	width := margin + cols*(ts+margin)
	height := headerH + margin + rows*(ts+labelH+margin)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	drawText(img, fit(title, width/glyphW-2), width/2, headerH/2+5, foreground, true)

	previews := decodeAll(candidates)
	for i, c := range candidates {
		g.drawTile(img, i, cols, c, previews[i])
	}
	return img, nil
}

type preview struct {
	img image.Image
	err error
}

// decodeAll decodes previews in parallel. Candidates without an image get a
// zero preview.
func decodeAll(candidates []asset.Candidate) []preview {
	out := make([]preview, len(candidates))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range candidates {
		if c.Image == "" {
			continue
		}
		g.Go(func() error {
			out[i].img, out[i].err = decodePreview(c.Image)
			return nil
		})
	}
	g.Wait() // errors stay per tile
	return out
}

func (g *Grid) drawTile(img *image.RGBA, i, cols int, c asset.Candidate, p preview) {
	cell := g.cellRect(i, cols)
	preview := g.previewRect(i, cols)
	xdraw.Draw(img, preview, image.NewUniform(tileBG), image.Point{}, xdraw.Src)

	center := preview.Min.Add(image.Pt(preview.Dx()/2, preview.Dy()/2))
	switch {
	case c.Image == "":
		drawText(img, placeholder, center.X, center.Y, muted, true)
	case p.err != nil:
		g.logger().Warn("preview decode failed", "url", c.URL, "error", p.err)
		drawText(img, decodeError, center.X, center.Y, errorFG, true)
	default:
		xdraw.CatmullRom.Scale(img, fitRect(p.img.Bounds(), preview), p.img, p.img.Bounds(), xdraw.Over, nil)
	}

	chars := cell.Dx() / glyphW
	labelTop := preview.Max.Y
	drawText(img, fit(c.Name(), chars), cell.Min.X+cell.Dx()/2, labelTop+lineH-2, foreground, true)
	drawText(img, fmt.Sprintf("Score: %.2f", c.Score), cell.Min.X+cell.Dx()/2, labelTop+2*lineH-2, muted, true)
}

// Save draws the grid and writes it to path as PNG.
func (g *Grid) Save(title string, candidates []asset.Candidate, path string) error {
	img, err := g.Draw(title, candidates)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// decodePreview decodes a base64 preview, with or without a data URI prefix.
func decodePreview(b64 string) (image.Image, error) {
	if b64 == "" {
		return nil, errors.New("empty preview")
	}
	if strings.HasPrefix(b64, "data:") {
		if i := strings.Index(b64, ","); i >= 0 {
			b64 = b64[i+1:]
		}
	}
	b64 = strings.TrimSpace(b64)

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "="))
		if err != nil {
			return nil, fmt.Errorf("base64: %w", err)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// fitRect scales src into dst keeping its aspect ratio, centred.
func fitRect(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw <= 0 || sh <= 0 {
		return dst
	}

	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// fit shortens s to at most n characters, marking the cut with "...".
func fit(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// drawText writes s with its baseline at y, horizontally centred on x when centred is set.
func drawText(img *image.RGBA, s string, x, y int, c color.Color, centred bool) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	if centred {
		x -= d.MeasureString(s).Ceil() / 2
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}
