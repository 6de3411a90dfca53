// Package render draws the keyboard face.
package render

import (
	"embed"
	"fmt"
	"image"
	"image/color"
	"strings"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/layout"
	"deedles.dev/wlkbd/shm/shmimage"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

//go:embed icons/*.svg
var icons embed.FS

var (
	colorBackground = color.RGBA{255, 255, 255, 255}
	colorKey        = colornames.Darkslategray
	colorKeyActive  = colornames.Steelblue
	colorToggle     = colornames.Dimgray
	colorLabel      = colornames.Whitesmoke
)

// Transparent is what fully white pixels are replaced with in the
// final buffer.
var Transparent = shmimage.NewARGB8888Color(50, 50, 50, 50)

// Renderer draws a KeyLayout. It caches font faces between calls and
// is not safe for concurrent use.
type Renderer struct {
	layout *layout.KeyLayout
	font   *opentype.Font
	faces  map[int]font.Face
}

// New returns a Renderer for kl.
func New(kl *layout.KeyLayout) (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	for _, name := range []layout.Icon{layout.IconBackspace, layout.IconEnter, layout.IconShift, layout.IconCapsLock, "chevron-down", "chevron-up"} {
		_, err := icons.ReadFile(iconPath(name))
		if err != nil {
			return nil, fmt.Errorf("icon %q: %w", name, err)
		}
	}

	return &Renderer{
		layout: kl,
		font:   f,
		faces:  make(map[int]font.Face),
	}, nil
}

// Close releases the cached font faces.
func (r *Renderer) Close() error {
	for size, face := range r.faces {
		face.Close()
		delete(r.faces, size)
	}
	return nil
}

// Render draws the full keyboard at the given size with mods applied
// and returns the result.
func (r *Renderer) Render(size image.Point, mods keys.Modifiers) (*shmimage.ARGB8888, error) {
	dst := shmimage.NewARGB8888(image.Rectangle{Max: size})
	err := r.Draw(dst, mods)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// Draw draws the full keyboard into dst.
func (r *Renderer) Draw(dst *shmimage.ARGB8888, mods keys.Modifiers) error {
	size := dst.Bounds().Size()
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	g := layout.Geometry{Width: size.X, Height: size.Y}
	if g.Step() <= 0 {
		encode(dst, img)
		return nil
	}

	var caps []keyCap
	for row := range layout.Rows {
		ks := r.layout.Row(row)
		for col, k := range ks {
			c := colorKey
			if m := k.Modifier(); (m != 0) && mods.Has(m) {
				c = colorKeyActive
			}
			caps = append(caps, keyCap{Rect: g.KeyRect(row, col, len(ks)), Color: c})
		}
	}
	caps = append(caps, keyCap{Rect: g.ToggleRect(), Color: colorToggle})

	err := drawCaps(img, caps, g.Step()/20)
	if err != nil {
		return err
	}

	for row := range layout.Rows {
		ks := r.layout.Row(row)
		for col, k := range ks {
			rect := g.KeyRect(row, col, len(ks))
			if k.Icon != layout.NoIcon {
				err := drawIcon(img, k.Icon, rect, colorLabel)
				if err != nil {
					return err
				}
				continue
			}
			r.drawLabel(img, k.Text(mods), rect, colorLabel)
		}
	}

	err = drawIcon(img, "chevron-down", g.ToggleRect(), colorLabel)
	if err != nil {
		return err
	}

	encode(dst, img)
	return nil
}

// DrawMinimized draws the bar that is shown while the keyboard is
// minimized. It only holds the restore button at its right end.
func (r *Renderer) DrawMinimized(dst *shmimage.ARGB8888) error {
	size := dst.Bounds().Size()
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	if size.Y > 0 {
		button := image.Rect(size.X-3*size.Y, 0, size.X, size.Y)
		err := drawCaps(img, []keyCap{{Rect: button, Color: colorToggle}}, size.Y/10)
		if err != nil {
			return err
		}
		err = drawIcon(img, "chevron-up", button, colorLabel)
		if err != nil {
			return err
		}
	}

	encode(dst, img)
	return nil
}

type keyCap struct {
	Rect  image.Rectangle
	Color color.RGBA
}

// drawCaps draws the key caps as one SVG document.
func drawCaps(img *image.RGBA, caps []keyCap, inset int) error {
	size := img.Bounds().Size()
	inset = max(inset, 1)

	var svg strings.Builder
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %[1]d %[2]d">`, size.X, size.Y)
	for _, c := range caps {
		rect := c.Rect.Inset(inset)
		if rect.Empty() {
			continue
		}
		fmt.Fprintf(
			&svg,
			`<rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="%s"/>`,
			rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), 2*inset, hex(c.Color),
		)
	}
	svg.WriteString(`</svg>`)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg.String()))
	if err != nil {
		return fmt.Errorf("parse key caps: %w", err)
	}
	icon.SetTarget(0, 0, float64(size.X), float64(size.Y))

	scanner := rasterx.NewScannerGV(size.X, size.Y, img, img.Bounds())
	raster := rasterx.NewDasher(size.X, size.Y, scanner)
	icon.Draw(raster, 1)

	return nil
}

func iconPath(name layout.Icon) string {
	return "icons/" + string(name) + ".svg"
}

// drawIcon draws a square icon centered in rect, filling half of its
// smaller side.
func drawIcon(img *image.RGBA, name layout.Icon, rect image.Rectangle, col color.Color) error {
	data, err := icons.ReadFile(iconPath(name))
	if err != nil {
		return fmt.Errorf("icon %q: %w", name, err)
	}

	size := min(rect.Dx(), rect.Dy()) / 2
	if size <= 0 {
		return nil
	}

	svg := strings.ReplaceAll(string(data), "currentColor", hex(col))
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return fmt.Errorf("parse icon %q: %w", name, err)
	}

	glyph := image.NewRGBA(image.Rect(0, 0, size, size))
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, glyph, glyph.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1)

	c := rect.Min.Add(rect.Size().Div(2))
	at := image.Rect(c.X-size/2, c.Y-size/2, c.X-size/2+size, c.Y-size/2+size)
	draw.Draw(img, at, glyph, image.Point{}, draw.Over)
	return nil
}

// face returns a face of the given pixel size.
func (r *Renderer) face(size int) font.Face {
	if face, ok := r.faces[size]; ok {
		return face
	}

	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only invalid options cause an error.
		panic(err)
	}
	r.faces[size] = face
	return face
}

// drawLabel draws text centered in rect. The text is shrunk until it
// fits in most of the rectangle's width.
func (r *Renderer) drawLabel(img *image.RGBA, text string, rect image.Rectangle, col color.Color) {
	if text == "" {
		return
	}

	size := rect.Dy() * 2 / 5
	maxWidth := rect.Dx() * 4 / 5
	if size <= 0 || maxWidth <= 0 {
		return
	}

	face := r.face(size)
	width := font.MeasureString(face, text).Ceil()
	if width > maxWidth {
		size = max(size*maxWidth/width, 6)
		face = r.face(size)
		width = font.MeasureString(face, text).Ceil()
	}

	m := face.Metrics()
	c := rect.Min.Add(rect.Size().Div(2))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(c.X - width/2),
			Y: fixed.I(c.Y + (m.Ascent.Ceil()-m.Descent.Ceil())/2),
		},
	}
	d.DrawString(text)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// encode copies src into dst, replacing every fully white pixel with
// Transparent.
func encode(dst *shmimage.ARGB8888, src *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := src.PixOffset(x-b.Min.X, y-b.Min.Y)
			p := src.Pix[i : i+4 : i+4]
			if p[0] == 255 && p[1] == 255 && p[2] == 255 {
				dst.SetARGB8888(x, y, Transparent)
				continue
			}
			dst.SetARGB8888(x, y, shmimage.NewARGB8888Color(p[0], p[1], p[2], p[3]))
		}
	}
}
