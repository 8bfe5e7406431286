// Package barcode renders EAN-13 barcode images for tags.
package barcode

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/big"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// NumberLength is the length of the generated numeral; EAN-13 adds the check digit.
const NumberLength = 12

const (
	FormatPNG  = "png"
	FormatWebP = "webp"

	moduleWidth = 3
	barHeight   = 120
	quietZone   = 24
	captionGap  = 16
)

type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	// Content is the encoded EAN-13 value, check digit included.
	Content string
}

type Generator struct {
	format string
	digit  func() (int, error)
}

func NewGenerator(format string) *Generator {
	if format != FormatWebP {
		format = FormatPNG
	}
	return &Generator{format: format, digit: randomDigit}
}

func (g *Generator) Format() string { return g.format }

// NewNumber returns a random NumberLength-digit numeral string.
func (g *Generator) NewNumber() (string, error) {
	var b strings.Builder
	b.Grow(NumberLength)
	for i := 0; i < NumberLength; i++ {
		d, err := g.digit()
		if err != nil {
			return "", fmt.Errorf("random digit: %w", err)
		}
		b.WriteByte(byte('0' + d))
	}
	return b.String(), nil
}

// Render encodes number as EAN-13 with the digits printed under the bars.
func (g *Generator) Render(number string) (Image, error) {
	code, err := ean.Encode(number)
	if err != nil {
		return Image{}, fmt.Errorf("encode ean13 %q: %w", number, err)
	}

	bars, err := barcode.Scale(code, code.Bounds().Dx()*moduleWidth, barHeight)
	if err != nil {
		return Image{}, fmt.Errorf("scale barcode: %w", err)
	}

	canvas := compose(bars, code.Content())

	var buf bytes.Buffer
	img := Image{Content: code.Content()}
	switch g.format {
	case FormatWebP:
		err = webp.Encode(&buf, canvas, &webp.Options{Lossless: true})
		img.ContentType, img.Ext = "image/webp", "webp"
	default:
		err = png.Encode(&buf, canvas)
		img.ContentType, img.Ext = "image/png", "png"
	}
	if err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", g.format, err)
	}
	img.Data = buf.Bytes()
	return img, nil
}

func compose(bars image.Image, caption string) *image.RGBA {
	face := basicfont.Face7x13
	b := bars.Bounds()

	width := b.Dx() + 2*quietZone
	height := b.Dy() + 2*quietZone + captionGap
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(canvas, b.Add(image.Pt(quietZone, quietZone)), bars, b.Min, draw.Src)

	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: face}
	textWidth := d.MeasureString(caption).Ceil()
	d.Dot = fixed.P((width-textWidth)/2, quietZone+b.Dy()+captionGap)
	d.DrawString(caption)

	return canvas
}

func randomDigit() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
