package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionHeight fits one line of basicfont.Face7x13 with padding.
const captionHeight = 20

// Caption returns the PNG with a dark strip below it carrying text.
func Caption(data []byte, text string) ([]byte, error) {
	src, err := decode(data)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+captionHeight))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), src, b.Min, draw.Src)

	strip := image.Rect(0, b.Dy(), b.Dx(), b.Dy()+captionHeight)
	draw.Draw(out, strip, image.NewUniform(color.RGBA{R: 32, G: 32, B: 32, A: 255}), image.Point{}, draw.Src)

	// Characters are 7px wide; cut the text to the image width.
	if limit := (b.Dx() - 8) / 7; limit > 0 && len(text) > limit {
		text = text[:limit]
	}
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, b.Dy()+captionHeight-6),
	}
	d.DrawString(text)
	return encode(out)
}

// Scale resizes the PNG to width pixels, keeping the aspect ratio. Images
// already that width are returned unchanged.
func Scale(data []byte, width int) ([]byte, error) {
	src, err := decode(data)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if width <= 0 || b.Dx() == width || b.Dx() == 0 {
		return data, nil
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), src, b, draw.Src, nil)
	return encode(out)
}

func decode(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
