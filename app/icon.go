// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/exp/shiny/iconvg"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxIconSize is the largest icon dimension passed to the platform.
// Larger icons are scaled down.
const MaxIconSize = 256

// DecodeIcon decodes an icon in PNG, JPEG, GIF, BMP, TIFF, WebP or
// IconVG format. Errors wrap ErrInvalidIcon.
func DecodeIcon(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrInvalidIcon)
	}
	if m, err := iconvg.DecodeMetadata(data); err == nil {
		return rasterizeIcon(data, m)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIcon, err)
	}
	return fitIcon(img), nil
}

// IconFromRGBA returns an icon from raw, non-premultiplied RGBA pixels.
func IconFromRGBA(pix []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrInvalidIcon, width, height)
	}
	if n := width * height * 4; len(pix) != n {
		return nil, fmt.Errorf("%w: got %d bytes of pixel data, want %d", ErrInvalidIcon, len(pix), n)
	}
	img := &image.NRGBA{
		Pix:    append([]byte(nil), pix...),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return fitIcon(img), nil
}

func rasterizeIcon(data []byte, m iconvg.Metadata) (*image.NRGBA, error) {
	dx, dy := m.ViewBox.AspectRatio()
	if !(dx > 0 && dy > 0) || math.IsInf(float64(dx), 0) || math.IsInf(float64(dy), 0) {
		return nil, fmt.Errorf("%w: invalid IconVG view box %v", ErrInvalidIcon, m.ViewBox)
	}
	w, h := MaxIconSize, MaxIconSize
	if dx >= dy {
		h = max(1, int(float32(MaxIconSize)*dy/dx))
	} else {
		w = max(1, int(float32(MaxIconSize)*dx/dy))
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var ico iconvg.Rasterizer
	ico.SetDstImage(img, img.Bounds(), draw.Src)
	m.Palette[0] = color.RGBA{A: 0xff}
	if err := iconvg.Decode(&ico, data, &iconvg.DecodeOptions{
		Palette: &m.Palette,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIcon, err)
	}
	return toNRGBA(img), nil
}

// fitIcon converts img to NRGBA, scaled down to at most MaxIconSize
// pixels on its longest side.
func fitIcon(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxIconSize && h <= MaxIconSize {
		return toNRGBA(img)
	}
	if w >= h {
		w, h = MaxIconSize, max(1, h*MaxIconSize/w)
	} else {
		w, h = max(1, w*MaxIconSize/h), MaxIconSize
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
