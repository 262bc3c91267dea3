// Package render draws object sets as PNG previews.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// MaxDimension bounds the rendered canvas on either axis after scaling.
const MaxDimension = 4096

// Image contains the encoded preview.
type Image struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Canvas paints the objects of set in order onto a white canvas of the set's
// size. Later objects cover earlier ones; parts outside the canvas are
// clipped.
func Canvas(set *region.ObjectSet) (*image.NRGBA, error) {
	if set.Width <= 0 || set.Height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", set.Width, set.Height)
	}
	if set.Width > MaxDimension || set.Height > MaxDimension {
		return nil, fmt.Errorf("canvas %dx%d exceeds %d pixels per side", set.Width, set.Height, MaxDimension)
	}
	return paint(set.Objects, set.Width, set.Height), nil
}

func paint(objects []region.Region, width, height int) *image.NRGBA {
	canvas := imaging.New(width, height, color.White)
	bounds := canvas.Bounds()
	for _, obj := range objects {
		rect := image.Rect(obj.X1, obj.Y1, obj.X2, obj.Y2).Intersect(bounds)
		if rect.Empty() {
			continue
		}
		fill := imaging.New(rect.Dx(), rect.Dy(), color.NRGBA{R: obj.Color.R, G: obj.Color.G, B: obj.Color.B, A: 255})
		canvas = imaging.Paste(canvas, fill, rect.Min)
	}
	return canvas
}

// ObjectSet renders set as a base64 PNG. A scale other than 0 or 1 resizes
// the canvas with nearest-neighbor sampling so edges stay sharp.
func ObjectSet(set *region.ObjectSet, scale float64) (*Image, error) {
	canvas, err := Canvas(set)
	if err != nil {
		return nil, err
	}
	return encode(canvas, scale)
}

// Diff renders the per-pixel difference of two sets on a canvas large enough
// for both. Unchanged pixels come out black.
func Diff(a, b *region.ObjectSet, scale float64) (*Image, error) {
	width, height := max(a.Width, b.Width), max(a.Height, b.Height)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("canvas %dx%d exceeds %d pixels per side", width, height, MaxDimension)
	}

	diff := blend.Difference(paint(a.Objects, width, height), paint(b.Objects, width, height))
	return encode(diff, scale)
}

func encode(img image.Image, scale float64) (*Image, error) {
	if scale < 0 {
		return nil, fmt.Errorf("scale must not be negative, got %g", scale)
	}
	if scale != 0 && scale != 1 {
		w := int(float64(img.Bounds().Dx()) * scale)
		h := int(float64(img.Bounds().Dy()) * scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g leaves an empty image", scale)
		}
		if w > MaxDimension || h > MaxDimension {
			return nil, fmt.Errorf("scaled size %dx%d exceeds %d pixels per side", w, h, MaxDimension)
		}
		img = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Image{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
