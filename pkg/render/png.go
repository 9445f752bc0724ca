package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/flowbridge/pkg/errors"
	"github.com/matzehuels/flowbridge/pkg/layout"
)

// Limits on a rendered PNG. MaxPNGDimension bounds each side and
// MaxPNGPixels the area, which keeps the RGBA buffer at 128 MiB or less.
const (
	MaxPNGDimension = 16384
	MaxPNGPixels    = 32 << 20
)

// RenderPNG rasterizes the same wireframe as RenderSVG. Labels use gg's
// built-in bitmap face.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	fw := math.Ceil(l.ContentWidth() * o.scale)
	fh := math.Ceil(l.ContentHeight * o.scale)
	if !(fw >= 1 && fh >= 1 && fw <= MaxPNGDimension && fh <= MaxPNGDimension) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size %gx%g out of range (max %d per side)", fw, fh, MaxPNGDimension)
	}
	w, h := int(fw), int(fh)
	if w*h > MaxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size %dx%d exceeds %d pixels", w, h, MaxPNGPixels)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(background)
	dc.Clear()
	dc.Scale(o.scale, o.scale)

	for _, s := range l.Sections {
		for _, f := range s.Frames {
			drawFrame(dc, f, o.style.Paint(f, s.Index))
		}
	}
	if o.labels {
		dc.SetHexColor(strokeColor)
		for _, s := range l.Sections {
			for _, f := range s.Frames {
				if text := label(f, s); text != "" {
					dc.DrawStringAnchored(text, f.X+f.Width/2, f.Y+f.Height/2, 0.5, 0.5)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawFrame(dc *gg.Context, f layout.Frame, p Paint) {
	dc.DrawRectangle(f.X, f.Y, f.Width, f.Height)
	if p.Fill != "" {
		dc.SetHexColor(p.Fill)
		dc.FillPreserve()
	}
	dc.SetHexColor(p.Stroke)
	dc.SetLineWidth(p.StrokeWidth)
	if p.Dashed {
		dc.SetDash(4, 3)
	} else {
		dc.SetDash()
	}
	dc.Stroke()
}
