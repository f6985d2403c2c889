package utils

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

	"github.com/EasterCompany/package-builder-service/internal/fuel"
)

const (
	badgeWidth  = 160
	badgeHeight = 40
	badgeScale  = 2
)

var zoneColors = map[string]color.RGBA{
	"empty":  {R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
	"low":    {R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
	"steady": {R: 0xfb, G: 0x8c, B: 0x00, A: 0xff},
	"high":   {R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
	"gold":   {R: 0xff, G: 0xc1, B: 0x07, A: 0xff},
}

// RenderFuelBadge draws the dashboard fuel gauge as a PNG.
func RenderFuelBadge(s fuel.State) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, badgeWidth, badgeHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 0x26, G: 0x32, B: 0x38, A: 0xff}}, image.Point{}, draw.Src)

	// Gauge track and fill, proportional to the next milestone.
	track := image.Rect(6, 24, badgeWidth-6, 34)
	draw.Draw(img, track, &image.Uniform{C: color.RGBA{R: 0x45, G: 0x5a, B: 0x64, A: 0xff}}, image.Point{}, draw.Src)
	if fill := gaugeWidth(s, track.Dx()); fill > 0 {
		fg, ok := zoneColors[s.Zone]
		if !ok {
			fg = zoneColors["empty"]
		}
		draw.Draw(img, image.Rect(track.Min.X, track.Min.Y, track.Min.X+fill, track.Max.Y), &image.Uniform{C: fg}, image.Point{}, draw.Src)
	}

	label := fmt.Sprintf("FUEL %d/%d %s", s.CurrentFuel, s.NextMilestone, s.Zone)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 16),
	}
	d.DrawString(label)

	scaled := image.NewRGBA(image.Rect(0, 0, badgeWidth*badgeScale, badgeHeight*badgeScale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode badge: %w", err)
	}
	return buf.Bytes(), nil
}

func gaugeWidth(s fuel.State, max int) int {
	if s.NextMilestone <= 0 || s.CurrentFuel <= 0 {
		return 0
	}
	w := s.CurrentFuel * max / s.NextMilestone
	if w > max {
		w = max
	}
	return w
}
