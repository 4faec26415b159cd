package surface

import (
	"fmt"
	"strconv"

	"github.com/tnqbao/gau-stream-overlay/entity"
)

// Frame is the rendered pixel size of the video element.
type Frame struct {
	Width  float64
	Height float64
}

// Box is one overlay resolved to frame pixels, ready to draw.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64

	Text       string
	FontSize   float64
	TextColor  string
	Background string
}

// Render maps the collection onto the frame. It is a pure function of its
// inputs: the surface holds no state of its own.
func Render(frame Frame, overlays []entity.Overlay) []Box {
	boxes := make([]Box, 0, len(overlays))
	for i := range overlays {
		boxes = append(boxes, renderOne(frame, &overlays[i]))
	}
	return boxes
}

func renderOne(frame Frame, overlay *entity.Overlay) Box {
	design := overlay.Design.Data()

	// The percentage position is the box center, not its corner.
	centerX := frame.Width * overlay.Position.X / 100
	centerY := frame.Height * overlay.Position.Y / 100

	return Box{
		Left:       centerX - overlay.Size.Width/2,
		Top:        centerY - overlay.Size.Height/2,
		Width:      overlay.Size.Width,
		Height:     overlay.Size.Height,
		Text:       overlay.Content,
		FontSize:   design.FontSize,
		TextColor:  design.TextColor,
		Background: background(design),
	}
}

// background blends the hex background color with the opacity percentage,
// or goes fully transparent when the background is disabled.
func background(design entity.Design) string {
	if !design.ShowBg {
		return "transparent"
	}
	r, g, b, err := parseHexColor(design.BgColor)
	if err != nil {
		return "transparent"
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, b, design.BgOpacity/100)
}

func parseHexColor(hex string) (r, g, b uint8, err error) {
	if len(hex) == 0 || hex[0] != '#' {
		return 0, 0, 0, fmt.Errorf("not a hex color: %q", hex)
	}
	digits := hex[1:]

	switch len(digits) {
	case 3:
		// #abc is shorthand for #aabbcc
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = digits[i]
			expanded[2*i+1] = digits[i]
		}
		digits = string(expanded)
	case 6:
	default:
		return 0, 0, 0, fmt.Errorf("not a hex color: %q", hex)
	}

	channels := make([]uint8, 3)
	for i := 0; i < 3; i++ {
		value, parseErr := strconv.ParseUint(digits[2*i:2*i+2], 16, 8)
		if parseErr != nil {
			return 0, 0, 0, fmt.Errorf("not a hex color: %q", hex)
		}
		channels[i] = uint8(value)
	}
	return channels[0], channels[1], channels[2], nil
}
