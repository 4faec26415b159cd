package schema

import "github.com/tnqbao/gau-stream-overlay/entity"

// Clamp helpers for the player editor. The editor snaps out-of-range form
// input to the same bounds the server enforces instead of rejecting it.

func ClampPosition(position entity.Position) entity.Position {
	position.X = clamp(position.X, MinPosition, MaxPosition)
	position.Y = clamp(position.Y, MinPosition, MaxPosition)
	return position
}

func ClampSize(size entity.Size) entity.Size {
	if size.Width < MinBoxEdge {
		size.Width = MinBoxEdge
	}
	if size.Height < MinBoxEdge {
		size.Height = MinBoxEdge
	}
	return size
}

// ClampDesign clamps the numeric design fields and falls back to the
// defaults for colors that are not valid hex.
func ClampDesign(design entity.Design) entity.Design {
	design.FontSize = clamp(design.FontSize, MinFontSize, MaxFontSize)
	design.BgOpacity = clamp(design.BgOpacity, MinOpacity, MaxOpacity)
	if !hexColorPattern.MatchString(design.BgColor) {
		design.BgColor = DefaultBgColor
	}
	if !hexColorPattern.MatchString(design.TextColor) {
		design.TextColor = DefaultTextColor
	}
	return design
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
