package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/tnqbao/gau-stream-overlay/entity"
	"gorm.io/datatypes"
)

// Shared validation contract for overlay writes. The HTTP controllers run it
// as the authoritative check before persistence; the player editor runs the
// same bounds client-side so a draft that passes locally cannot fail remotely.

const (
	MinPosition = 0
	MaxPosition = 100
	MinBoxEdge  = 10
	MinFontSize = 8
	MaxFontSize = 72
	MinOpacity  = 0
	MaxOpacity  = 100

	DefaultFontSize  = 18
	DefaultBgColor   = "#ffffff"
	DefaultTextColor = "#000000"
	DefaultBgOpacity = 80
	DefaultShowBg    = true
)

var (
	hexColorPattern = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	bareURLPattern  = regexp.MustCompile(`^https?://\S+$`)
	unknownFieldRe  = regexp.MustCompile(`unknown field "(.*)"`)
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field violations for a rejected
// write. No partial acceptance: one violation rejects the whole document.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}

// PositionPatch, SizePatch and DesignPatch use pointer fields so an omitted
// field is distinguishable from a zero value.
type PositionPatch struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type SizePatch struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type DesignPatch struct {
	FontSize  *float64 `json:"fontSize"`
	BgColor   *string  `json:"bgColor"`
	TextColor *string  `json:"textColor"`
	BgOpacity *float64 `json:"bgOpacity"`
	ShowBg    *bool    `json:"showBg"`
}

// Draft is a client-constructed overlay payload, either a full document for
// create or a partial one for update.
type Draft struct {
	Content  *string        `json:"content"`
	Position *PositionPatch `json:"position"`
	Size     *SizePatch     `json:"size"`
	Design   *DesignPatch   `json:"design"`
}

// DecodeDraft parses a request body in strict mode: any field outside the
// schema rejects the whole write.
func DecodeDraft(r io.Reader) (*Draft, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var draft Draft
	if err := decoder.Decode(&draft); err != nil {
		if match := unknownFieldRe.FindStringSubmatch(err.Error()); match != nil {
			return nil, newValidationError(match[1], "field is not part of the overlay schema")
		}
		return nil, newValidationError("body", "request body is not a valid overlay document")
	}
	return &draft, nil
}

func DefaultDesign() entity.Design {
	return entity.Design{
		FontSize:  DefaultFontSize,
		BgColor:   DefaultBgColor,
		TextColor: DefaultTextColor,
		BgOpacity: DefaultBgOpacity,
		ShowBg:    DefaultShowBg,
	}
}

// Validate checks a full draft for create and returns the normalized record
// (without id and timestamps, which the repository assigns).
func (d *Draft) Validate() (*entity.Overlay, error) {
	var violations []Violation

	content := ""
	if d.Content == nil {
		violations = append(violations, Violation{Field: "content", Message: "content is required"})
	} else {
		content = *d.Content
		violations = append(violations, checkContent(content)...)
	}

	var position entity.Position
	if d.Position == nil {
		violations = append(violations, Violation{Field: "position", Message: "position is required"})
	} else {
		p, vs := resolvePosition(d.Position)
		position = p
		violations = append(violations, vs...)
	}

	var size entity.Size
	if d.Size == nil {
		violations = append(violations, Violation{Field: "size", Message: "size is required"})
	} else {
		s, vs := resolveSize(d.Size)
		size = s
		violations = append(violations, vs...)
	}

	design, vs := resolveDesign(d.Design)
	violations = append(violations, vs...)

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	return &entity.Overlay{
		Content:  content,
		Position: position,
		Size:     size,
		Design:   datatypes.NewJSONType(design),
	}, nil
}

// Apply merges the draft onto an existing record: shallow per top-level
// field, nested objects replaced wholesale when present and kept when
// omitted. The input record is untouched; the merged copy is returned only
// when it validates.
func (d *Draft) Apply(existing *entity.Overlay) (*entity.Overlay, error) {
	if existing == nil {
		return nil, errors.New("schema: cannot apply draft to nil overlay")
	}
	merged := *existing

	var violations []Violation

	if d.Content != nil {
		merged.Content = *d.Content
		violations = append(violations, checkContent(merged.Content)...)
	}
	if d.Position != nil {
		p, vs := resolvePosition(d.Position)
		merged.Position = p
		violations = append(violations, vs...)
	}
	if d.Size != nil {
		s, vs := resolveSize(d.Size)
		merged.Size = s
		violations = append(violations, vs...)
	}
	if d.Design != nil {
		design, vs := resolveDesign(d.Design)
		merged.Design = datatypes.NewJSONType(design)
		violations = append(violations, vs...)
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return &merged, nil
}

func checkContent(content string) []Violation {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []Violation{{Field: "content", Message: "content must not be empty"}}
	}
	// URL-looking content must be a bare URL, anything else is free text.
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if !bareURLPattern.MatchString(trimmed) {
			return []Violation{{Field: "content", Message: "content looks like a URL but is not a valid one"}}
		}
	}
	return nil
}

func resolvePosition(patch *PositionPatch) (entity.Position, []Violation) {
	var position entity.Position
	var violations []Violation

	if patch.X == nil {
		violations = append(violations, Violation{Field: "position.x", Message: "position.x is required"})
	} else {
		position.X = *patch.X
		if position.X < MinPosition || position.X > MaxPosition {
			violations = append(violations, Violation{
				Field:   "position.x",
				Message: fmt.Sprintf("position.x must be between %d and %d", MinPosition, MaxPosition),
			})
		}
	}
	if patch.Y == nil {
		violations = append(violations, Violation{Field: "position.y", Message: "position.y is required"})
	} else {
		position.Y = *patch.Y
		if position.Y < MinPosition || position.Y > MaxPosition {
			violations = append(violations, Violation{
				Field:   "position.y",
				Message: fmt.Sprintf("position.y must be between %d and %d", MinPosition, MaxPosition),
			})
		}
	}
	return position, violations
}

func resolveSize(patch *SizePatch) (entity.Size, []Violation) {
	var size entity.Size
	var violations []Violation

	if patch.Width == nil {
		violations = append(violations, Violation{Field: "size.width", Message: "size.width is required"})
	} else {
		size.Width = *patch.Width
		if size.Width < MinBoxEdge {
			violations = append(violations, Violation{
				Field:   "size.width",
				Message: fmt.Sprintf("size.width must be at least %d", MinBoxEdge),
			})
		}
	}
	if patch.Height == nil {
		violations = append(violations, Violation{Field: "size.height", Message: "size.height is required"})
	} else {
		size.Height = *patch.Height
		if size.Height < MinBoxEdge {
			violations = append(violations, Violation{
				Field:   "size.height",
				Message: fmt.Sprintf("size.height must be at least %d", MinBoxEdge),
			})
		}
	}
	return size, violations
}

// resolveDesign starts from the defaults and overlays the provided fields,
// so a design patch always resolves to a complete sub-document.
func resolveDesign(patch *DesignPatch) (entity.Design, []Violation) {
	design := DefaultDesign()
	if patch == nil {
		return design, nil
	}

	var violations []Violation
	if patch.FontSize != nil {
		design.FontSize = *patch.FontSize
		if design.FontSize < MinFontSize || design.FontSize > MaxFontSize {
			violations = append(violations, Violation{
				Field:   "design.fontSize",
				Message: fmt.Sprintf("design.fontSize must be between %d and %d", MinFontSize, MaxFontSize),
			})
		}
	}
	if patch.BgColor != nil {
		design.BgColor = *patch.BgColor
		if !hexColorPattern.MatchString(design.BgColor) {
			violations = append(violations, Violation{Field: "design.bgColor", Message: "design.bgColor must be a hex color"})
		}
	}
	if patch.TextColor != nil {
		design.TextColor = *patch.TextColor
		if !hexColorPattern.MatchString(design.TextColor) {
			violations = append(violations, Violation{Field: "design.textColor", Message: "design.textColor must be a hex color"})
		}
	}
	if patch.BgOpacity != nil {
		design.BgOpacity = *patch.BgOpacity
		if design.BgOpacity < MinOpacity || design.BgOpacity > MaxOpacity {
			violations = append(violations, Violation{
				Field:   "design.bgOpacity",
				Message: fmt.Sprintf("design.bgOpacity must be between %d and %d", MinOpacity, MaxOpacity),
			})
		}
	}
	if patch.ShowBg != nil {
		design.ShowBg = *patch.ShowBg
	}
	return design, violations
}
