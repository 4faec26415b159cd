package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/schema"
	"gorm.io/datatypes"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func minimalDraft() *schema.Draft {
	return &schema.Draft{
		Content:  strPtr("Hello"),
		Position: &schema.PositionPatch{X: floatPtr(10), Y: floatPtr(10)},
		Size:     &schema.SizePatch{Width: floatPtr(100), Height: floatPtr(40)},
	}
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *schema.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := make([]string, 0, len(validationErr.Violations))
	for _, v := range validationErr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestValidateAppliesDesignDefaults(t *testing.T) {
	overlay, err := minimalDraft().Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	design := overlay.Design.Data()
	want := entity.Design{
		FontSize:  18,
		BgColor:   "#ffffff",
		TextColor: "#000000",
		BgOpacity: 80,
		ShowBg:    true,
	}
	if design != want {
		t.Fatalf("unexpected defaulted design: %#v", design)
	}
	if overlay.Content != "Hello" {
		t.Fatalf("content not carried through: %q", overlay.Content)
	}
	if overlay.Position.X != 10 || overlay.Position.Y != 10 {
		t.Fatalf("position not carried through: %#v", overlay.Position)
	}
}

func TestValidateRejectsOutOfBoundsPosition(t *testing.T) {
	draft := minimalDraft()
	draft.Position.X = floatPtr(150)

	_, err := draft.Validate()
	fields := violationFields(t, err)
	if len(fields) != 1 || fields[0] != "position.x" {
		t.Fatalf("expected a single position.x violation, got %v", fields)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	_, err := (&schema.Draft{}).Validate()
	fields := violationFields(t, err)

	for _, want := range []string{"content", "position", "size"} {
		found := false
		for _, field := range fields {
			if field == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected violation for %s, got %v", want, fields)
		}
	}
}

func TestValidateContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain text", "Breaking news", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"valid url", "https://example.com/logo.png", false},
		{"url with whitespace", "https://example.com/a b", true},
		{"http url", "http://example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := minimalDraft()
			draft.Content = strPtr(tc.content)
			_, err := draft.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected rejection for content %q", tc.content)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected rejection for content %q: %v", tc.content, err)
			}
		})
	}
}

func TestValidateRejectsSmallSize(t *testing.T) {
	draft := minimalDraft()
	draft.Size = &schema.SizePatch{Width: floatPtr(5), Height: floatPtr(9.5)}

	_, err := draft.Validate()
	fields := violationFields(t, err)
	if len(fields) != 2 {
		t.Fatalf("expected width and height violations, got %v", fields)
	}
}

func TestValidateRejectsBadDesign(t *testing.T) {
	draft := minimalDraft()
	draft.Design = &schema.DesignPatch{
		FontSize:  floatPtr(100),
		BgColor:   strPtr("red"),
		BgOpacity: floatPtr(120),
	}

	_, err := draft.Validate()
	fields := violationFields(t, err)
	want := map[string]bool{"design.fontSize": true, "design.bgColor": true, "design.bgOpacity": true}
	if len(fields) != len(want) {
		t.Fatalf("unexpected violations: %v", fields)
	}
	for _, field := range fields {
		if !want[field] {
			t.Fatalf("unexpected violation field %s", field)
		}
	}
}

func TestValidateAcceptsShortHexColors(t *testing.T) {
	draft := minimalDraft()
	draft.Design = &schema.DesignPatch{BgColor: strPtr("#f0a"), TextColor: strPtr("#1A2B3C")}

	overlay, err := draft.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	design := overlay.Design.Data()
	if design.BgColor != "#f0a" || design.TextColor != "#1A2B3C" {
		t.Fatalf("colors not preserved: %#v", design)
	}
}

func TestDecodeDraftRejectsUnknownFields(t *testing.T) {
	body := `{"content":"Hello","zIndex":4}`
	_, err := schema.DecodeDraft(strings.NewReader(body))
	fields := violationFields(t, err)
	if len(fields) != 1 || fields[0] != "zIndex" {
		t.Fatalf("expected zIndex violation, got %v", fields)
	}
}

func TestDecodeDraftRejectsNestedUnknownFields(t *testing.T) {
	body := `{"content":"Hello","position":{"x":1,"y":2,"z":3}}`
	_, err := schema.DecodeDraft(strings.NewReader(body))
	fields := violationFields(t, err)
	if len(fields) != 1 || fields[0] != "z" {
		t.Fatalf("expected z violation, got %v", fields)
	}
}

func TestDecodeDraftRejectsMalformedBody(t *testing.T) {
	_, err := schema.DecodeDraft(strings.NewReader("{not json"))
	fields := violationFields(t, err)
	if len(fields) != 1 || fields[0] != "body" {
		t.Fatalf("expected body violation, got %v", fields)
	}
}

func storedOverlay() *entity.Overlay {
	return &entity.Overlay{
		Content:  "Hello",
		Position: entity.Position{X: 10, Y: 20},
		Size:     entity.Size{Width: 100, Height: 40},
		Design: datatypes.NewJSONType(entity.Design{
			FontSize:  24,
			BgColor:   "#112233",
			TextColor: "#ffffff",
			BgOpacity: 50,
			ShowBg:    true,
		}),
	}
}

func TestApplyContentOnlyPreservesRest(t *testing.T) {
	existing := storedOverlay()
	patch := &schema.Draft{Content: strPtr("Updated")}

	merged, err := patch.Apply(existing)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if merged.Content != "Updated" {
		t.Fatalf("content not updated: %q", merged.Content)
	}
	if merged.Position != existing.Position || merged.Size != existing.Size {
		t.Fatalf("position/size changed: %#v %#v", merged.Position, merged.Size)
	}
	if merged.Design.Data() != existing.Design.Data() {
		t.Fatalf("design changed: %#v", merged.Design.Data())
	}
}

func TestApplyReplacesDesignWholesale(t *testing.T) {
	existing := storedOverlay()
	patch := &schema.Draft{Design: &schema.DesignPatch{FontSize: floatPtr(30)}}

	merged, err := patch.Apply(existing)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	design := merged.Design.Data()
	if design.FontSize != 30 {
		t.Fatalf("fontSize not applied: %v", design.FontSize)
	}
	// Unmentioned design fields fall back to the defaults, they are not
	// deep-merged from the stored sub-document.
	if design.BgColor != schema.DefaultBgColor || design.BgOpacity != schema.DefaultBgOpacity {
		t.Fatalf("design was deep-merged instead of replaced: %#v", design)
	}
}

func TestApplyPartialPositionRejected(t *testing.T) {
	existing := storedOverlay()
	patch := &schema.Draft{Position: &schema.PositionPatch{X: floatPtr(5)}}

	_, err := patch.Apply(existing)
	fields := violationFields(t, err)
	if len(fields) != 1 || fields[0] != "position.y" {
		t.Fatalf("expected position.y violation, got %v", fields)
	}
}

func TestApplyInvalidLeavesExistingUntouched(t *testing.T) {
	existing := storedOverlay()
	patch := &schema.Draft{Position: &schema.PositionPatch{X: floatPtr(300), Y: floatPtr(10)}}

	merged, err := patch.Apply(existing)
	if err == nil {
		t.Fatal("expected rejection of out-of-bounds position")
	}
	if merged != nil {
		t.Fatalf("expected no merged record on rejection, got %#v", merged)
	}
	if existing.Position.X != 10 {
		t.Fatalf("existing record mutated: %#v", existing.Position)
	}
}

func TestClampBounds(t *testing.T) {
	position := schema.ClampPosition(entity.Position{X: -5, Y: 150})
	if position.X != 0 || position.Y != 100 {
		t.Fatalf("unexpected clamped position: %#v", position)
	}

	size := schema.ClampSize(entity.Size{Width: 2, Height: 500})
	if size.Width != 10 || size.Height != 500 {
		t.Fatalf("unexpected clamped size: %#v", size)
	}

	design := schema.ClampDesign(entity.Design{
		FontSize:  200,
		BgColor:   "not-a-color",
		TextColor: "#abc",
		BgOpacity: -1,
		ShowBg:    true,
	})
	if design.FontSize != 72 || design.BgOpacity != 0 {
		t.Fatalf("numeric design fields not clamped: %#v", design)
	}
	if design.BgColor != schema.DefaultBgColor {
		t.Fatalf("invalid bgColor not reset: %q", design.BgColor)
	}
	if design.TextColor != "#abc" {
		t.Fatalf("valid textColor rewritten: %q", design.TextColor)
	}
}
