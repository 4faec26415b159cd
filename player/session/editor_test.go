package session_test

import (
	"testing"

	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/player/session"
	"github.com/tnqbao/gau-stream-overlay/schema"
)

func TestEditorDefaults(t *testing.T) {
	store := loadedStore(t, &fakeAPI{})
	editor := session.NewEditor(store)

	if editor.Content != "" {
		t.Fatalf("unexpected default content: %q", editor.Content)
	}
	if editor.Position != (entity.Position{X: 10, Y: 10}) {
		t.Fatalf("unexpected default position: %#v", editor.Position)
	}
	if editor.Size != (entity.Size{Width: 100, Height: 40}) {
		t.Fatalf("unexpected default size: %#v", editor.Size)
	}
	if editor.Design != schema.DefaultDesign() {
		t.Fatalf("unexpected default design: %#v", editor.Design)
	}
	if editor.Editing() {
		t.Fatal("fresh editor must not be in edit mode")
	}
}

func TestEditorSubmitCreatesAndResets(t *testing.T) {
	api := &fakeAPI{}
	store := loadedStore(t, api)
	editor := session.NewEditor(store)

	var submitted *schema.Draft
	api.create = func(draft *schema.Draft) (*entity.Overlay, error) {
		submitted = draft
		record := serverOverlay("Hello")
		return &record, nil
	}

	editor.Content = "Hello"
	if _, err := editor.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if submitted == nil || submitted.Content == nil || *submitted.Content != "Hello" {
		t.Fatalf("unexpected submitted draft: %#v", submitted)
	}
	if editor.Content != "" {
		t.Fatal("successful create must clear the form")
	}
}

func TestEditorClampsBeforeSubmit(t *testing.T) {
	api := &fakeAPI{}
	store := loadedStore(t, api)
	editor := session.NewEditor(store)

	var captured *schema.Draft
	api.create = func(draft *schema.Draft) (*entity.Overlay, error) {
		captured = draft
		record := serverOverlay("clamped")
		return &record, nil
	}

	editor.Content = "clamped"
	editor.Position = entity.Position{X: 150, Y: -5}
	editor.Size = entity.Size{Width: 2, Height: 40}
	editor.Design.FontSize = 500
	if _, err := editor.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if *captured.Position.X != schema.MaxPosition || *captured.Position.Y != schema.MinPosition {
		t.Fatalf("position not clamped: %v, %v", *captured.Position.X, *captured.Position.Y)
	}
	if *captured.Size.Width != schema.MinBoxEdge {
		t.Fatalf("size not clamped: %v", *captured.Size.Width)
	}
	if *captured.Design.FontSize != schema.MaxFontSize {
		t.Fatalf("font size not clamped: %v", *captured.Design.FontSize)
	}
}

func TestEditorEditFlow(t *testing.T) {
	api := &fakeAPI{}
	existing := serverOverlay("before")
	store := loadedStore(t, api, existing)
	editor := session.NewEditor(store)

	if err := editor.LoadOverlay(existing.ID.String()); err != nil {
		t.Fatalf("load overlay failed: %v", err)
	}
	if !editor.Editing() {
		t.Fatal("expected edit mode after load")
	}
	if editor.Content != "before" {
		t.Fatalf("form not populated: %q", editor.Content)
	}

	updated := existing
	updated.Content = "after"
	var patchedID string
	api.update = func(id string, patch *schema.Draft) (*entity.Overlay, error) {
		patchedID = id
		record := updated
		return &record, nil
	}

	editor.Content = "after"
	if _, err := editor.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if patchedID != existing.ID.String() {
		t.Fatalf("update targeted wrong record: %s", patchedID)
	}
	if editor.Editing() {
		t.Fatal("successful update must leave edit mode")
	}
	if editor.Content != "after" {
		t.Fatal("successful update must keep the form intact")
	}
}

func TestEditorResetLeavesEditMode(t *testing.T) {
	api := &fakeAPI{}
	existing := serverOverlay("record")
	store := loadedStore(t, api, existing)
	editor := session.NewEditor(store)

	if err := editor.LoadOverlay(existing.ID.String()); err != nil {
		t.Fatalf("load overlay failed: %v", err)
	}
	editor.Reset()

	if editor.Editing() {
		t.Fatal("reset must leave edit mode")
	}
	if editor.Design != schema.DefaultDesign() {
		t.Fatalf("reset did not restore defaults: %#v", editor.Design)
	}
}
