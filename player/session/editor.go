package session

import (
	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/schema"
)

// Form defaults mirror the minimal draft a fresh editor submits.
const (
	defaultPositionX = 10
	defaultPositionY = 10
	defaultBoxWidth  = 100
	defaultBoxHeight = 40
)

// Editor builds a validated draft from form fields. Out-of-range numeric
// input is clamped to the shared schema bounds before submission, so a draft
// that leaves the editor cannot fail the server's bound checks.
type Editor struct {
	store *Store

	Content  string
	Position entity.Position
	Size     entity.Size
	Design   entity.Design
}

func NewEditor(store *Store) *Editor {
	editor := &Editor{store: store}
	editor.Reset()
	return editor
}

// Reset returns the form to its defaults and leaves edit mode.
func (e *Editor) Reset() {
	e.Content = ""
	e.Position = entity.Position{X: defaultPositionX, Y: defaultPositionY}
	e.Size = entity.Size{Width: defaultBoxWidth, Height: defaultBoxHeight}
	e.Design = schema.DefaultDesign()
	e.store.CancelEdit()
}

// LoadOverlay loads an existing record's fields into the form and marks it
// as the edit target.
func (e *Editor) LoadOverlay(id string) error {
	overlay, err := e.store.BeginEdit(id)
	if err != nil {
		return err
	}
	e.Content = overlay.Content
	e.Position = overlay.Position
	e.Size = overlay.Size
	e.Design = overlay.Design.Data()
	return nil
}

// Editing reports whether a submit will update an existing record.
func (e *Editor) Editing() bool {
	return e.store.EditingID() != ""
}

// Submit clamps the form fields, builds the draft and dispatches to create
// or update. A successful create clears the form; a successful update leaves
// edit mode with the form intact.
func (e *Editor) Submit() (*entity.Overlay, error) {
	e.Position = schema.ClampPosition(e.Position)
	e.Size = schema.ClampSize(e.Size)
	e.Design = schema.ClampDesign(e.Design)

	draft := e.draft()

	if editingID := e.store.EditingID(); editingID != "" {
		overlay, err := e.store.Update(editingID, draft)
		if err != nil {
			return nil, err
		}
		e.store.CancelEdit()
		return overlay, nil
	}

	overlay, err := e.store.Create(draft)
	if err != nil {
		return nil, err
	}
	e.Reset()
	return overlay, nil
}

// draft snapshots every form field into a full document.
func (e *Editor) draft() *schema.Draft {
	content := e.Content
	x, y := e.Position.X, e.Position.Y
	width, height := e.Size.Width, e.Size.Height
	fontSize := e.Design.FontSize
	bgColor := e.Design.BgColor
	textColor := e.Design.TextColor
	bgOpacity := e.Design.BgOpacity
	showBg := e.Design.ShowBg

	return &schema.Draft{
		Content:  &content,
		Position: &schema.PositionPatch{X: &x, Y: &y},
		Size:     &schema.SizePatch{Width: &width, Height: &height},
		Design: &schema.DesignPatch{
			FontSize:  &fontSize,
			BgColor:   &bgColor,
			TextColor: &textColor,
			BgOpacity: &bgOpacity,
			ShowBg:    &showBg,
		},
	}
}
