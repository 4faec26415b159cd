package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Position places an overlay on the video surface as percentage offsets
// from the top-left corner, independent of the surface pixel size.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the overlay box in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Design is the styling sub-document. It is stored wholesale as jsonb and
// replaced wholesale on update.
type Design struct {
	FontSize  float64 `json:"fontSize"`
	BgColor   string  `json:"bgColor"`
	TextColor string  `json:"textColor"`
	BgOpacity float64 `json:"bgOpacity"`
	ShowBg    bool    `json:"showBg"`
}

type Overlay struct {
	ID        uuid.UUID                  `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string                     `json:"content" gorm:"type:text;not null"`
	Position  Position                   `json:"position" gorm:"embedded;embeddedPrefix:position_"`
	Size      Size                       `json:"size" gorm:"embedded;embeddedPrefix:size_"`
	Design    datatypes.JSONType[Design] `json:"design" gorm:"type:jsonb;not null"`
	CreatedAt time.Time                  `json:"createdAt" gorm:"not null;index"`
	UpdatedAt time.Time                  `json:"updatedAt" gorm:"not null"`
}
