package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/schema"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the identifier is well-formed but matches no record.
	ErrNotFound = errors.New("overlay not found")
	// ErrInvalidIdentifier means the identifier is not a UUID and can never
	// match a record. Kept distinct from ErrNotFound for callers that care,
	// both map to 404 at the HTTP layer.
	ErrInvalidIdentifier = errors.New("invalid overlay identifier")
)

type OverlayRepository struct {
	db *gorm.DB
}

func NewOverlayRepository(db *gorm.DB) *OverlayRepository {
	return &OverlayRepository{db: db}
}

// Create validates the draft, assigns id and timestamps and stores the
// record. The stored record is returned so callers pick up server-assigned
// fields and defaults.
func (r *OverlayRepository) Create(draft *schema.Draft) (*entity.Overlay, error) {
	overlay, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	overlay.ID = uuid.New()
	overlay.CreatedAt = now
	overlay.UpdatedAt = now

	if err := r.db.Create(overlay).Error; err != nil {
		return nil, fmt.Errorf("failed to store overlay: %w", err)
	}
	return overlay, nil
}

// List returns every overlay, newest first.
func (r *OverlayRepository) List() ([]entity.Overlay, error) {
	var overlays []entity.Overlay
	err := r.db.Order("created_at DESC").Find(&overlays).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overlays: %w", err)
	}
	return overlays, nil
}

func (r *OverlayRepository) FindByID(id string) (*entity.Overlay, error) {
	overlayID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidIdentifier
	}

	var overlay entity.Overlay
	err = r.db.Where("id = ?", overlayID).First(&overlay).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load overlay: %w", err)
	}
	return &overlay, nil
}

// Update merges the patch onto the stored record (shallow per top-level
// field, nested objects replaced wholesale), re-validates the merged result
// and persists it. A validation failure leaves the stored record unchanged.
func (r *OverlayRepository) Update(id string, patch *schema.Draft) (*entity.Overlay, error) {
	existing, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	merged, err := patch.Apply(existing)
	if err != nil {
		return nil, err
	}
	merged.UpdatedAt = time.Now().UTC()

	if err := r.db.Save(merged).Error; err != nil {
		return nil, fmt.Errorf("failed to update overlay: %w", err)
	}
	return merged, nil
}

// Delete removes the record and returns its id for caller confirmation.
func (r *OverlayRepository) Delete(id string) (uuid.UUID, error) {
	existing, err := r.FindByID(id)
	if err != nil {
		return uuid.Nil, err
	}

	if err := r.db.Delete(&entity.Overlay{}, "id = ?", existing.ID).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to delete overlay: %w", err)
	}
	return existing.ID, nil
}
