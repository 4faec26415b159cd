package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/schema"
)

var (
	// ErrSaveInFlight guards against duplicate submits: a second mutation is
	// refused until the previous network call resolves.
	ErrSaveInFlight = errors.New("an overlay save is already in flight")
	// ErrNotInSession means the targeted record is not part of the loaded
	// collection.
	ErrNotInSession = errors.New("overlay is not in the current session")
)

// OverlayAPI is the slice of the overlay service the session needs.
// *provider.OverlayServiceProvider satisfies it.
type OverlayAPI interface {
	ListOverlays() ([]entity.Overlay, error)
	CreateOverlay(draft *schema.Draft) (*entity.Overlay, error)
	UpdateOverlay(id string, patch *schema.Draft) (*entity.Overlay, error)
	DeleteOverlay(id string) (string, error)
}

// Store holds the session's ordered overlay collection. Every mutation is
// driven by a confirmed server response; a failed call leaves the collection
// exactly as the last confirmed server state.
type Store struct {
	mu        sync.Mutex
	api       OverlayAPI
	overlays  []entity.Overlay
	editingID string
	inFlight  bool
}

func NewStore(api OverlayAPI) *Store {
	return &Store{api: api}
}

// Load initializes the collection from the server, newest first.
func (s *Store) Load() error {
	if err := s.begin(); err != nil {
		return err
	}
	overlays, err := s.api.ListOverlays()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return fmt.Errorf("failed to load overlays: %w", err)
	}
	s.overlays = overlays
	return nil
}

// Overlays returns a copy of the current collection in display order.
func (s *Store) Overlays() []entity.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Overlay, len(s.overlays))
	copy(out, s.overlays)
	return out
}

// Create submits the draft and appends the server-returned record, never the
// local draft, so server-assigned id, timestamps and defaults are picked up.
func (s *Store) Create(draft *schema.Draft) (*entity.Overlay, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	created, err := s.api.CreateOverlay(draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return nil, err
	}
	s.overlays = append(s.overlays, *created)
	return created, nil
}

// Update submits the patch and replaces the matching record in place,
// preserving the surrounding order.
func (s *Store) Update(id string, patch *schema.Draft) (*entity.Overlay, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateOverlay(id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return nil, err
	}
	for i := range s.overlays {
		if s.overlays[i].ID == updated.ID {
			s.overlays[i] = *updated
			break
		}
	}
	return updated, nil
}

// Delete submits the delete and removes the record the server confirmed.
func (s *Store) Delete(id string) error {
	if err := s.begin(); err != nil {
		return err
	}
	confirmedID, err := s.api.DeleteOverlay(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return err
	}
	for i := range s.overlays {
		if s.overlays[i].ID.String() == confirmedID {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			break
		}
	}
	if s.editingID == confirmedID {
		s.editingID = ""
	}
	return nil
}

// BeginEdit marks one record as the edit target and returns a copy of it for
// loading into the editor form.
func (s *Store) BeginEdit(id string) (*entity.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.overlays {
		if s.overlays[i].ID.String() == id {
			s.editingID = id
			overlay := s.overlays[i]
			return &overlay, nil
		}
	}
	return nil, ErrNotInSession
}

// CancelEdit discards the edit target without contacting the server.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = ""
}

func (s *Store) EditingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingID
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrSaveInFlight
	}
	s.inFlight = true
	return nil
}
