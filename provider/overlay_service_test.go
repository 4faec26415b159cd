package provider_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/tnqbao/gau-stream-overlay/config"
	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/http/controller"
	routes "github.com/tnqbao/gau-stream-overlay/http/route"
	infraPkg "github.com/tnqbao/gau-stream-overlay/infra"
	"github.com/tnqbao/gau-stream-overlay/provider"
	"github.com/tnqbao/gau-stream-overlay/repository"
	"github.com/tnqbao/gau-stream-overlay/schema"
	"gorm.io/gorm"
)

// newTestProvider spins up the real service against an in-memory database and
// points a provider at it, so the client exercises the same wire contract the
// player sees in production.
func newTestProvider(t *testing.T) *provider.OverlayServiceProvider {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&entity.Overlay{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := config.NewConfig()
	infra := &infraPkg.Infra{
		Postgres: &infraPkg.PostgresClient{DB: db},
		Logger:   infraPkg.InitLoggerClient(cfg.EnvConfig),
	}
	repo := &repository.Repository{OverlayRepo: repository.NewOverlayRepository(db)}
	router := routes.SetupRouter(controller.NewController(cfg, infra, repo))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	env := &config.EnvConfig{}
	env.ExternalService.OverlayServiceURL = server.URL
	return provider.NewOverlayServiceProvider(env)
}

func floatPtr(v float64) *float64 { return &v }

func newDraft(content string) *schema.Draft {
	return &schema.Draft{
		Content:  &content,
		Position: &schema.PositionPatch{X: floatPtr(10), Y: floatPtr(10)},
		Size:     &schema.SizePatch{Width: floatPtr(100), Height: floatPtr(40)},
	}
}

func TestProviderRoundTrip(t *testing.T) {
	p := newTestProvider(t)

	created, err := p.CreateOverlay(newDraft("Hello"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected a server-assigned id")
	}
	if created.Design.Data() != schema.DefaultDesign() {
		t.Fatalf("expected defaulted design, got %#v", created.Design.Data())
	}

	fetched, err := p.GetOverlay(created.ID.String())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Content != "Hello" {
		t.Fatalf("unexpected content: %q", fetched.Content)
	}

	updatedContent := "Updated"
	updated, err := p.UpdateOverlay(created.ID.String(), &schema.Draft{Content: &updatedContent})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Content != "Updated" || updated.Position != created.Position {
		t.Fatalf("unexpected updated record: %#v", updated)
	}

	overlays, err := p.ListOverlays()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(overlays) != 1 {
		t.Fatalf("expected 1 record, got %d", len(overlays))
	}

	confirmedID, err := p.DeleteOverlay(created.ID.String())
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if confirmedID != created.ID.String() {
		t.Fatalf("unexpected confirmation id: %s", confirmedID)
	}

	overlays, err = p.ListOverlays()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(overlays) != 0 {
		t.Fatalf("expected empty list after delete, got %d records", len(overlays))
	}
}

func TestProviderSurfacesNotFound(t *testing.T) {
	p := newTestProvider(t)

	if _, err := p.GetOverlay(uuid.NewString()); !errors.Is(err, provider.ErrOverlayNotFound) {
		t.Fatalf("expected ErrOverlayNotFound, got %v", err)
	}
	if _, err := p.GetOverlay("not-a-uuid"); !errors.Is(err, provider.ErrOverlayNotFound) {
		t.Fatalf("expected ErrOverlayNotFound for malformed id, got %v", err)
	}
}

func TestProviderSurfacesValidationError(t *testing.T) {
	p := newTestProvider(t)

	content := "Hello"
	_, err := p.CreateOverlay(&schema.Draft{
		Content:  &content,
		Position: &schema.PositionPatch{X: floatPtr(150), Y: floatPtr(10)},
		Size:     &schema.SizePatch{Width: floatPtr(100), Height: floatPtr(40)},
	})
	var validationErr *schema.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Violations) != 1 || validationErr.Violations[0].Field != "position.x" {
		t.Fatalf("expected a position.x violation, got %#v", validationErr.Violations)
	}
}
