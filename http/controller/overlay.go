package controller

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-stream-overlay/entity"
	"github.com/tnqbao/gau-stream-overlay/infra"
	"github.com/tnqbao/gau-stream-overlay/infra/produce"
	"github.com/tnqbao/gau-stream-overlay/repository"
	"github.com/tnqbao/gau-stream-overlay/schema"
	"github.com/tnqbao/gau-stream-overlay/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	overlayListCacheKey = "overlays:all"
	overlayListCacheTTL = 30 * time.Second
)

func (ctrl *Controller) CreateOverlay(c *gin.Context) {
	ctx := c.Request.Context()

	draft, err := schema.DecodeDraft(c.Request.Body)
	if err != nil {
		ctrl.rejectOverlayWrite(c, "create", err)
		return
	}

	overlay, err := ctrl.Repository.OverlayRepo.Create(draft)
	if err != nil {
		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Rejected create: %v", err)
			ctrl.countRequest(ctx, "create", "rejected")
			utils.JSON400Validation(c, validationErr)
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Overlay] Failed to create overlay: %v", err)
		ctrl.countRequest(ctx, "create", "error")
		utils.JSON500(c, "Failed to create overlay")
		return
	}

	ctrl.invalidateOverlayCache(ctx)
	ctrl.publishOverlayChanged(ctx, produce.OverlayActionCreated, overlay.ID.String())

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Overlay] Created overlay: %s", overlay.ID)
	ctrl.countRequest(ctx, "create", "ok")
	utils.JSON201(c, overlay)
}

func (ctrl *Controller) ListOverlays(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Infra.Redis != nil {
		var cached []entity.Overlay
		if err := ctrl.Infra.Redis.Get(ctx, overlayListCacheKey, &cached); err == nil {
			ctrl.countRequest(ctx, "list", "cache_hit")
			utils.JSON200(c, cached)
			return
		} else if !errors.Is(err, infra.ErrCacheMiss) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Cache read failed: %v", err)
		}
	}

	overlays, err := ctrl.Repository.OverlayRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Overlay] Failed to list overlays: %v", err)
		ctrl.countRequest(ctx, "list", "error")
		utils.JSON500(c, "Failed to list overlays")
		return
	}

	if ctrl.Infra.Redis != nil {
		if err := ctrl.Infra.Redis.Set(ctx, overlayListCacheKey, overlays, overlayListCacheTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Cache write failed: %v", err)
		}
	}

	ctrl.countRequest(ctx, "list", "ok")
	utils.JSON200(c, overlays)
}

func (ctrl *Controller) GetOverlay(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	overlay, err := ctrl.Repository.OverlayRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidIdentifier) {
			ctrl.countRequest(ctx, "get", "not_found")
			utils.JSON404(c, "Overlay not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Overlay] Failed to load overlay %s: %v", id, err)
		ctrl.countRequest(ctx, "get", "error")
		utils.JSON500(c, "Failed to load overlay")
		return
	}

	ctrl.countRequest(ctx, "get", "ok")
	utils.JSON200(c, overlay)
}

func (ctrl *Controller) UpdateOverlay(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	draft, err := schema.DecodeDraft(c.Request.Body)
	if err != nil {
		ctrl.rejectOverlayWrite(c, "update", err)
		return
	}

	overlay, err := ctrl.Repository.OverlayRepo.Update(id, draft)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidIdentifier) {
			ctrl.countRequest(ctx, "update", "not_found")
			utils.JSON404(c, "Overlay not found")
			return
		}
		var validationErr *schema.ValidationError
		if errors.As(err, &validationErr) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Rejected update of %s: %v", id, err)
			ctrl.countRequest(ctx, "update", "rejected")
			utils.JSON400Validation(c, validationErr)
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Overlay] Failed to update overlay %s: %v", id, err)
		ctrl.countRequest(ctx, "update", "error")
		utils.JSON500(c, "Failed to update overlay")
		return
	}

	ctrl.invalidateOverlayCache(ctx)
	ctrl.publishOverlayChanged(ctx, produce.OverlayActionUpdated, overlay.ID.String())

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Overlay] Updated overlay: %s", overlay.ID)
	ctrl.countRequest(ctx, "update", "ok")
	utils.JSON200(c, overlay)
}

func (ctrl *Controller) DeleteOverlay(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	deletedID, err := ctrl.Repository.OverlayRepo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidIdentifier) {
			ctrl.countRequest(ctx, "delete", "not_found")
			utils.JSON404(c, "Overlay not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Overlay] Failed to delete overlay %s: %v", id, err)
		ctrl.countRequest(ctx, "delete", "error")
		utils.JSON500(c, "Failed to delete overlay")
		return
	}

	ctrl.invalidateOverlayCache(ctx)
	ctrl.publishOverlayChanged(ctx, produce.OverlayActionDeleted, deletedID.String())

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Overlay] Deleted overlay: %s", deletedID)
	ctrl.countRequest(ctx, "delete", "ok")
	utils.JSON200(c, gin.H{"id": deletedID})
}

func (ctrl *Controller) rejectOverlayWrite(c *gin.Context, operation string, err error) {
	ctx := c.Request.Context()
	ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Rejected %s payload: %v", operation, err)
	ctrl.countRequest(ctx, operation, "rejected")

	var validationErr *schema.ValidationError
	if errors.As(err, &validationErr) {
		utils.JSON400Validation(c, validationErr)
		return
	}
	utils.JSON400(c, "Invalid request payload")
}

func (ctrl *Controller) invalidateOverlayCache(ctx context.Context) {
	if ctrl.Infra.Redis == nil {
		return
	}
	if err := ctrl.Infra.Redis.Delete(ctx, overlayListCacheKey); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Cache invalidation failed: %v", err)
	}
}

// publishOverlayChanged is best-effort: the write already succeeded, a lost
// event only delays cache invalidation on other instances.
func (ctrl *Controller) publishOverlayChanged(ctx context.Context, action, overlayID string) {
	if ctrl.Infra.Produce == nil {
		return
	}
	if err := ctrl.Infra.Produce.OverlayService.PublishOverlayChanged(ctx, action, overlayID); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Overlay] Failed to publish %s event for %s: %v", action, overlayID, err)
	}
}

func (ctrl *Controller) countRequest(ctx context.Context, operation, outcome string) {
	if ctrl.requestCounter == nil {
		return
	}
	ctrl.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
