package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kidsflow/internal/cache"
	"kidsflow/internal/domain"
	"kidsflow/internal/service"
	"kidsflow/internal/upstream"
)

// ProfileHandler agrupa los endpoints de perfiles de hijos y de la sesión.
type ProfileHandler struct {
	logger        *zap.Logger
	profileSvc    *service.ProfileService
	suggestionSvc *service.SuggestionService
	sessionSvc    *service.SessionService
}

func NewProfileHandler(
	logger *zap.Logger,
	profileSvc *service.ProfileService,
	suggestionSvc *service.SuggestionService,
	sessionSvc *service.SessionService,
) *ProfileHandler {
	return &ProfileHandler{
		logger:        logger,
		profileSvc:    profileSvc,
		suggestionSvc: suggestionSvc,
		sessionSvc:    sessionSvc,
	}
}

// List maneja GET /child-profiles.
func (h *ProfileHandler) List(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	profiles, err := h.profileSvc.List(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, "list child profiles failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// Create maneja POST /child-profiles.
func (h *ProfileHandler) Create(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var form domain.ChildProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("invalid create child profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	profile, err := h.profileSvc.Create(c.Request.Context(), sess, form)
	if err != nil {
		h.respondError(c, "create child profile failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// Update maneja PUT /child-profiles/:id.
func (h *ProfileHandler) Update(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var form domain.ChildProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("invalid update child profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	profile, err := h.profileSvc.Update(c.Request.Context(), sess, c.Param("id"), form)
	if err != nil {
		h.respondError(c, "update child profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Delete maneja DELETE /child-profiles/:id.
func (h *ProfileHandler) Delete(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.profileSvc.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.respondError(c, "delete child profile failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectChild maneja PUT /me/selected-child.
func (h *ProfileHandler) SelectChild(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	var req struct {
		ChildID string `json:"child_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid select child request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.profileSvc.Select(c.Request.Context(), sess, req.ChildID); err != nil {
		h.respondError(c, "select child profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected_child_id": req.ChildID})
}

// ActingProfile maneja GET /me/child-profile.
func (h *ProfileHandler) ActingProfile(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	profile, err := h.profileSvc.Acting(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, "resolve child profile failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Capabilities maneja GET /me/capabilities.
func (h *ProfileHandler) Capabilities(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	view, err := h.profileSvc.Capabilities(c.Request.Context(), sess)
	if err != nil {
		h.respondError(c, "resolve capabilities failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Suggestions maneja GET /me/suggestions. Nunca falla: sin LLM devuelve [].
func (h *ProfileHandler) Suggestions(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": h.suggestionSvc.Suggestions(c.Request.Context(), sess)})
}

// Logout maneja POST /auth/logout.
func (h *ProfileHandler) Logout(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	h.sessionSvc.Logout(sess)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (h *ProfileHandler) respondError(c *gin.Context, msg string, err error) {
	var selErr *service.SelectionError
	var apiErr *upstream.APIError
	switch {
	case errors.As(err, &selErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "selection not available for child age",
			"modes":    selErr.Modes,
			"features": selErr.Features,
		})
	case errors.Is(err, cache.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "child profile not found"})
	case errors.Is(err, service.ErrSelectionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, cache.ErrOffline):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, cache.ErrNotAuthenticated), errors.Is(err, upstream.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.As(err, &apiErr):
		h.logger.Warn(msg, zap.Error(err))
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		detail := apiErr.Detail
		if detail == "" {
			detail = "upstream request failed"
		}
		c.JSON(status, gin.H{"error": detail})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
