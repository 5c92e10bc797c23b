package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathfinder-backend/internal/middleware"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/service"
)

// NarrativeGenerator produces and reads generated prose. Implemented by
// service.NarrativeService.
type NarrativeGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID) (*model.Narrative, error)
	Get(ctx context.Context, userID uuid.UUID) (*model.Narrative, error)
}

// ProfileHandler serves the results dashboard.
type ProfileHandler struct {
	profiles   ProfileRunner
	narratives NarrativeGenerator
	log        zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileRunner, narratives NarrativeGenerator, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:   profiles,
		narratives: narratives,
		log:        log.With().Str("component", "profile_handler").Logger(),
	}
}

// GetProfile godoc
// GET /api/v1/profile
// Returns the stored score bundle and suggested profile, recomputing them
// when only the sections are stored.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": view})
}

// GenerateNarratives godoc
// POST /api/v1/profile/narratives
// Generates the report and the story. A partial result is still stored and
// returned with 207 Multi-Status.
func (h *ProfileHandler) GenerateNarratives(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	n, err := h.narratives.Generate(c.Request.Context(), userID)
	if errors.Is(err, service.ErrNarrativePartial) && n != nil {
		h.log.Warn().Str("user_id", userID.String()).Msg("Narrative stored with failure markers")
		response.Partial(c, http.StatusMultiStatus, gin.H{"narrative": n}, response.ErrNarrativePartial)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"narrative": n})
}

// GetNarratives godoc
// GET /api/v1/profile/narratives
// Returns the narrative stored by the last generation.
func (h *ProfileHandler) GetNarratives(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	n, err := h.narratives.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"narrative": n})
}
