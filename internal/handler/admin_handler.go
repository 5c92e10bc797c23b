package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathfinder-backend/internal/middleware"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/validator"
)

// BackfillQueuer queues a profile run for every user. Implemented by
// worker.Backfiller.
type BackfillQueuer interface {
	Enqueue(ctx context.Context) (int, error)
}

// OccupationStats reports the reference occupation table. Implemented by
// repository.OccupationRepository.
type OccupationStats interface {
	CountByInterest(ctx context.Context) (map[string]int, error)
}

// CachePurger drops cached occupation lookups. Implemented by
// suggest.CachedFinder.
type CachePurger interface {
	Purge()
}

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	profiles    ProfileRunner
	backfill    BackfillQueuer
	occupations OccupationStats
	cache       CachePurger
	log         zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	profiles ProfileRunner,
	backfill BackfillQueuer,
	occupations OccupationStats,
	cache CachePurger,
	log zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		profiles:    profiles,
		backfill:    backfill,
		occupations: occupations,
		cache:       cache,
		log:         log.With().Str("component", "admin_handler").Logger(),
	}
}

type reprocessRequest struct {
	AssessmentID string `json:"assessment_id" binding:"omitempty,uuid"`
}

// ReprocessProfile godoc
// POST /api/v1/admin/profiles/:user_id/reprocess
// Recomputes one user's profile synchronously. Without an assessment_id the
// most recently active assessment is used.
func (h *AdminHandler) ReprocessProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req reprocessRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var view *model.ProfileView
	if req.AssessmentID == "" {
		view, err = h.profiles.ProcessLatest(c.Request.Context(), userID)
	} else {
		view, err = h.profiles.Process(c.Request.Context(), userID, uuid.MustParse(req.AssessmentID))
	}
	if err != nil {
		fail(c, err)
		return
	}

	h.log.Info().
		Str("user_id", userID.String()).
		Str("admin_id", adminID(c)).
		Msg("Profile reprocessed")

	response.Success(c, http.StatusOK, gin.H{"profile": view})
}

// Backfill godoc
// POST /api/v1/admin/profiles/backfill
// Queues a profile run for every user with saved sections.
func (h *AdminHandler) Backfill(c *gin.Context) {
	queued, err := h.backfill.Enqueue(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	h.log.Info().
		Int("queued", queued).
		Str("admin_id", adminID(c)).
		Msg("Profile backfill queued")

	response.Success(c, http.StatusAccepted, gin.H{"queued": queued})
}

// OccupationStats godoc
// GET /api/v1/admin/occupations/stats
// Returns the number of reference occupations per primary interest code.
func (h *AdminHandler) OccupationStats(c *gin.Context) {
	counts, err := h.occupations.CountByInterest(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	response.Success(c, http.StatusOK, gin.H{"by_interest": counts, "total": total})
}

// PurgeOccupationCache godoc
// POST /api/v1/admin/occupations/cache/purge
// Drops cached lookups so a reseeded occupation table is seen immediately.
func (h *AdminHandler) PurgeOccupationCache(c *gin.Context) {
	h.cache.Purge()
	h.log.Info().Str("admin_id", adminID(c)).Msg("Occupation cache purged")
	response.Success(c, http.StatusOK, gin.H{"status": "purged"})
}

func adminID(c *gin.Context) string {
	if id, ok := middleware.GetUserID(c); ok {
		return id.String()
	}
	return ""
}
