package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/middleware"
	"github.com/stemsi/pathfinder-backend/internal/model"
	"github.com/stemsi/pathfinder-backend/internal/response"
	"github.com/stemsi/pathfinder-backend/internal/validator"
)

// SectionSaver stores and lists section answers. Implemented by
// service.IntakeService.
type SectionSaver interface {
	SaveSection(ctx context.Context, userID, assessmentID uuid.UUID, section catalog.SectionID, answers model.AnswerSet) error
	ListSections(ctx context.Context, userID, assessmentID uuid.UUID) ([]model.SectionRecord, error)
}

// ProfileRunner runs and reads the profile pipeline. Implemented by
// service.ProfileService.
type ProfileRunner interface {
	Process(ctx context.Context, userID, assessmentID uuid.UUID) (*model.ProfileView, error)
	ProcessLatest(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.ProfileView, error)
}

// AssessmentHandler handles section saves and profile processing for the
// authenticated user.
type AssessmentHandler struct {
	sections SectionSaver
	profiles ProfileRunner
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(sections SectionSaver, profiles ProfileRunner) *AssessmentHandler {
	return &AssessmentHandler{sections: sections, profiles: profiles}
}

// ListSections godoc
// GET /api/v1/assessments/:assessment_id/sections
// Returns the sections saved so far for one assessment run.
func (h *AssessmentHandler) ListSections(c *gin.Context) {
	userID, assessmentID, ok := userAndAssessment(c)
	if !ok {
		return
	}

	records, err := h.sections.ListSections(c.Request.Context(), userID, assessmentID)
	if err != nil {
		fail(c, err)
		return
	}
	if records == nil {
		records = []model.SectionRecord{}
	}

	response.Success(c, http.StatusOK, gin.H{"sections": records})
}

// SaveSection godoc
// PUT /api/v1/assessments/:assessment_id/sections/:section_id
// Validates and upserts one section's answers. Saving again replaces them.
func (h *AssessmentHandler) SaveSection(c *gin.Context) {
	userID, assessmentID, ok := userAndAssessment(c)
	if !ok {
		return
	}

	var req model.SaveSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	section := catalog.SectionID(c.Param("section_id"))
	if err := h.sections.SaveSection(c.Request.Context(), userID, assessmentID, section, req.Answers); err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved", "section_id": section})
}

// ProcessProfile godoc
// POST /api/v1/assessments/:assessment_id/process
// Scores the saved sections and stores the bundle and suggested profile.
func (h *AssessmentHandler) ProcessProfile(c *gin.Context) {
	userID, assessmentID, ok := userAndAssessment(c)
	if !ok {
		return
	}

	view, err := h.profiles.Process(c.Request.Context(), userID, assessmentID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": view})
}

// userAndAssessment reads the caller and the :assessment_id param, writing
// the error response itself when either is missing.
func userAndAssessment(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, uuid.Nil, false
	}

	assessmentID, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, assessmentID, true
}
