package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/pathfinder-backend/internal/catalog"
	"github.com/stemsi/pathfinder-backend/internal/response"
)

// CatalogHandler serves the question catalog. The view is built once since
// the catalog never changes at runtime.
type CatalogHandler struct {
	sections []catalog.SectionView
	total    int
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{sections: c.View(), total: c.Len()}
}

// GetCatalog godoc
// GET /api/v1/public/catalog
// Returns every section with its questions, without scoring keys.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"sections":        h.sections,
		"total_questions": h.total,
	})
}
