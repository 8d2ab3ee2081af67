package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// SubsectionStore defines database operations for subsection management.
type SubsectionStore interface {
	GetSectionByID(id uint) (*entities.Section, error)
	CreateSubsection(subsection *entities.Subsection) error
	GetSubsectionByID(id uint) (*entities.Subsection, error)
	GetAllSubsections() ([]entities.Subsection, error)
	UpdateSubsection(subsection *entities.Subsection) error
	DeleteSubsection(id uint) error
}

type SubsectionsController struct {
	store SubsectionStore
}

func NewSubsectionsController(store SubsectionStore) *SubsectionsController {
	return &SubsectionsController{store: store}
}

// ListSubsections returns all subsections
// GET /api/subsections/
func (sc *SubsectionsController) ListSubsections(c *gin.Context) {
	subsections, err := sc.store.GetAllSubsections()
	if err != nil {
		respondInternalError(c, err, "list subsections")
		return
	}
	c.JSON(http.StatusOK, subsections)
}

// CreateSubsection creates a new leaf subsection under a section
// POST /api/subsections/
func (sc *SubsectionsController) CreateSubsection(c *gin.Context) {
	var req struct {
		Title         string `json:"title" binding:"required"`
		ParentSection uint   `json:"parent_section" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and parent_section are required")
		return
	}

	if _, err := sc.store.GetSectionByID(req.ParentSection); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "resolve subsection section")
		return
	}

	subsection := &entities.Subsection{
		Title:     req.Title,
		SectionID: req.ParentSection,
	}
	if err := sc.store.CreateSubsection(subsection); err != nil {
		respondInternalError(c, err, "create subsection")
		return
	}

	respondCreated(c, subsection)
}

// GetSubsection returns a single subsection
// GET /api/subsections/:id/
func (sc *SubsectionsController) GetSubsection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subsection, err := sc.store.GetSubsectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "subsection")
			return
		}
		respondInternalError(c, err, "get subsection")
		return
	}
	c.JSON(http.StatusOK, subsection)
}

// UpdateSubsection replaces a subsection's mutable fields
// PUT /api/subsections/:id/
func (sc *SubsectionsController) UpdateSubsection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title         string `json:"title" binding:"required"`
		ParentSection uint   `json:"parent_section" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and parent_section are required")
		return
	}

	subsection, err := sc.store.GetSubsectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "subsection")
			return
		}
		respondInternalError(c, err, "update subsection")
		return
	}

	if _, err := sc.store.GetSectionByID(req.ParentSection); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "update subsection")
		return
	}

	subsection.Title = req.Title
	subsection.SectionID = req.ParentSection
	if err := sc.store.UpdateSubsection(subsection); err != nil {
		respondInternalError(c, err, "update subsection")
		return
	}
	c.JSON(http.StatusOK, subsection)
}

// PatchSubsection applies a partial update
// PATCH /api/subsections/:id/
func (sc *SubsectionsController) PatchSubsection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title         *string `json:"title"`
		ParentSection *uint   `json:"parent_section"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	subsection, err := sc.store.GetSubsectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "subsection")
			return
		}
		respondInternalError(c, err, "patch subsection")
		return
	}

	if req.Title != nil {
		subsection.Title = *req.Title
	}
	if req.ParentSection != nil {
		if _, err := sc.store.GetSectionByID(*req.ParentSection); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "section")
				return
			}
			respondInternalError(c, err, "patch subsection")
			return
		}
		subsection.SectionID = *req.ParentSection
	}

	if err := sc.store.UpdateSubsection(subsection); err != nil {
		respondInternalError(c, err, "patch subsection")
		return
	}
	c.JSON(http.StatusOK, subsection)
}

// DeleteSubsection removes a subsection
// DELETE /api/subsections/:id/
func (sc *SubsectionsController) DeleteSubsection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := sc.store.GetSubsectionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "subsection")
			return
		}
		respondInternalError(c, err, "delete subsection")
		return
	}

	if err := sc.store.DeleteSubsection(id); err != nil {
		respondInternalError(c, err, "delete subsection")
		return
	}
	respondSuccess(c, "subsection deleted")
}
