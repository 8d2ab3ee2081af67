package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// SectionStore defines database operations for section management.
type SectionStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	CreateSection(section *entities.Section) error
	GetSectionByID(id uint) (*entities.Section, error)
	GetAllSections() ([]entities.Section, error)
	UpdateSection(section *entities.Section) error
	DeleteSection(id uint) error
}

type SectionsController struct {
	store SectionStore
}

func NewSectionsController(store SectionStore) *SectionsController {
	return &SectionsController{store: store}
}

// sectionRequest is the create/update payload. "book" carries the book ID,
// matching the original wire contract.
type sectionRequest struct {
	Title           string `json:"title" binding:"required"`
	Book            uint   `json:"book" binding:"required"`
	ParentSectionID *uint  `json:"parent_section_id"`
}

// resolveSectionRefs validates the payload's book and optional parent
// section. Unknown IDs are 404s; a parent from another book is a 400.
func (sc *SectionsController) resolveSectionRefs(c *gin.Context, req *sectionRequest) bool {
	if _, err := sc.store.GetBookByID(req.Book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return false
		}
		respondInternalError(c, err, "resolve section book")
		return false
	}

	if req.ParentSectionID != nil {
		parent, err := sc.store.GetSectionByID(*req.ParentSectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "parent section")
				return false
			}
			respondInternalError(c, err, "resolve parent section")
			return false
		}
		if parent.BookID != req.Book {
			respondBadRequest(c, "parent section belongs to a different book")
			return false
		}
	}
	return true
}

// reparentCreatesCycle reports whether newParentID is the section itself or
// nested anywhere under it. The walk follows parent links upward from the new
// parent and stops on the first repeat.
func (sc *SectionsController) reparentCreatesCycle(sectionID, newParentID uint) (bool, error) {
	seen := make(map[uint]bool)
	current := newParentID
	for {
		if current == sectionID {
			return true, nil
		}
		if seen[current] {
			return false, nil
		}
		seen[current] = true

		node, err := sc.store.GetSectionByID(current)
		if err != nil {
			return false, err
		}
		if node.ParentSectionID == nil {
			return false, nil
		}
		current = *node.ParentSectionID
	}
}

// ListSections returns all sections
// GET /api/sections/
func (sc *SectionsController) ListSections(c *gin.Context) {
	sections, err := sc.store.GetAllSections()
	if err != nil {
		respondInternalError(c, err, "list sections")
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateSection creates a new section under a book, optionally nested
// under a parent section of the same book
// POST /api/sections/
func (sc *SectionsController) CreateSection(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and book are required")
		return
	}

	if !sc.resolveSectionRefs(c, &req) {
		return
	}

	section := &entities.Section{
		Title:           req.Title,
		BookID:          req.Book,
		ParentSectionID: req.ParentSectionID,
	}
	if err := sc.store.CreateSection(section); err != nil {
		respondInternalError(c, err, "create section")
		return
	}

	respondCreated(c, section)
}

// GetSection returns a single section
// GET /api/sections/:id/
func (sc *SectionsController) GetSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	section, err := sc.store.GetSectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "get section")
		return
	}
	c.JSON(http.StatusOK, section)
}

// UpdateSection replaces a section's mutable fields
// PUT /api/sections/:id/
func (sc *SectionsController) UpdateSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and book are required")
		return
	}

	section, err := sc.store.GetSectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "update section")
		return
	}

	if req.ParentSectionID != nil && *req.ParentSectionID == section.ID {
		respondBadRequest(c, "section cannot be its own parent")
		return
	}
	if !sc.resolveSectionRefs(c, &req) {
		return
	}
	if req.ParentSectionID != nil {
		cycle, err := sc.reparentCreatesCycle(section.ID, *req.ParentSectionID)
		if err != nil {
			respondInternalError(c, err, "update section")
			return
		}
		if cycle {
			respondBadRequest(c, "parent section is nested under this section")
			return
		}
	}

	section.Title = req.Title
	section.BookID = req.Book
	section.ParentSectionID = req.ParentSectionID
	if err := sc.store.UpdateSection(section); err != nil {
		respondInternalError(c, err, "update section")
		return
	}
	c.JSON(http.StatusOK, section)
}

// PatchSection applies a partial update
// PATCH /api/sections/:id/
func (sc *SectionsController) PatchSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title           *string `json:"title"`
		ParentSectionID *uint   `json:"parent_section_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	section, err := sc.store.GetSectionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "patch section")
		return
	}

	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.ParentSectionID != nil {
		if *req.ParentSectionID == section.ID {
			respondBadRequest(c, "section cannot be its own parent")
			return
		}
		parent, err := sc.store.GetSectionByID(*req.ParentSectionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondNotFound(c, "parent section")
				return
			}
			respondInternalError(c, err, "patch section")
			return
		}
		if parent.BookID != section.BookID {
			respondBadRequest(c, "parent section belongs to a different book")
			return
		}
		cycle, err := sc.reparentCreatesCycle(section.ID, *req.ParentSectionID)
		if err != nil {
			respondInternalError(c, err, "patch section")
			return
		}
		if cycle {
			respondBadRequest(c, "parent section is nested under this section")
			return
		}
		section.ParentSectionID = req.ParentSectionID
	}

	if err := sc.store.UpdateSection(section); err != nil {
		respondInternalError(c, err, "patch section")
		return
	}
	c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section and its nested sections/subsections
// DELETE /api/sections/:id/
func (sc *SectionsController) DeleteSection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := sc.store.GetSectionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "section")
			return
		}
		respondInternalError(c, err, "delete section")
		return
	}

	if err := sc.store.DeleteSection(id); err != nil {
		respondInternalError(c, err, "delete section")
		return
	}
	respondSuccess(c, "section deleted")
}
