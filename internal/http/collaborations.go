package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/database/collaborations"
	"github.com/mrlokans/bookwriter/internal/entities"
)

// CollaborationStore defines database operations for collaboration management.
type CollaborationStore interface {
	GetBookByID(id uint) (*entities.Book, error)
	CreateCollaboration(collab *entities.Collaboration) error
	GetCollaborationByID(id uint) (*entities.Collaboration, error)
	GetAllCollaborations() ([]entities.Collaboration, error)
	UpdateCollaboration(collab *entities.Collaboration) error
	DeleteCollaboration(id uint) error
	SetCanEdit(id uint, canEdit bool) error
}

type CollaborationsController struct {
	store CollaborationStore
}

func NewCollaborationsController(store CollaborationStore) *CollaborationsController {
	return &CollaborationsController{store: store}
}

// ListCollaborations returns all collaborations
// GET /api/collaborations/
func (cc *CollaborationsController) ListCollaborations(c *gin.Context) {
	collabs, err := cc.store.GetAllCollaborations()
	if err != nil {
		respondInternalError(c, err, "list collaborations")
		return
	}
	c.JSON(http.StatusOK, collabs)
}

// CreateCollaboration creates a collaboration for the requester on a book.
// The user field is always the requester; any client-supplied user is ignored.
// POST /api/collaborations/
func (cc *CollaborationsController) CreateCollaboration(c *gin.Context) {
	var req struct {
		Book    uint   `json:"book" binding:"required"`
		Role    string `json:"role"`
		CanEdit bool   `json:"can_edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book is required")
		return
	}

	if _, err := cc.store.GetBookByID(req.Book); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "resolve collaboration book")
		return
	}

	collab := &entities.Collaboration{
		UserID:  GetUserID(c),
		BookID:  req.Book,
		Role:    req.Role,
		CanEdit: req.CanEdit,
	}
	if err := cc.store.CreateCollaboration(collab); err != nil {
		if errors.Is(err, collaborations.ErrDuplicate) {
			respondBadRequest(c, collaborations.ErrDuplicate.Error())
			return
		}
		respondInternalError(c, err, "create collaboration")
		return
	}

	respondCreated(c, collab)
}

// GetCollaboration returns a single collaboration
// GET /api/collaborations/:id/
func (cc *CollaborationsController) GetCollaboration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collab, err := cc.store.GetCollaborationByID(id)
	if err != nil {
		if errors.Is(err, collaborations.ErrNotFound) {
			respondNotFound(c, "collaboration")
			return
		}
		respondInternalError(c, err, "get collaboration")
		return
	}
	c.JSON(http.StatusOK, collab)
}

// UpdateCollaboration replaces a collaboration's mutable fields
// PUT /api/collaborations/:id/
func (cc *CollaborationsController) UpdateCollaboration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role    string `json:"role"`
		CanEdit *bool  `json:"can_edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	collab, err := cc.store.GetCollaborationByID(id)
	if err != nil {
		if errors.Is(err, collaborations.ErrNotFound) {
			respondNotFound(c, "collaboration")
			return
		}
		respondInternalError(c, err, "update collaboration")
		return
	}

	collab.Role = req.Role
	if req.CanEdit != nil {
		collab.CanEdit = *req.CanEdit
	}
	if err := cc.store.UpdateCollaboration(collab); err != nil {
		respondInternalError(c, err, "update collaboration")
		return
	}
	c.JSON(http.StatusOK, collab)
}

// PatchCollaboration applies a partial update
// PATCH /api/collaborations/:id/
func (cc *CollaborationsController) PatchCollaboration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role    *string `json:"role"`
		CanEdit *bool   `json:"can_edit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	collab, err := cc.store.GetCollaborationByID(id)
	if err != nil {
		if errors.Is(err, collaborations.ErrNotFound) {
			respondNotFound(c, "collaboration")
			return
		}
		respondInternalError(c, err, "patch collaboration")
		return
	}

	if req.Role != nil {
		collab.Role = *req.Role
	}
	if req.CanEdit != nil {
		collab.CanEdit = *req.CanEdit
	}
	if err := cc.store.UpdateCollaboration(collab); err != nil {
		respondInternalError(c, err, "patch collaboration")
		return
	}
	c.JSON(http.StatusOK, collab)
}

// DeleteCollaboration removes a collaboration
// DELETE /api/collaborations/:id/
func (cc *CollaborationsController) DeleteCollaboration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := cc.store.GetCollaborationByID(id); err != nil {
		if errors.Is(err, collaborations.ErrNotFound) {
			respondNotFound(c, "collaboration")
			return
		}
		respondInternalError(c, err, "delete collaboration")
		return
	}

	if err := cc.store.DeleteCollaboration(id); err != nil {
		respondInternalError(c, err, "delete collaboration")
		return
	}
	respondSuccess(c, "collaboration deleted")
}

// accessRequest carries the collaboration to change. The wire field name
// collaborator_id is kept for compatibility even though it holds a
// Collaboration record ID, not a user ID.
type accessRequest struct {
	CollaboratorID uint `json:"collaborator_id" binding:"required"`
}

// GrantAccess sets can_edit on a collaboration
// PUT /api/grant-access/
func (cc *CollaborationsController) GrantAccess(c *gin.Context) {
	cc.setAccess(c, true, "Access granted successfully")
}

// RevokeAccess clears can_edit on a collaboration
// PUT /api/revoke-access/
func (cc *CollaborationsController) RevokeAccess(c *gin.Context) {
	cc.setAccess(c, false, "Access revoked successfully")
}

func (cc *CollaborationsController) setAccess(c *gin.Context, canEdit bool, confirmation string) {
	var req accessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "collaborator_id is required")
		return
	}

	if err := cc.store.SetCanEdit(req.CollaboratorID, canEdit); err != nil {
		if errors.Is(err, collaborations.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Collaboration not found"})
			return
		}
		respondInternalError(c, err, "set collaboration access")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": confirmation})
}
