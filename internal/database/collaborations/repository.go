// Package collaborations provides database operations for per-book
// collaborator records and their edit flag.
package collaborations

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/entities"
)

var (
	// ErrNotFound is returned when a collaboration ID does not resolve.
	ErrNotFound = errors.New("collaboration not found")
	// ErrDuplicate is returned when a (user, book) pair already has a collaboration.
	ErrDuplicate = errors.New("collaboration already exists")
)

// Repository handles all collaboration database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new collaborations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book, used to validate collaboration payload references.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateCollaboration persists a new collaboration. The unique (user, book)
// index rejects a second collaboration for the same pair, reported as
// ErrDuplicate.
func (r *Repository) CreateCollaboration(collab *entities.Collaboration) error {
	if err := r.db.Create(collab).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetCollaborationByID retrieves a collaboration by ID.
func (r *Repository) GetCollaborationByID(id uint) (*entities.Collaboration, error) {
	var collab entities.Collaboration
	err := r.db.First(&collab, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &collab, nil
}

// GetAllCollaborations returns every collaboration.
func (r *Repository) GetAllCollaborations() ([]entities.Collaboration, error) {
	var collabs []entities.Collaboration
	err := r.db.Find(&collabs).Error
	return collabs, err
}

// UpdateCollaboration saves changes to an existing collaboration.
func (r *Repository) UpdateCollaboration(collab *entities.Collaboration) error {
	return r.db.Save(collab).Error
}

// DeleteCollaboration removes a collaboration.
func (r *Repository) DeleteCollaboration(id uint) error {
	return r.db.Delete(&entities.Collaboration{}, id).Error
}

// SetCanEdit flips the edit flag on a collaboration. Returns ErrNotFound
// if the ID does not resolve.
func (r *Repository) SetCanEdit(id uint, canEdit bool) error {
	result := r.db.Model(&entities.Collaboration{}).Where("id = ?", id).Update("can_edit", canEdit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
