// Package sections provides database operations for a book's outline:
// sections and their leaf subsections.
package sections

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// Repository handles section and subsection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sections repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book, used to validate section payload references.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateSection persists a new section.
func (r *Repository) CreateSection(section *entities.Section) error {
	return r.db.Create(section).Error
}

// GetSectionByID retrieves a section by ID.
func (r *Repository) GetSectionByID(id uint) (*entities.Section, error) {
	var section entities.Section
	err := r.db.First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// GetAllSections returns every section.
func (r *Repository) GetAllSections() ([]entities.Section, error) {
	var sections []entities.Section
	err := r.db.Find(&sections).Error
	return sections, err
}

// UpdateSection saves changes to an existing section.
func (r *Repository) UpdateSection(section *entities.Section) error {
	return r.db.Save(section).Error
}

// DeleteSection removes a section, all sections nested under it and their
// subsections. Descendants are collected level by level before deleting,
// since SQLite does not enforce the declared cascades here. Already-seen
// sections are skipped so a corrupted parent loop cannot stall the walk.
func (r *Repository) DeleteSection(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		seen := map[uint]bool{id: true}
		ids := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&entities.Section{}).Where("parent_section_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = nil
			for _, child := range children {
				if seen[child] {
					continue
				}
				seen[child] = true
				ids = append(ids, child)
				frontier = append(frontier, child)
			}
		}
		if err := tx.Where("section_id IN ?", ids).Delete(&entities.Subsection{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&entities.Section{}).Error
	})
}

// CreateSubsection persists a new subsection.
func (r *Repository) CreateSubsection(subsection *entities.Subsection) error {
	return r.db.Create(subsection).Error
}

// GetSubsectionByID retrieves a subsection by ID.
func (r *Repository) GetSubsectionByID(id uint) (*entities.Subsection, error) {
	var subsection entities.Subsection
	err := r.db.First(&subsection, id).Error
	if err != nil {
		return nil, err
	}
	return &subsection, nil
}

// GetAllSubsections returns every subsection.
func (r *Repository) GetAllSubsections() ([]entities.Subsection, error) {
	var subsections []entities.Subsection
	err := r.db.Find(&subsections).Error
	return subsections, err
}

// UpdateSubsection saves changes to an existing subsection.
func (r *Repository) UpdateSubsection(subsection *entities.Subsection) error {
	return r.db.Save(subsection).Error
}

// DeleteSubsection removes a subsection.
func (r *Repository) DeleteSubsection(id uint) error {
	return r.db.Delete(&entities.Subsection{}, id).Error
}
