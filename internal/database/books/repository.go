// Package books provides database operations for book management.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(id)
package books

import (
	"gorm.io/gorm"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook persists a new book.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetBookByID retrieves a book by ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns every book.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// UpdateBook saves changes to an existing book.
func (r *Repository) UpdateBook(book *entities.Book) error {
	return r.db.Save(book).Error
}

// DeleteBook removes a book together with its sections, subsections and
// collaborations. SQLite does not enforce the declared cascades unless the
// foreign_keys pragma is on, so the cascade is done explicitly in one
// transaction.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var sectionIDs []uint
		if err := tx.Model(&entities.Section{}).Where("book_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&entities.Subsection{}).Error; err != nil {
				return err
			}
			if err := tx.Where("book_id = ?", id).Delete(&entities.Section{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Collaboration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}
