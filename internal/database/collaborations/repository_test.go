package collaborations

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookwriter/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := "./test_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Collaboration{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		os.Remove(dbPath)
	})

	return db
}

func createUserAndBook(t *testing.T, db *gorm.DB) (*entities.User, *entities.Book) {
	t.Helper()
	author := &entities.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, db.Create(author).Error)
	book := &entities.Book{Title: "Shared Book", AuthorID: author.ID}
	require.NoError(t, db.Create(book).Error)
	collaborator := &entities.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, db.Create(collaborator).Error)
	return collaborator, book
}

func TestCreateAndGetCollaboration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user, book := createUserAndBook(t, db)

	collab := &entities.Collaboration{UserID: user.ID, BookID: book.ID, Role: "editor"}
	require.NoError(t, repo.CreateCollaboration(collab))
	require.NotZero(t, collab.ID)

	found, err := repo.GetCollaborationByID(collab.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)
	assert.Equal(t, book.ID, found.BookID)
	assert.False(t, found.CanEdit)
}

func TestCreateCollaboration_DuplicatePair(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user, book := createUserAndBook(t, db)

	require.NoError(t, repo.CreateCollaboration(&entities.Collaboration{UserID: user.ID, BookID: book.ID}))

	err := repo.CreateCollaboration(&entities.Collaboration{UserID: user.ID, BookID: book.ID})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreateCollaboration_DuplicateFromOutsideWrite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user, book := createUserAndBook(t, db)

	// Conflicting row written outside the repository, as a racing request would
	require.NoError(t, db.Create(&entities.Collaboration{UserID: user.ID, BookID: book.ID}).Error)

	err := repo.CreateCollaboration(&entities.Collaboration{UserID: user.ID, BookID: book.ID})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetCollaborationByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetCollaborationByID(404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetCanEdit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user, book := createUserAndBook(t, db)

	collab := &entities.Collaboration{UserID: user.ID, BookID: book.ID}
	require.NoError(t, repo.CreateCollaboration(collab))

	require.NoError(t, repo.SetCanEdit(collab.ID, true))
	found, err := repo.GetCollaborationByID(collab.ID)
	require.NoError(t, err)
	assert.True(t, found.CanEdit)

	require.NoError(t, repo.SetCanEdit(collab.ID, false))
	found, err = repo.GetCollaborationByID(collab.ID)
	require.NoError(t, err)
	assert.False(t, found.CanEdit)
}

func TestSetCanEdit_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	err := repo.SetCanEdit(404, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCollaboration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user, book := createUserAndBook(t, db)

	collab := &entities.Collaboration{UserID: user.ID, BookID: book.ID}
	require.NoError(t, repo.CreateCollaboration(collab))

	require.NoError(t, repo.DeleteCollaboration(collab.ID))
	_, err := repo.GetCollaborationByID(collab.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
