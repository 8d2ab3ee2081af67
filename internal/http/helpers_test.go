package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookwriter/internal/auth"
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
		&entities.UserProfile{},
		&entities.Book{},
		&entities.Section{},
		&entities.Subsection{},
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

// injectAuth simulates an already-authenticated request in controller tests,
// taking the place of the full authentication middleware.
func injectAuth(userID uint, role entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextKeyUserID, userID)
		c.Set(auth.ContextKeyRole, role)
		c.Set(auth.ContextKeyAuthType, auth.AuthTypeBearer)
		c.Next()
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role entities.Role) *entities.User {
	t.Helper()
	user := &entities.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&entities.UserProfile{UserID: user.ID, Role: role}).Error)
	return user
}

func createTestBook(t *testing.T, db *gorm.DB, title string, authorID uint) *entities.Book {
	t.Helper()
	book := &entities.Book{Title: title, AuthorID: authorID}
	require.NoError(t, db.Create(book).Error)
	return book
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
