package entities

import (
	"strings"
	"time"
)

// Role is the closed set of roles a user profile can carry.
type Role string

const (
	RoleAuthor       Role = "author"
	RoleCollaborator Role = "collaborator"
)

// ParseRole normalizes a role string to a known Role. Accepts any
// capitalization ("Author", "author") for compatibility with older clients.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAuthor):
		return RoleAuthor, true
	case string(RoleCollaborator):
		return RoleCollaborator, true
	}
	return "", false
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	Email        string    `gorm:"index;size:255" json:"email"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserProfile is a one-to-one extension of User carrying its role.
// It is created together with the user at signup and is the only place
// a role is stored; permission checks must never read it from anywhere else.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex" json:"user_id"`
	Role      Role      `gorm:"size:20" json:"role"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:255" json:"title"`
	AuthorID  uint      `gorm:"index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Sections  []Section `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is a node in a book's outline. ParentSectionID is nil for
// top-level sections; when set it must reference a section of the same book.
type Section struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	Title           string       `gorm:"index;size:255" json:"title"`
	BookID          uint         `gorm:"index" json:"book_id"`
	ParentSectionID *uint        `gorm:"index" json:"parent_section_id,omitempty"`
	Book            Book         `gorm:"foreignKey:BookID" json:"-"`
	ParentSection   *Section     `gorm:"foreignKey:ParentSectionID" json:"-"`
	Subsections     []Subsection `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"subsections,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Subsection is a leaf node; no further nesting below it.
// The wire name of its section reference stays "parent_section" for
// compatibility with existing clients.
type Subsection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:255" json:"title"`
	SectionID uint      `gorm:"index" json:"parent_section"`
	Section   Section   `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Collaboration grants a user a (possibly editable) relationship to a book.
// The (user, book) pair is unique; duplicates made grant/revoke ambiguous.
type Collaboration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_collaborations_user_book" json:"user_id"`
	BookID    uint      `gorm:"uniqueIndex:idx_collaborations_user_book" json:"book_id"`
	Role      string    `gorm:"size:20" json:"role"`
	CanEdit   bool      `gorm:"default:false" json:"can_edit"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book      Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (Book) TableName() string {
	return "books"
}

func (Section) TableName() string {
	return "sections"
}

func (Subsection) TableName() string {
	return "subsections"
}

func (Collaboration) TableName() string {
	return "collaborations"
}
