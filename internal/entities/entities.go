package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns books. The password hash is never serialized; every response
// that carries a user goes through PublicUser instead.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100" json:"name"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	Books        []Book    `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the password-free projection of a User.
type PublicUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Public converts a User to its response representation.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Username: u.Username}
}

// PublicUsers converts a slice of users to their response representations.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}

// Book belongs to exactly one user. The owner reference is RESTRICT:
// a user cannot be deleted while books still point at them.
type Book struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:255;index" json:"title"`
	Authors    string     `gorm:"size:255;index" json:"authors"`
	Edition    *string    `gorm:"size:100" json:"edition,omitempty"`
	Read       bool       `gorm:"default:false" json:"read"`
	UserID     uint       `gorm:"index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Categories []Category `gorm:"many2many:book_categories" json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Category has an independent lifecycle; a category with zero books is legal.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"index;size:100" json:"name"`
	Books []Book `gorm:"many2many:book_categories" json:"-"`
}

// BookCategory is the explicit join model for the Book<->Category relation.
// Both foreign keys cascade, so deleting a book or a category removes its
// pivot rows at the storage layer.
type BookCategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookID     uint      `gorm:"uniqueIndex:idx_book_category" json:"book_id"`
	CategoryID uint      `gorm:"uniqueIndex:idx_book_category" json:"category_id"`
	Book       Book      `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Category   Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the pivot row its UUID.
func (bc *BookCategory) BeforeCreate(*gorm.DB) error {
	if bc.ID == uuid.Nil {
		bc.ID = uuid.New()
	}
	return nil
}

// Token is a bearer credential minted per API login. One row per login,
// no expiry: a token is valid until deleted.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Value     string    `gorm:"uniqueIndex;size:64" json:"token"`
	UserID    uint      `gorm:"index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the token row its UUID.
func (t *Token) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Category) TableName() string {
	return "categories"
}

func (BookCategory) TableName() string {
	return "book_categories"
}

func (Token) TableName() string {
	return "tokens"
}
