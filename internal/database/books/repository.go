// Package books provides database operations for book records.
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new book for its owner.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// GetByID retrieves a book by primary key.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// All returns every book in insertion order.
func (r *Repository) All(ctx context.Context) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error
	return books, err
}

// AllSortedByTitle returns every book ordered by title ascending.
func (r *Repository) AllSortedByTitle(ctx context.Context) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).Order("title ASC").Find(&books).Error
	return books, err
}

// First returns the first book by insertion order.
func (r *Repository) First(ctx context.Context) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Order("id ASC").First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Search returns books whose title or authors equal the term exactly.
// OR semantics on equality, not a substring match.
func (r *Repository) Search(ctx context.Context, term string) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).
		Where("title = ? OR authors = ?", term, term).
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// ForUser returns the books owned by a user.
func (r *Repository) ForUser(ctx context.Context, userID uint) ([]entities.Book, error) {
	books := make([]entities.Book, 0)
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&books).Error
	return books, err
}

// Owner resolves a book's owning user. The foreign key guarantees the
// reference resolves for any persisted book.
func (r *Repository) Owner(ctx context.Context, bookID uint) (*entities.User, error) {
	book, err := r.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var user entities.User
	if err := r.db.WithContext(ctx).First(&user, book.UserID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves changed fields of an existing book.
func (r *Repository) Update(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Model(book).Select("title", "authors", "edition", "read", "user_id").Updates(map[string]any{
		"title":   book.Title,
		"authors": book.Authors,
		"edition": book.Edition,
		"read":    book.Read,
		"user_id": book.UserID,
	}).Error
}

// Delete removes a book; its pivot rows cascade at the storage layer.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
