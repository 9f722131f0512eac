// Package categories provides database operations for categories and the
// book/category association.
package categories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new category.
func (r *Repository) Create(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// GetByID retrieves a category by primary key.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves a category by exact, case-sensitive name.
func (r *Repository) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOrCreateByName retrieves a category by exact name, creating it first
// when absent.
func (r *Repository) GetOrCreateByName(ctx context.Context, name string) (*entities.Category, error) {
	category, err := r.GetByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	category = &entities.Category{Name: name}
	if err := r.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// All returns every category in insertion order.
func (r *Repository) All(ctx context.Context) ([]entities.Category, error) {
	categories := make([]entities.Category, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	return categories, err
}

// ForBook returns the categories attached to a book.
func (r *Repository) ForBook(ctx context.Context, bookID uint) ([]entities.Category, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	categories := make([]entities.Category, 0)
	err = r.db.WithContext(ctx).Model(&book).Order("categories.id ASC").Association("Categories").Find(&categories)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// BooksFor returns the books attached to a category.
func (r *Repository) BooksFor(ctx context.Context, categoryID uint) ([]entities.Book, error) {
	var category entities.Category
	err := r.db.WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	books := make([]entities.Book, 0)
	err = r.db.WithContext(ctx).Model(&category).Order("books.id ASC").Association("Books").Find(&books)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// AttachToBook associates a category with a book. Attaching an already
// attached pair is a no-op; either side missing is ErrNotFound.
func (r *Repository) AttachToBook(ctx context.Context, bookID, categoryID uint) error {
	book, category, err := r.resolvePair(ctx, bookID, categoryID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(book).Association("Categories").Append(category)
}

// DetachFromBook removes the association between a book and a category.
// Detaching an absent pair is a no-op.
func (r *Repository) DetachFromBook(ctx context.Context, bookID, categoryID uint) error {
	book, category, err := r.resolvePair(ctx, bookID, categoryID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(book).Association("Categories").Delete(category)
}

func (r *Repository) resolvePair(ctx context.Context, bookID, categoryID uint) (*entities.Book, *entities.Category, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, database.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var category entities.Category
	err = r.db.WithContext(ctx).First(&category, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, database.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	return &book, &category, nil
}
