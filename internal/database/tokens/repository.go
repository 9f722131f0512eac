// Package tokens provides database operations for bearer tokens.
package tokens

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Repository handles all token database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tokens repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a freshly minted token. Every login stores a new row;
// tokens are not deduplicated per user.
func (r *Repository) Create(ctx context.Context, token *entities.Token) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByValue resolves a bearer value to its token row.
func (r *Repository) GetByValue(ctx context.Context, value string) (*entities.Token, error) {
	var token entities.Token
	err := r.db.WithContext(ctx).Where("value = ?", value).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ForUser returns all active tokens of a user.
func (r *Repository) ForUser(ctx context.Context, userID uint) ([]entities.Token, error) {
	var tokens []entities.Token
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

// DeleteForUser revokes every token of a user and reports how many rows went.
func (r *Repository) DeleteForUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.Token{})
	return result.RowsAffected, result.Error
}
