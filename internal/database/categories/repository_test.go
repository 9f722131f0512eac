package categories

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database, func()) {
	dbPath := "./test_categories_" + t.Name() + ".db"

	db, err := database.New(config.Database{
		Driver: config.DriverSQLite,
		Path:   dbPath,
	})
	require.NoError(t, err)

	repo := NewRepository(db.DB)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func createTestBook(t *testing.T, db *database.Database, title string) *entities.Book {
	user := &entities.User{Name: "Owner", Username: "owner_" + title, PasswordHash: "h"}
	require.NoError(t, db.DB.Create(user).Error)
	book := &entities.Book{Title: title, Authors: "A", UserID: user.ID}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}

func TestRepository_GetOrCreateByName(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	again, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestRepository_GetOrCreateByName_CaseSensitive(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	upper, err := repo.GetOrCreateByName(ctx, "Fiction")
	require.NoError(t, err)

	// A differently cased name is a different category
	lower, err := repo.GetOrCreateByName(ctx, "fiction")
	require.NoError(t, err)
	assert.NotEqual(t, upper.ID, lower.ID)
}

func TestRepository_AttachToBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := createTestBook(t, db, "Tagged")
	category, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)

	require.NoError(t, repo.AttachToBook(ctx, book.ID, category.ID))

	attached, err := repo.ForBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "Fantasy", attached[0].Name)

	books, err := repo.BooksFor(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Tagged", books[0].Title)
}

func TestRepository_AttachToBook_Idempotent(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := createTestBook(t, db, "Tagged")
	category, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)

	require.NoError(t, repo.AttachToBook(ctx, book.ID, category.ID))
	require.NoError(t, repo.AttachToBook(ctx, book.ID, category.ID))

	attached, err := repo.ForBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Len(t, attached, 1)
}

func TestRepository_AttachToBook_MissingSide(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := createTestBook(t, db, "Lonely")
	category, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.AttachToBook(ctx, 999, category.ID), database.ErrNotFound)
	assert.ErrorIs(t, repo.AttachToBook(ctx, book.ID, 999), database.ErrNotFound)
}

func TestRepository_DetachFromBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := createTestBook(t, db, "Tagged")
	category, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)

	require.NoError(t, repo.AttachToBook(ctx, book.ID, category.ID))
	require.NoError(t, repo.DetachFromBook(ctx, book.ID, category.ID))

	attached, err := repo.ForBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	// Detaching an absent pair is a no-op, the category itself survives
	require.NoError(t, repo.DetachFromBook(ctx, book.ID, category.ID))
	_, err = repo.GetByID(ctx, category.ID)
	assert.NoError(t, err)
}

func TestRepository_DeleteBook_CascadesPivotRows(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	book := createTestBook(t, db, "Ephemeral")
	category, err := repo.GetOrCreateByName(ctx, "Fantasy")
	require.NoError(t, err)
	require.NoError(t, repo.AttachToBook(ctx, book.ID, category.ID))

	require.NoError(t, db.DB.Delete(&entities.Book{}, book.ID).Error)

	var pivots int64
	require.NoError(t, db.DB.Model(&entities.BookCategory{}).Where("book_id = ?", book.ID).Count(&pivots).Error)
	assert.Zero(t, pivots)

	// The category keeps existing with zero books
	books, err := repo.BooksFor(ctx, category.ID)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestRepository_All_Order(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha"} {
		_, err := repo.GetOrCreateByName(ctx, name)
		require.NoError(t, err)
	}

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Zeta", all[0].Name)
	assert.Equal(t, "Alpha", all[1].Name)
}
