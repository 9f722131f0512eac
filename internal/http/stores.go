package http

import (
	"context"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// BookStore defines the database operations the book controllers need.
type BookStore interface {
	Create(ctx context.Context, book *entities.Book) error
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	All(ctx context.Context) ([]entities.Book, error)
	AllSortedByTitle(ctx context.Context) ([]entities.Book, error)
	First(ctx context.Context) (*entities.Book, error)
	Search(ctx context.Context, term string) ([]entities.Book, error)
	ForUser(ctx context.Context, userID uint) ([]entities.Book, error)
	Owner(ctx context.Context, bookID uint) (*entities.User, error)
	Update(ctx context.Context, book *entities.Book) error
	Delete(ctx context.Context, id uint) error
}

// UserStore defines the database operations the user controllers need.
type UserStore interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	All(ctx context.Context) ([]entities.User, error)
}

// CategoryStore defines the database operations the category controllers need.
type CategoryStore interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, id uint) (*entities.Category, error)
	All(ctx context.Context) ([]entities.Category, error)
	ForBook(ctx context.Context, bookID uint) ([]entities.Category, error)
	BooksFor(ctx context.Context, categoryID uint) ([]entities.Book, error)
	AttachToBook(ctx context.Context, bookID, categoryID uint) error
	DetachFromBook(ctx context.Context, bookID, categoryID uint) error
}

// RouterConfig carries every dependency the router wires into controllers.
type RouterConfig struct {
	Books         BookStore
	Users         UserStore
	Categories    CategoryStore
	Synchronizer  *catalog.Synchronizer
	AuthService   *auth.Service
	Sessions      *auth.SessionManager
	TemplatesPath string
	Version       string
}
