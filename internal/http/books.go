package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// BookData is the request body for creating and updating books.
type BookData struct {
	Title   string  `json:"title" binding:"required"`
	Authors string  `json:"authors" binding:"required"`
	Edition *string `json:"edition"`
	Read    bool    `json:"read"`
}

// BooksController serves the JSON book endpoints.
type BooksController struct {
	books      BookStore
	categories CategoryStore
}

func NewBooksController(books BookStore, categories CategoryStore) *BooksController {
	return &BooksController{books: books, categories: categories}
}

// GetAllBooks returns every book in insertion order
// GET /api/books
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books, err := bc.books.All(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "get all books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "book", "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// SearchBooks returns books whose title or authors equal the term
// GET /api/books/search?term=
func (bc *BooksController) SearchBooks(c *gin.Context) {
	term, exists := c.GetQuery("term")
	if !exists {
		respondBadRequest(c, "term is required")
		return
	}

	books, err := bc.books.Search(c.Request.Context(), term)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetFirstBook returns the first book by store order
// GET /api/books/first
func (bc *BooksController) GetFirstBook(c *gin.Context) {
	book, err := bc.books.First(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "book", "get first book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// GetSortedBooks returns every book ordered by title ascending
// GET /api/books/sorted
func (bc *BooksController) GetSortedBooks(c *gin.Context) {
	books, err := bc.books.AllSortedByTitle(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "get sorted books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook creates a book owned by the authenticated principal
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var data BookData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "title and authors are required")
		return
	}

	user := auth.CurrentUser(c)
	book := &entities.Book{
		Title:   data.Title,
		Authors: data.Authors,
		Edition: data.Edition,
		Read:    data.Read,
		UserID:  user.ID,
	}
	if err := bc.books.Create(c.Request.Context(), book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook replaces a book's fields and reassigns it to the caller
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var data BookData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "title and authors are required")
		return
	}

	book, err := bc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "book", "update book")
		return
	}

	user := auth.CurrentUser(c)
	book.Title = data.Title
	book.Authors = data.Authors
	book.Edition = data.Edition
	book.Read = data.Read
	book.UserID = user.ID

	if err := bc.books.Update(c.Request.Context(), book); err != nil {
		respondInternalError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book; its pivot rows cascade
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "book", "delete book")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBookUser returns the password-free projection of the book's owner
// GET /api/books/:id/user
func (bc *BooksController) GetBookUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	owner, err := bc.books.Owner(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "book", "get book user")
		return
	}
	c.JSON(http.StatusOK, owner.Public())
}

// GetBookCategories lists the categories attached to a book
// GET /api/books/:id/categories
func (bc *BooksController) GetBookCategories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	categories, err := bc.categories.ForBook(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "book", "get book categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// AttachCategory associates a category with a book
// POST /api/books/:id/categories/:categoryID
func (bc *BooksController) AttachCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}

	if err := bc.categories.AttachToBook(c.Request.Context(), bookID, categoryID); err != nil {
		respondStoreError(c, err, "book or category", "attach category")
		return
	}
	c.Status(http.StatusCreated)
}

// DetachCategory removes the association between a book and a category
// DELETE /api/books/:id/categories/:categoryID
func (bc *BooksController) DetachCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryID")
	if !ok {
		return
	}

	if err := bc.categories.DetachFromBook(c.Request.Context(), bookID, categoryID); err != nil {
		respondStoreError(c, err, "book or category", "detach category")
		return
	}
	c.Status(http.StatusNoContent)
}
