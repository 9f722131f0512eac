package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database/users"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// WebController serves the server-rendered HTML surface. Auth failures on
// protected pages redirect to the login form instead of returning an error
// status; that divergence from the API is deliberate.
type WebController struct {
	books        BookStore
	userStore    UserStore
	categories   CategoryStore
	synchronizer *catalog.Synchronizer
	authService  *auth.Service
	sessions     *auth.SessionManager
}

func NewWebController(
	books BookStore,
	userStore UserStore,
	categories CategoryStore,
	synchronizer *catalog.Synchronizer,
	authService *auth.Service,
	sessions *auth.SessionManager,
) *WebController {
	return &WebController{
		books:        books,
		userStore:    userStore,
		categories:   categories,
		synchronizer: synchronizer,
		authService:  authService,
		sessions:     sessions,
	}
}

// Index renders the homepage with every book.
// GET /
func (wc *WebController) Index(c *gin.Context) {
	books, err := wc.books.All(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	// The banner shows until the client stores the cookies-accepted cookie.
	_, cookieErr := c.Request.Cookie("cookies-accepted")
	c.HTML(http.StatusOK, "index", gin.H{
		"Title":             "Homepage",
		"Books":             books,
		"UserLoggedIn":      auth.CurrentUser(c) != nil,
		"ShowCookieMessage": cookieErr != nil,
	})
}

// BookPage renders one book with its owner and categories.
// GET /books/:id
func (wc *WebController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := wc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	owner, err := wc.books.Owner(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading owner: %s", err.Error())
		return
	}
	categories, err := wc.categories.ForBook(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "book", gin.H{
		"Title":      book.Title,
		"Book":       book,
		"User":       owner.Public(),
		"Categories": categories,
	})
}

// UserPage renders one user and their books.
// GET /users/:id
func (wc *WebController) UserPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := wc.userStore.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "User not found")
		return
	}
	books, err := wc.books.ForUser(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "user", gin.H{
		"Title": user.Name,
		"User":  user.Public(),
		"Books": books,
	})
}

// AllUsersPage renders the user listing.
// GET /users
func (wc *WebController) AllUsersPage(c *gin.Context) {
	all, err := wc.userStore.All(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading users: %s", err.Error())
		return
	}
	c.HTML(http.StatusOK, "users", gin.H{
		"Title": "All Users",
		"Users": entities.PublicUsers(all),
	})
}

// AllCategoriesPage renders the category listing.
// GET /categories
func (wc *WebController) AllCategoriesPage(c *gin.Context) {
	categories, err := wc.categories.All(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}
	c.HTML(http.StatusOK, "categories", gin.H{
		"Title":      "All Categories",
		"Categories": categories,
	})
}

// CategoryPage renders one category and its books.
// GET /categories/:id
func (wc *WebController) CategoryPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := wc.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "Category not found")
		return
	}
	books, err := wc.categories.BooksFor(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "category", gin.H{
		"Title":    category.Name,
		"Category": category,
		"Books":    books,
	})
}

// LoginPage renders the login form; ?error flags a failed attempt.
// GET /login
func (wc *WebController) LoginPage(c *gin.Context) {
	_, loginError := c.GetQuery("error")
	c.HTML(http.StatusOK, "login", gin.H{
		"Title":      "Log In",
		"LoginError": loginError,
	})
}

// Login verifies the posted credentials and authenticates the session.
// Invalid credentials redirect back with the error flag rather than
// returning a hard status.
// POST /login
func (wc *WebController) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := wc.authService.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/login?error")
		return
	}

	if err := wc.sessions.CreateSession(c.Request, user); err != nil {
		c.String(http.StatusInternalServerError, "Error creating session: %s", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session's authentication state.
// POST /logout
func (wc *WebController) Logout(c *gin.Context) {
	if err := wc.sessions.DestroySession(c.Request); err != nil {
		c.String(http.StatusInternalServerError, "Error destroying session: %s", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage renders the registration form; ?message carries the reason
// a previous attempt was rejected.
// GET /register
func (wc *WebController) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", gin.H{
		"Title":   "Register",
		"Message": c.Query("message"),
	})
}

// Register validates the form, creates the user and authenticates the
// session. Any validation failure re-presents the form with a readable,
// URL-encoded reason instead of raising a hard error.
// POST /register
func (wc *WebController) Register(c *gin.Context) {
	var data auth.RegisterData
	if err := c.ShouldBind(&data); err != nil {
		c.Redirect(http.StatusSeeOther, "/register?message="+url.QueryEscape("invalid form submission"))
		return
	}

	if violations := data.Validate(); len(violations) > 0 {
		c.Redirect(http.StatusSeeOther, "/register?message="+url.QueryEscape(auth.Reasons(violations)))
		return
	}

	user, err := wc.authService.CreateUser(c.Request.Context(), data.Name, data.Username, data.Password)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			c.Redirect(http.StatusSeeOther, "/register?message="+url.QueryEscape("username already taken"))
			return
		}
		c.String(http.StatusInternalServerError, "Error creating user: %s", err.Error())
		return
	}

	if err := wc.sessions.CreateSession(c.Request, user); err != nil {
		c.String(http.StatusInternalServerError, "Error creating session: %s", err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// CreateBookPage renders the creation form and issues the single-use CSRF
// token bound to this session.
// GET /books/create
func (wc *WebController) CreateBookPage(c *gin.Context) {
	token, err := wc.sessions.IssueCSRFToken(c.Request)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error issuing form token: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "createBook", gin.H{
		"Title":     "Create A Book",
		"CSRFToken": token,
	})
}

// CreateBook checks the CSRF token, creates the book and attaches the
// submitted category names. The stored token is consumed whether or not
// the comparison passes.
// POST /books/create
func (wc *WebController) CreateBook(c *gin.Context) {
	if !wc.checkCSRF(c) {
		return
	}

	user := auth.CurrentUser(c)
	edition := optional(c.PostForm("edition"))
	book := &entities.Book{
		Title:   c.PostForm("title"),
		Authors: c.PostForm("authors"),
		Edition: edition,
		UserID:  user.ID,
	}
	if err := wc.books.Create(c.Request.Context(), book); err != nil {
		c.String(http.StatusInternalServerError, "Error creating book: %s", err.Error())
		return
	}

	if names := formCategories(c); len(names) > 0 {
		if err := wc.synchronizer.Sync(c.Request.Context(), book.ID, names); err != nil {
			c.String(http.StatusInternalServerError, "Error attaching categories: %s", err.Error())
			return
		}
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d", book.ID))
}

// EditBookPage renders the edit form preloaded with the book and its
// categories, and issues a fresh CSRF token.
// GET /books/:id/edit
func (wc *WebController) EditBookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := wc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	categories, err := wc.categories.ForBook(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}

	token, err := wc.sessions.IssueCSRFToken(c.Request)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error issuing form token: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "createBook", gin.H{
		"Title":      "Edit Book",
		"Editing":    true,
		"Book":       book,
		"Categories": categories,
		"CSRFToken":  token,
	})
}

// EditBook applies field changes, reassigns the owner to the caller and
// reconciles the category set through the synchronizer.
// POST /books/:id/edit
func (wc *WebController) EditBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !wc.checkCSRF(c) {
		return
	}

	book, err := wc.books.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}

	user := auth.CurrentUser(c)
	book.Title = c.PostForm("title")
	book.Authors = c.PostForm("authors")
	book.Edition = optional(c.PostForm("edition"))
	book.UserID = user.ID

	if err := wc.books.Update(c.Request.Context(), book); err != nil {
		c.String(http.StatusInternalServerError, "Error updating book: %s", err.Error())
		return
	}

	if err := wc.synchronizer.Sync(c.Request.Context(), book.ID, formCategories(c)); err != nil {
		c.String(http.StatusInternalServerError, "Error syncing categories: %s", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/books/%d", book.ID))
}

// DeleteBook removes a book from the web surface and returns home.
// POST /books/:id/delete
func (wc *WebController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := wc.books.Delete(c.Request.Context(), id); err != nil {
		c.String(http.StatusNotFound, "Book not found")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// checkCSRF consumes the session's form token and compares it against the
// submitted one. The stored token is gone after this call regardless of
// the outcome; a mismatch answers 400.
func (wc *WebController) checkCSRF(c *gin.Context) bool {
	expected := wc.sessions.TakeCSRFToken(c.Request)
	submitted := c.PostForm("csrfToken")
	if expected == "" || expected != submitted {
		c.String(http.StatusBadRequest, "Invalid form token")
		return false
	}
	return true
}

// formCategories reads the repeated "categories" form field, dropping
// blank entries.
func formCategories(c *gin.Context) []string {
	var names []string
	for _, name := range c.PostFormArray("categories") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
