package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Auth requirements are explicit wrappers applied per route group at
// registration time, not an ambient middleware chain: the API groups take
// the bearer resolver, the web groups the session resolver.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Session middleware runs globally so both the web surface and the
	// login flow can touch session state.
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}

	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	bearer := auth.NewBearerResolver(cfg.AuthService)
	session := auth.NewSessionResolver(cfg.AuthService, cfg.Sessions)

	booksController := NewBooksController(cfg.Books, cfg.Categories)
	usersController := NewUsersController(cfg.Users, cfg.Books, cfg.AuthService)
	categoriesController := NewCategoriesController(cfg.Categories)
	webController := NewWebController(cfg.Books, cfg.Users, cfg.Categories, cfg.Synchronizer, cfg.AuthService, cfg.Sessions)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong", "version": cfg.Version})
	})

	// Books API
	api := router.Group("/api")
	api.GET("/books", booksController.GetAllBooks)
	api.GET("/books/search", booksController.SearchBooks)
	api.GET("/books/first", booksController.GetFirstBook)
	api.GET("/books/sorted", booksController.GetSortedBooks)
	api.GET("/books/:id", booksController.GetBook)
	api.GET("/books/:id/user", booksController.GetBookUser)
	api.GET("/books/:id/categories", booksController.GetBookCategories)

	apiToken := router.Group("/api", auth.RequireAPI(bearer))
	apiToken.POST("/books", booksController.CreateBook)
	apiToken.PUT("/books/:id", booksController.UpdateBook)
	apiToken.DELETE("/books/:id", booksController.DeleteBook)
	apiToken.POST("/books/:id/categories/:categoryID", booksController.AttachCategory)
	apiToken.DELETE("/books/:id/categories/:categoryID", booksController.DetachCategory)

	// Users API
	api.GET("/users", usersController.GetAllUsers)
	api.POST("/users", usersController.CreateUser)
	api.GET("/users/:id", usersController.GetUser)
	api.GET("/users/:id/books", usersController.GetUserBooks)
	router.POST("/api/users/login", auth.RequireBasic(cfg.AuthService), usersController.Login)

	// Categories API
	api.GET("/categories", categoriesController.GetAllCategories)
	api.GET("/categories/:id", categoriesController.GetCategory)
	api.GET("/categories/:id/books", categoriesController.GetCategoryBooks)
	apiToken.POST("/categories", categoriesController.CreateCategory)

	// Web surface: public pages resolve the principal when present for the
	// logged-in flag, protected pages redirect to /login.
	web := router.Group("/", auth.Optional(session))
	web.GET("/", webController.Index)
	web.GET("/books/:id", webController.BookPage)
	web.GET("/users", webController.AllUsersPage)
	web.GET("/users/:id", webController.UserPage)
	web.GET("/categories", webController.AllCategoriesPage)
	web.GET("/categories/:id", webController.CategoryPage)
	web.GET("/login", webController.LoginPage)
	web.POST("/login", webController.Login)
	web.POST("/logout", webController.Logout)
	web.GET("/logout", webController.Logout)
	web.GET("/register", webController.RegisterPage)
	web.POST("/register", webController.Register)

	protected := router.Group("/", auth.RequireWeb(session))
	protected.GET("/books/create", webController.CreateBookPage)
	protected.POST("/books/create", webController.CreateBook)
	protected.GET("/books/:id/edit", webController.EditBookPage)
	protected.POST("/books/:id/edit", webController.EditBook)
	protected.POST("/books/:id/delete", webController.DeleteBook)

	return router
}
