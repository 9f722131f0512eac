package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/database/users"
	"github.com/mrlokans/bookcatalog/internal/entities"
)

// UserData is the request body for creating users over the API.
type UserData struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UsersController serves the JSON user endpoints. Every response carries
// the password-free projection, never the stored user.
type UsersController struct {
	users       UserStore
	books       BookStore
	authService *auth.Service
}

func NewUsersController(users UserStore, books BookStore, authService *auth.Service) *UsersController {
	return &UsersController{users: users, books: books, authService: authService}
}

// GetAllUsers returns every user as public projections
// GET /api/users
func (uc *UsersController) GetAllUsers(c *gin.Context) {
	all, err := uc.users.All(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "get all users")
		return
	}
	c.JSON(http.StatusOK, entities.PublicUsers(all))
}

// GetUser returns a single user as a public projection
// GET /api/users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err, "user", "get user")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// CreateUser registers a user over the API
// POST /api/users
func (uc *UsersController) CreateUser(c *gin.Context) {
	var data UserData
	if err := c.ShouldBindJSON(&data); err != nil {
		respondBadRequest(c, "name, username and password are required")
		return
	}

	user, err := uc.authService.CreateUser(c.Request.Context(), data.Name, data.Username, data.Password)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			respondBadRequest(c, "username already taken")
			return
		}
		respondInternalError(c, err, "create user")
		return
	}
	respondCreated(c, user.Public())
}

// GetUserBooks lists the books a user owns
// GET /api/users/:id/books
func (uc *UsersController) GetUserBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := uc.users.GetByID(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "user", "get user books")
		return
	}

	owned, err := uc.books.ForUser(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "get user books")
		return
	}
	c.JSON(http.StatusOK, owned)
}

// Login mints a fresh bearer token for the Basic-authenticated principal
// POST /api/users/login
func (uc *UsersController) Login(c *gin.Context) {
	user := auth.CurrentUser(c)

	token, err := uc.authService.MintToken(c.Request.Context(), user)
	if err != nil {
		respondInternalError(c, err, "login")
		return
	}
	c.JSON(http.StatusOK, token)
}
